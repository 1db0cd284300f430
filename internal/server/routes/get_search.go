package routes

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/corvid-labs/magpie/internal/server/middleware"
)

const defaultMaxResults = 10

func SearchDocumentsHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App

	query := c.QueryParam("q")
	if query == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Query parameter q is required",
		})
	}

	maxResults := defaultMaxResults
	if raw := c.QueryParam("max_results"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"message": "max_results must be a positive integer",
			})
		}
		maxResults = parsed
	}

	results := app.Docs.FullTextSearch(query, maxResults)
	return c.JSON(http.StatusOK, map[string]any{
		"query":   query,
		"results": results,
		"count":   len(results),
	})
}

func GetOverviewHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	return c.JSON(http.StatusOK, app.Engine.Overview())
}

func GetStatsHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	return c.JSON(http.StatusOK, map[string]any{
		"documents":       app.Docs.CorpusStats(),
		"knowledge_graph": app.Graph.Stats(),
	})
}

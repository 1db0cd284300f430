package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/corvid-labs/magpie/internal/server/middleware"
)

func GetKnowledgeGraphHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	return c.JSON(http.StatusOK, app.Graph.Export())
}

func GetGraphStatsHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	return c.JSON(http.StatusOK, app.Graph.Stats())
}

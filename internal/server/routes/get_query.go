package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/corvid-labs/magpie/internal/server/middleware"
)

func QueryEntityHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	return c.JSON(http.StatusOK, app.Engine.QueryEntity(c.Param("name")))
}

func QueryConnectionHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App

	entity1 := c.QueryParam("entity1")
	entity2 := c.QueryParam("entity2")
	if entity1 == "" || entity2 == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Both entity1 and entity2 query parameters are required",
		})
	}

	return c.JSON(http.StatusOK, app.Engine.FindConnections(entity1, entity2))
}

func QueryEntitiesByTypeHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	return c.JSON(http.StatusOK, app.Engine.AggregateByType(c.Param("type")))
}

func QueryContradictionsHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	return c.JSON(http.StatusOK, app.Engine.FindContradictions())
}

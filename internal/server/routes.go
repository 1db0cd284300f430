package server

import (
	"github.com/labstack/echo/v4"

	"github.com/corvid-labs/magpie/internal/server/middleware"
	"github.com/corvid-labs/magpie/internal/server/routes"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Document routes
	apiRoutes.POST("/documents", routes.IngestDocumentHandler)
	apiRoutes.GET("/documents", routes.ListDocumentsHandler)
	apiRoutes.GET("/documents/timeline", routes.GetTimelineHandler)
	apiRoutes.GET("/documents/:id", routes.GetDocumentHandler)
	apiRoutes.GET("/documents/:id/insights", routes.GetDocumentInsightsHandler)
	apiRoutes.DELETE("/documents/:id", routes.DeleteDocumentHandler)

	// Knowledge graph routes
	apiRoutes.GET("/knowledge-graph", routes.GetKnowledgeGraphHandler)
	apiRoutes.GET("/knowledge-graph/stats", routes.GetGraphStatsHandler)

	// Query routes
	apiRoutes.GET("/query/entity/:name", routes.QueryEntityHandler)
	apiRoutes.GET("/query/connection", routes.QueryConnectionHandler)
	apiRoutes.GET("/query/entities/:type", routes.QueryEntitiesByTypeHandler)
	apiRoutes.GET("/query/contradictions", routes.QueryContradictionsHandler)
	apiRoutes.POST("/query/ask", routes.AskQuestionHandler)

	// Corpus routes
	apiRoutes.GET("/search", routes.SearchDocumentsHandler)
	apiRoutes.GET("/overview", routes.GetOverviewHandler)
	apiRoutes.GET("/stats", routes.GetStatsHandler)
	apiRoutes.DELETE("/reset", routes.ResetHandler)
}

package routes

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/corvid-labs/magpie/internal/queue"
	"github.com/corvid-labs/magpie/internal/server/middleware"
	"github.com/corvid-labs/magpie/pkg/logger"
)

func DeleteDocumentHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	id := c.Param("id")

	if app.AsyncIngest && app.Queue != nil {
		body, err := json.Marshal(queue.DeleteDocumentMsg{DocumentID: id})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"message": "Internal server error",
			})
		}
		if err := queue.Publish(app.Queue, queue.DeleteQueue, body); err != nil {
			logger.Error("Failed to publish delete message", "document_id", id, "err", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"message": "Internal server error",
			})
		}
		return c.JSON(http.StatusAccepted, map[string]string{
			"message":     "Document queued for deletion",
			"document_id": id,
		})
	}

	if !app.Ingest.DeleteDocument(c.Request().Context(), id, true) {
		return c.JSON(http.StatusNotFound, map[string]string{
			"message": "Document not found",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message":     "Document deleted",
		"document_id": id,
	})
}

func ResetHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App

	app.Ingest.Reset(c.Request().Context())

	return c.JSON(http.StatusOK, map[string]string{
		"message": "All data cleared",
	})
}

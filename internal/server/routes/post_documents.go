package routes

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/corvid-labs/magpie/internal/ingest"
	"github.com/corvid-labs/magpie/internal/queue"
	"github.com/corvid-labs/magpie/internal/server/middleware"
	"github.com/corvid-labs/magpie/pkg/common"
	"github.com/corvid-labs/magpie/pkg/logger"
)

// IngestDocumentHandler accepts one extracted document and its entity
// records. With async ingestion enabled the work is queued and the minted
// document id returned immediately; otherwise ingestion is synchronous.
func IngestDocumentHandler(c echo.Context) error {
	type ingestDocumentBody struct {
		Filename string                `json:"filename" validate:"required"`
		Content  string                `json:"content" validate:"required"`
		Summary  string                `json:"summary"`
		FileType string                `json:"file_type"`
		Entities []common.EntityRecord `json:"entities"`
	}

	type ingestDocumentResponse struct {
		Message    string           `json:"message"`
		DocumentID string           `json:"document_id,omitempty"`
		Document   *common.Document `json:"document,omitempty"`
	}

	data := new(ingestDocumentBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, ingestDocumentResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, ingestDocumentResponse{
			Message: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	if app.AsyncIngest && app.Queue != nil {
		docID, err := gonanoid.New()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, ingestDocumentResponse{
				Message: "Internal server error",
			})
		}

		msg := queue.IngestDocumentMsg{
			DocumentID: docID,
			Filename:   data.Filename,
			Content:    data.Content,
			Summary:    data.Summary,
			FileType:   data.FileType,
			Entities:   data.Entities,
		}
		body, err := json.Marshal(msg)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, ingestDocumentResponse{
				Message: "Internal server error",
			})
		}
		if err := queue.Publish(app.Queue, queue.IngestQueue, body); err != nil {
			logger.Error("Failed to publish ingest message", "err", err)
			return c.JSON(http.StatusInternalServerError, ingestDocumentResponse{
				Message: "Internal server error",
			})
		}

		return c.JSON(http.StatusAccepted, ingestDocumentResponse{
			Message:    "Document queued for ingestion",
			DocumentID: docID,
		})
	}

	doc, err := app.Ingest.IngestDocument(ctx, ingest.DocumentParams{
		Filename: data.Filename,
		Content:  data.Content,
		Summary:  data.Summary,
		FileType: data.FileType,
		Entities: data.Entities,
		Flush:    true,
	})
	if err != nil {
		logger.Error("Failed to ingest document", "filename", data.Filename, "err", err)
		return c.JSON(http.StatusInternalServerError, ingestDocumentResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusCreated, ingestDocumentResponse{
		Message:    "Document ingested",
		DocumentID: doc.ID,
		Document:   &doc,
	})
}

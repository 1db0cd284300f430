package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/corvid-labs/magpie/internal/server/middleware"
	"github.com/corvid-labs/magpie/pkg/common"
	"github.com/corvid-labs/magpie/pkg/logger"
	"github.com/corvid-labs/magpie/pkg/reason"
)

// documentSummary is the list view of a document: everything except the
// full content and chunks.
type documentSummary struct {
	ID          string   `json:"id"`
	Filename    string   `json:"filename"`
	Summary     string   `json:"summary"`
	UploadDate  string   `json:"upload_date"`
	FileType    string   `json:"file_type"`
	WordCount   int      `json:"word_count"`
	EntityCount int      `json:"entity_count"`
	Keywords    []string `json:"keywords"`
}

func summarize(doc common.Document) documentSummary {
	return documentSummary{
		ID:          doc.ID,
		Filename:    doc.Filename,
		Summary:     doc.Summary,
		UploadDate:  doc.UploadDate.Format("2006-01-02T15:04:05Z07:00"),
		FileType:    doc.FileType,
		WordCount:   doc.WordCount,
		EntityCount: len(doc.EntityIDs),
		Keywords:    doc.Keywords,
	}
}

func ListDocumentsHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App

	docs := app.Docs.All()
	summaries := make([]documentSummary, 0, len(docs))
	for _, doc := range docs {
		summaries = append(summaries, summarize(doc))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"documents": summaries,
		"count":     len(summaries),
	})
}

func GetDocumentHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App

	doc, ok := app.Docs.Document(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{
			"message": "Document not found",
		})
	}

	entities := app.Graph.EntitiesInDocument(doc.ID)
	return c.JSON(http.StatusOK, map[string]any{
		"document": doc,
		"entities": entities,
	})
}

func GetDocumentInsightsHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App

	insights, err := app.Engine.DocumentInsights(c.Param("id"))
	if err != nil {
		if errors.Is(err, reason.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"message": "Document not found",
			})
		}
		logger.Error("Failed to build document insights", "document_id", c.Param("id"), "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"message": "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, insights)
}

func GetTimelineHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	return c.JSON(http.StatusOK, map[string]any{
		"timeline": app.Docs.Timeline(),
	})
}

package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/corvid-labs/magpie/internal/ingest"
	"github.com/corvid-labs/magpie/pkg/common"
	"github.com/corvid-labs/magpie/pkg/logger"
)

// IngestDocumentMsg is the payload published to the ingest queue. Entities
// are the upstream extractor's records for the document.
type IngestDocumentMsg struct {
	DocumentID string                `json:"document_id,omitempty"`
	Filename   string                `json:"filename"`
	Content    string                `json:"content"`
	Summary    string                `json:"summary"`
	FileType   string                `json:"file_type,omitempty"`
	Entities   []common.EntityRecord `json:"entities"`
}

// DeleteDocumentMsg is the payload published to the delete queue.
type DeleteDocumentMsg struct {
	DocumentID string `json:"document_id"`
}

// ProcessIngestMessage handles one ingest queue delivery.
func ProcessIngestMessage(ctx context.Context, svc *ingest.Service, body []byte) error {
	var msg IngestDocumentMsg
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("failed to decode ingest message: %w", err)
	}

	doc, err := svc.IngestDocument(ctx, ingest.DocumentParams{
		ID:       msg.DocumentID,
		Filename: msg.Filename,
		Content:  msg.Content,
		Summary:  msg.Summary,
		FileType: msg.FileType,
		Entities: msg.Entities,
		Flush:    true,
	})
	if err != nil {
		return fmt.Errorf("failed to ingest document %s: %w", msg.Filename, err)
	}

	logger.Info("[Queue] Ingested document", "document_id", doc.ID, "filename", doc.Filename)
	return nil
}

// ProcessDeleteMessage handles one delete queue delivery. Deleting an
// already-absent document is a no-op, not a failure, so redeliveries are
// harmless.
func ProcessDeleteMessage(ctx context.Context, svc *ingest.Service, body []byte) error {
	var msg DeleteDocumentMsg
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("failed to decode delete message: %w", err)
	}

	if !svc.DeleteDocument(ctx, msg.DocumentID, true) {
		logger.Warn("[Queue] Document already absent", "document_id", msg.DocumentID)
	}
	return nil
}

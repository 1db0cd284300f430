// Package ingest wires the knowledge graph and the document index into a
// single ingestion service used by the API server, the queue worker, and
// the batch importer.
package ingest

import (
	"context"
	"path/filepath"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/corvid-labs/magpie/internal/util"
	"github.com/corvid-labs/magpie/pkg/common"
	"github.com/corvid-labs/magpie/pkg/docindex"
	"github.com/corvid-labs/magpie/pkg/graph"
	"github.com/corvid-labs/magpie/pkg/logger"
)

// flushRetries bounds snapshot write attempts before the error is given
// up on. Persistence failures never fail the ingestion itself.
const flushRetries = 3

// Service performs document ingestion across both stores. Operations
// always touch the graph store before the document index, which is the
// fixed lock order for the two stores.
type Service struct {
	graph *graph.Graph
	docs  *docindex.Index
}

// NewService creates an ingestion service over the given stores.
func NewService(g *graph.Graph, docs *docindex.Index) *Service {
	return &Service{graph: g, docs: docs}
}

// DocumentParams describes one document to ingest, with the entity
// records produced by the upstream extractor.
type DocumentParams struct {
	ID       string // minted when empty
	Filename string
	Content  string
	Summary  string
	FileType string // derived from Filename when empty
	Entities []common.EntityRecord
	// Flush controls whether both snapshots are written after the
	// ingestion. Batch callers disable it and flush once at the end.
	Flush bool
}

// IngestDocument adds the document's entities to the knowledge graph,
// derives co-occurrence edges, and indexes the document with
// back-references to the created entities.
func (s *Service) IngestDocument(ctx context.Context, params DocumentParams) (common.Document, error) {
	id := params.ID
	if id == "" {
		var err error
		id, err = gonanoid.New()
		if err != nil {
			return common.Document{}, err
		}
	}

	fileType := params.FileType
	if fileType == "" {
		fileType = strings.TrimPrefix(strings.ToUpper(filepath.Ext(params.Filename)), ".")
		if fileType == "" {
			fileType = "TXT"
		}
	}

	entities := s.graph.IngestDocumentEntities(id, params.Entities, params.Content)
	entityIDs := make([]string, 0, len(entities))
	seen := make(map[string]struct{}, len(entities))
	for _, entity := range entities {
		if _, ok := seen[entity.ID]; ok {
			continue
		}
		seen[entity.ID] = struct{}{}
		entityIDs = append(entityIDs, entity.ID)
	}

	doc := s.docs.AddDocument(docindex.AddDocumentParams{
		ID:        id,
		Filename:  params.Filename,
		Content:   params.Content,
		Summary:   params.Summary,
		FileType:  fileType,
		EntityIDs: entityIDs,
	})

	if params.Flush {
		s.Flush(ctx)
	}

	logger.Info("[Ingest] Document ingested",
		"document_id", id,
		"entities", len(entityIDs),
	)
	return doc, nil
}

// DeleteDocument removes the document from the index. Graph mentions are
// retained: entities remain part of the corpus history. Returns false if
// the document was absent.
func (s *Service) DeleteDocument(ctx context.Context, id string, flush bool) bool {
	deleted := s.docs.Delete(id)
	if deleted && flush {
		s.Flush(ctx)
	}
	return deleted
}

// Reset clears both stores and persists the empty state.
func (s *Service) Reset(ctx context.Context) {
	s.graph.Clear()
	s.docs.Clear()
	s.Flush(ctx)
}

// Flush writes both snapshots, graph first. Failures are logged and
// swallowed: the system favors availability over durability consistency
// on persistence errors.
func (s *Service) Flush(ctx context.Context) {
	err := util.RetryErrWithContext(ctx, flushRetries, func(ctx context.Context) error {
		return s.graph.Flush(ctx)
	})
	if err != nil {
		logger.Error("[Ingest] Failed to flush graph snapshot", "err", err)
	}

	err = util.RetryErrWithContext(ctx, flushRetries, func(ctx context.Context) error {
		return s.docs.Flush(ctx)
	})
	if err != nil {
		logger.Error("[Ingest] Failed to flush document snapshot", "err", err)
	}
}

// Package docindex implements the document store: full documents with
// derived keywords and overlapping chunks, a keyword inverted index, and
// the search and similarity queries built on them.
package docindex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/corvid-labs/magpie/pkg/common"
	"github.com/corvid-labs/magpie/pkg/logger"
	"github.com/corvid-labs/magpie/pkg/store"
)

// Index is the document index. All exported methods are safe for
// concurrent use.
type Index struct {
	mu sync.RWMutex

	documents    map[string]*common.Document
	keywordIndex map[string]map[string]struct{}

	// docOrder keeps insertion order; search ties break first-added-first.
	docOrder []string

	snapshots store.Store
}

// New creates an empty document index that persists snapshots through the
// given store. A nil store disables persistence.
func New(snapshots store.Store) *Index {
	return &Index{
		documents:    make(map[string]*common.Document),
		keywordIndex: make(map[string]map[string]struct{}),
		snapshots:    snapshots,
	}
}

// AddDocumentParams describes one document to index. EntityIDs are
// back-references into the knowledge graph.
type AddDocumentParams struct {
	ID        string
	Filename  string
	Content   string
	Summary   string
	FileType  string
	EntityIDs []string
}

// AddDocument computes keywords and chunks for the content and stores the
// document. Re-adding an existing id re-ingests the document: its derived
// metadata is recomputed and old keyword buckets are retracted.
func (x *Index) AddDocument(params AddDocumentParams) common.Document {
	keywords := extractKeywords(params.Content, topKeywords)
	chunks := chunkContent(params.Content, chunkSize, chunkOverlap)

	doc := &common.Document{
		ID:         params.ID,
		Filename:   params.Filename,
		Content:    params.Content,
		Summary:    params.Summary,
		UploadDate: time.Now().UTC(),
		FileType:   params.FileType,
		WordCount:  len(strings.Fields(params.Content)),
		EntityIDs:  params.EntityIDs,
		Keywords:   keywords,
		Chunks:     chunks,
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if old, ok := x.documents[params.ID]; ok {
		x.retractKeywordsLocked(old)
	} else {
		x.docOrder = append(x.docOrder, params.ID)
	}

	x.documents[params.ID] = doc
	for _, keyword := range keywords {
		if x.keywordIndex[keyword] == nil {
			x.keywordIndex[keyword] = make(map[string]struct{})
		}
		x.keywordIndex[keyword][params.ID] = struct{}{}
	}

	logger.Info("[DocIndex] Added document", "document_id", params.ID, "filename", params.Filename)
	return *doc
}

// Document returns the document with the given id.
func (x *Index) Document(id string) (common.Document, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	doc, ok := x.documents[id]
	if !ok {
		return common.Document{}, false
	}
	return *doc, true
}

// All returns every document in insertion order.
func (x *Index) All() []common.Document {
	x.mu.RLock()
	defer x.mu.RUnlock()

	results := make([]common.Document, 0, len(x.docOrder))
	for _, id := range x.docOrder {
		results = append(results, *x.documents[id])
	}
	return results
}

// Delete removes the document and retracts it from every keyword bucket it
// appears in. Deleting an absent id is an idempotent no-op returning false.
func (x *Index) Delete(id string) bool {
	x.mu.Lock()
	defer x.mu.Unlock()

	doc, ok := x.documents[id]
	if !ok {
		return false
	}

	x.retractKeywordsLocked(doc)
	delete(x.documents, id)
	for i, orderedID := range x.docOrder {
		if orderedID == id {
			x.docOrder = append(x.docOrder[:i], x.docOrder[i+1:]...)
			break
		}
	}

	logger.Info("[DocIndex] Deleted document", "document_id", id)
	return true
}

// Clear removes every document from the index.
func (x *Index) Clear() {
	x.mu.Lock()
	x.documents = make(map[string]*common.Document)
	x.keywordIndex = make(map[string]map[string]struct{})
	x.docOrder = nil
	x.mu.Unlock()
}

func (x *Index) retractKeywordsLocked(doc *common.Document) {
	for _, keyword := range doc.Keywords {
		if bucket, ok := x.keywordIndex[keyword]; ok {
			delete(bucket, doc.ID)
			if len(bucket) == 0 {
				delete(x.keywordIndex, keyword)
			}
		}
	}
}

type snapshot struct {
	Documents []common.Document `json:"documents"`
	Metadata  snapshotMetadata  `json:"metadata"`
}

type snapshotMetadata struct {
	LastUpdated   time.Time `json:"last_updated"`
	DocumentCount int       `json:"document_count"`
}

// Flush writes the complete index state through the snapshot store.
func (x *Index) Flush(ctx context.Context) error {
	if x.snapshots == nil {
		return nil
	}

	x.mu.RLock()
	snap := snapshot{
		Documents: make([]common.Document, 0, len(x.docOrder)),
		Metadata: snapshotMetadata{
			LastUpdated:   time.Now().UTC(),
			DocumentCount: len(x.documents),
		},
	}
	for _, id := range x.docOrder {
		snap.Documents = append(snap.Documents, *x.documents[id])
	}
	x.mu.RUnlock()

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode document snapshot: %w", err)
	}
	if err := x.snapshots.Save(ctx, store.KeyDocuments, data); err != nil {
		return fmt.Errorf("failed to save document snapshot: %w", err)
	}
	return nil
}

// Load replaces the in-memory state with the persisted snapshot and
// rebuilds the keyword index. A missing snapshot leaves the index empty.
func (x *Index) Load(ctx context.Context) error {
	if x.snapshots == nil {
		return nil
	}

	data, err := x.snapshots.Load(ctx, store.KeyDocuments)
	if errors.Is(err, store.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load document snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to decode document snapshot: %w", err)
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	x.documents = make(map[string]*common.Document, len(snap.Documents))
	x.keywordIndex = make(map[string]map[string]struct{})
	x.docOrder = x.docOrder[:0]

	for i := range snap.Documents {
		doc := snap.Documents[i]
		x.documents[doc.ID] = &doc
		x.docOrder = append(x.docOrder, doc.ID)
		for _, keyword := range doc.Keywords {
			if x.keywordIndex[keyword] == nil {
				x.keywordIndex[keyword] = make(map[string]struct{})
			}
			x.keywordIndex[keyword][doc.ID] = struct{}{}
		}
	}

	logger.Info("[DocIndex] Loaded snapshot", "documents", len(x.documents))
	return nil
}

package reason

import (
	"fmt"
	"sort"

	"github.com/corvid-labs/magpie/pkg/common"
	"github.com/corvid-labs/magpie/pkg/docindex"
	"github.com/corvid-labs/magpie/pkg/graph"
)

// KeyEntity is one entity of a document ranked by how connected it is in
// the graph.
type KeyEntity struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Connections int    `json:"connections"`
	Mentions    int    `json:"cross_doc_mentions"`
}

// DocumentInsightsResult combines graph-side and index-side views of one
// document.
type DocumentInsightsResult struct {
	DocumentID  string                     `json:"document_id"`
	Filename    string                     `json:"filename"`
	WordCount   int                        `json:"word_count"`
	KeyEntities []KeyEntity                `json:"key_entities"`
	Connected   []graph.ConnectedDocument  `json:"connected_documents"`
	Similar     []docindex.SimilarDocument `json:"similar_documents"`
	Keywords    []string                   `json:"keywords"`
}

// DocumentInsights reports the key entities of a document (ranked by
// relationship degree), the documents connected to it through shared
// entities, and the documents similar to it by keywords. Returns
// ErrNotFound for an unknown document id.
func (e *Engine) DocumentInsights(docID string) (DocumentInsightsResult, error) {
	doc, ok := e.docs.Document(docID)
	if !ok {
		return DocumentInsightsResult{}, fmt.Errorf("document %q: %w", docID, ErrNotFound)
	}

	var keyEntities []KeyEntity
	for _, entity := range e.graph.EntitiesInDocument(docID) {
		keyEntities = append(keyEntities, KeyEntity{
			Name:        entity.CanonicalName,
			Type:        entity.EntityType,
			Connections: len(e.graph.RelationshipsOf(entity.ID)),
			Mentions:    len(entity.Mentions),
		})
	}
	sort.SliceStable(keyEntities, func(i, j int) bool {
		return keyEntities[i].Connections > keyEntities[j].Connections
	})
	if len(keyEntities) > 10 {
		keyEntities = keyEntities[:10]
	}

	connected := e.graph.ConnectedDocuments(docID)
	if len(connected) > 5 {
		connected = connected[:5]
	}

	keywords := doc.Keywords
	if len(keywords) > 10 {
		keywords = keywords[:10]
	}

	return DocumentInsightsResult{
		DocumentID:  doc.ID,
		Filename:    doc.Filename,
		WordCount:   doc.WordCount,
		KeyEntities: keyEntities,
		Connected:   connected,
		Similar:     e.docs.SimilarDocuments(docID, 5),
		Keywords:    keywords,
	}, nil
}

// TopEntity is one of the most connected entities of the corpus.
type TopEntity struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Connections int    `json:"connections"`
	Mentions    int    `json:"mentions"`
}

// CorpusOverview is a corpus-wide roll-up of both stores.
type CorpusOverview struct {
	Documents   common.CorpusStats    `json:"documents"`
	Graph       common.GraphStats     `json:"knowledge_graph"`
	TopEntities []TopEntity           `json:"top_entities"`
	TopKeywords []common.KeywordCount `json:"top_keywords"`
}

// Overview summarizes the whole corpus: document statistics, graph
// statistics, the ten most connected entities, and the top keywords.
func (e *Engine) Overview() CorpusOverview {
	docStats := e.docs.CorpusStats()

	var top []TopEntity
	for _, entity := range e.graph.AllEntities() {
		top = append(top, TopEntity{
			Name:        entity.CanonicalName,
			Type:        entity.EntityType,
			Connections: len(e.graph.RelationshipsOf(entity.ID)),
			Mentions:    len(entity.Mentions),
		})
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Connections > top[j].Connections
	})
	if len(top) > 10 {
		top = top[:10]
	}

	keywords := docStats.TopKeywords
	if len(keywords) > 10 {
		keywords = keywords[:10]
	}

	return CorpusOverview{
		Documents:   docStats,
		Graph:       e.graph.Stats(),
		TopEntities: top,
		TopKeywords: keywords,
	}
}

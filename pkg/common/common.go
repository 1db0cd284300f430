package common

import "time"

// Entity represents one deduplicated real-world referent in the knowledge
// graph. Two raw mentions that canonicalize to the same (name, type) pair
// always resolve to the same entity, so the ID is stable across re-ingestion.
//
// Mentions are append-only: every occurrence across the corpus adds one
// record with its document, surrounding context, and extraction confidence.
type Entity struct {
	ID            string    `json:"id"`
	Text          string    `json:"text"`
	CanonicalName string    `json:"canonical_name"`
	EntityType    string    `json:"entity_type"`
	Mentions      []Mention `json:"mentions"`
}

// Mention records a single occurrence of an entity in a document.
type Mention struct {
	DocumentID string    `json:"document_id"`
	Context    string    `json:"context"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

// Relationship represents a typed, evidenced edge between two entities.
// Edges are stored directionally but queried as undirected: callers that
// need "all edges of X" match X against both endpoints.
//
// Confidence is the arithmetic mean over all evidence confidences and is
// recomputed on every evidence addition, so it is not monotonic.
type Relationship struct {
	ID           string     `json:"id"`
	SourceID     string     `json:"source_entity_id"`
	TargetID     string     `json:"target_entity_id"`
	RelationType string     `json:"relation_type"`
	Evidence     []Evidence `json:"evidence"`
	Confidence   float64    `json:"confidence"`
}

// Evidence records one supporting occurrence of a relationship.
type Evidence struct {
	DocumentID string  `json:"document_id"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// EntityRecord is the extractor-facing input shape: one raw entity mention
// as produced by an upstream NER collaborator, before canonicalization.
type EntityRecord struct {
	Text       string  `json:"text"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// Document is a stored document with its derived retrieval metadata.
// Keywords and chunks are computed once at creation; EntityIDs are
// back-references into the knowledge graph, never embedded objects.
type Document struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Content    string    `json:"content"`
	Summary    string    `json:"summary"`
	UploadDate time.Time `json:"upload_date"`
	FileType   string    `json:"file_type"`
	WordCount  int       `json:"word_count"`
	EntityIDs  []string  `json:"entity_ids"`
	Keywords   []string  `json:"keywords"`
	Chunks     []Chunk   `json:"chunks"`
}

// Chunk is a fixed-size overlapping word window of a document, kept with
// its word offsets for retrieval granularity.
type Chunk struct {
	Index     int    `json:"index"`
	Text      string `json:"text"`
	StartWord int    `json:"start_word"`
	EndWord   int    `json:"end_word"`
}

// GraphNode is a flat, visualization-ready view of an entity. Size is the
// mention count, not a traversal-derived degree.
type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
	Size  int    `json:"size"`
}

// GraphEdge is a flat, visualization-ready view of a relationship.
type GraphEdge struct {
	ID     string  `json:"id"`
	Source string  `json:"source"`
	Target string  `json:"target"`
	Type   string  `json:"type"`
	Weight float64 `json:"weight"`
}

// GraphExport is a read-only snapshot of the whole graph for external
// visualization tooling. It carries no traversal semantics.
type GraphExport struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// GraphStats summarizes the knowledge graph by type and coverage.
type GraphStats struct {
	TotalEntities        int            `json:"total_entities"`
	TotalRelationships   int            `json:"total_relationships"`
	TotalDocuments       int            `json:"total_documents"`
	EntityTypes          map[string]int `json:"entity_types"`
	RelationshipTypes    map[string]int `json:"relationship_types"`
	AvgMentionsPerEntity float64        `json:"avg_mentions_per_entity"`
}

// KeywordCount is one corpus-wide keyword frequency entry.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// CorpusStats summarizes the document corpus.
type CorpusStats struct {
	DocumentCount  int            `json:"document_count"`
	TotalWords     int            `json:"total_words"`
	TotalEntities  int            `json:"total_entities"`
	AvgWordsPerDoc float64        `json:"avg_words_per_doc"`
	TopKeywords    []KeywordCount `json:"top_keywords"`
	FileTypes      map[string]int `json:"file_types"`
}

// Package reason implements the cross-document reasoning engine: a
// stateless query layer over the knowledge graph and the document index.
// Each query is independent; the engine holds no session state.
//
// Unknown entity or document names never fail hard; they produce a
// structured not-found result, with name suggestions where applicable.
// The one exception is DocumentInsights on a nonexistent document id,
// which returns ErrNotFound.
package reason

import (
	"errors"

	"github.com/corvid-labs/magpie/pkg/common"
	"github.com/corvid-labs/magpie/pkg/docindex"
	"github.com/corvid-labs/magpie/pkg/graph"
)

// ErrNotFound is returned when a query references a document id that does
// not exist.
var ErrNotFound = errors.New("not found")

// Engine answers entity-centric, connection, aggregation, and
// contradiction queries by reading the two stores. It never mutates them.
type Engine struct {
	graph *graph.Graph
	docs  *docindex.Index
}

// New creates a reasoning engine over the given stores.
func New(g *graph.Graph, docs *docindex.Index) *Engine {
	return &Engine{graph: g, docs: docs}
}

// resolveEntity looks a name up by exact raw text first, then falls back
// to partial-name search. First match wins on ambiguity.
func (e *Engine) resolveEntity(name string) (common.Entity, bool) {
	if matches := e.graph.FindByExactText(name); len(matches) > 0 {
		return matches[0], true
	}
	if matches := e.graph.SearchByPartialName(name, 1); len(matches) > 0 {
		return matches[0], true
	}
	return common.Entity{}, false
}

// suggestNames returns up to limit canonical names of entities whose name
// contains the query, for not-found results.
func (e *Engine) suggestNames(query string, limit int) []string {
	matches := e.graph.SearchByPartialName(query, limit)
	names := make([]string, 0, len(matches))
	for _, entity := range matches {
		names = append(names, entity.CanonicalName)
	}
	return names
}

package graph

import (
	"sort"
	"strings"
	"unicode"

	"github.com/corvid-labs/magpie/pkg/common"
	"github.com/corvid-labs/magpie/pkg/logger"
)

// contextWindow is the number of characters kept on each side of an
// entity's first occurrence when extracting its mention context.
const contextWindow = 100

// IngestDocumentEntities upserts every extracted entity record of one
// document, locating a context window around each raw text's first
// occurrence in fullText, then derives CO_OCCURS edges across all distinct
// entities of the document. The whole call is atomic with respect to other
// graph operations.
func (g *Graph) IngestDocumentEntities(docID string, records []common.EntityRecord, fullText string) []common.Entity {
	g.mu.Lock()
	defer g.mu.Unlock()

	entities := make([]common.Entity, 0, len(records))
	ids := make([]string, 0, len(records))
	for _, record := range records {
		entityType := record.Type
		if entityType == "" {
			entityType = "MISC"
		}
		context := extractContext(fullText, record.Text)
		entity := g.upsertEntityLocked(record.Text, entityType, docID, context, record.Confidence)
		entities = append(entities, entity)
		ids = append(ids, entity.ID)
	}

	g.deriveCoOccurrence(docID, ids)

	logger.Debug("[Graph] Ingested document entities",
		"document_id", docID,
		"records", len(records),
	)
	return entities
}

// extractContext returns up to contextWindow characters on each side of
// the first case-insensitive occurrence of entityText in fullText, or the
// empty string when the text does not occur verbatim. The match and the
// window both work in rune offsets, so case folding that changes a rune's
// byte length cannot shift the window.
func extractContext(fullText, entityText string) string {
	if entityText == "" {
		return ""
	}

	text := []rune(fullText)
	needle := []rune(entityText)

	pos := indexFold(text, needle)
	if pos == -1 {
		return ""
	}

	start := max(0, pos-contextWindow)
	end := min(len(text), pos+len(needle)+contextWindow)

	return strings.TrimSpace(string(text[start:end]))
}

// indexFold returns the rune offset of the first case-insensitive match of
// needle in text, or -1 when there is none. Folding is per rune.
func indexFold(text, needle []rune) int {
	if len(needle) == 0 || len(needle) > len(text) {
		return -1
	}
	for i := 0; i+len(needle) <= len(text); i++ {
		match := true
		for j, r := range needle {
			if unicode.ToLower(text[i+j]) != unicode.ToLower(r) {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// ConnectedDocument is one corpus document linked to the queried document
// through shared entities.
type ConnectedDocument struct {
	DocumentID  string   `json:"document_id"`
	SharedCount int      `json:"shared_entities"`
	EntityNames []string `json:"entity_names"`
}

// ConnectedDocuments finds every other document sharing at least one
// entity with docID, ranked by shared-entity count descending. Ties are
// broken by document id for a stable order.
func (g *Graph) ConnectedDocuments(docID string) []ConnectedDocument {
	g.mu.RLock()
	defer g.mu.RUnlock()

	shared := make(map[string][]string)
	for _, entity := range g.entitiesInDocumentLocked(docID) {
		seen := make(map[string]struct{})
		for _, mention := range entity.Mentions {
			otherID := mention.DocumentID
			if otherID == docID {
				continue
			}
			if _, ok := seen[otherID]; ok {
				continue
			}
			seen[otherID] = struct{}{}
			shared[otherID] = append(shared[otherID], entity.CanonicalName)
		}
	}

	results := make([]ConnectedDocument, 0, len(shared))
	for otherID, names := range shared {
		results = append(results, ConnectedDocument{
			DocumentID:  otherID,
			SharedCount: len(names),
			EntityNames: names,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].SharedCount != results[j].SharedCount {
			return results[i].SharedCount > results[j].SharedCount
		}
		return results[i].DocumentID < results[j].DocumentID
	})
	return results
}

// DocumentCount returns the number of documents the graph has seen
// entities from.
func (g *Graph) DocumentCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.docEntities)
}

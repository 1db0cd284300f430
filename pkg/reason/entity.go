package reason

import (
	"fmt"
	"sort"
	"strings"

	"github.com/corvid-labs/magpie/pkg/common"
)

// RelatedEntity is one entity connected to the queried entity, classified
// by relation type.
type RelatedEntity struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Relationship string  `json:"relationship"`
	Confidence   float64 `json:"confidence"`
}

// DocumentContext is one mention of the queried entity with its document
// and surrounding text.
type DocumentContext struct {
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	Context    string  `json:"context"`
	Relevance  float64 `json:"relevance"`
}

// EntityResult answers "what do we know about X". When the name resolves,
// it carries the entity's documents, related entities, and a templated
// natural-language summary; otherwise it carries name suggestions.
type EntityResult struct {
	Found        bool              `json:"found"`
	Name         string            `json:"name,omitempty"`
	Type         string            `json:"type,omitempty"`
	MentionCount int               `json:"mention_count,omitempty"`
	Documents    []DocumentContext `json:"documents,omitempty"`
	Related      []RelatedEntity   `json:"related_entities,omitempty"`
	Summary      string            `json:"summary,omitempty"`
	Suggestions  []string          `json:"suggestions,omitempty"`
}

// QueryEntity aggregates everything known about the named entity across
// the corpus. An unresolvable name returns Found=false with up to five
// partial-name suggestions.
func (e *Engine) QueryEntity(name string) EntityResult {
	entity, ok := e.resolveEntity(name)
	if !ok {
		return EntityResult{
			Found:       false,
			Summary:     fmt.Sprintf("Entity '%s' not found in any document", name),
			Suggestions: e.suggestNames(name, 5),
		}
	}

	var related []RelatedEntity
	for _, rel := range e.graph.RelationshipsOf(entity.ID) {
		otherID := rel.TargetID
		if otherID == entity.ID {
			otherID = rel.SourceID
		}
		other, ok := e.graph.Entity(otherID)
		if !ok {
			continue
		}
		related = append(related, RelatedEntity{
			Name:         other.CanonicalName,
			Type:         other.EntityType,
			Relationship: rel.RelationType,
			Confidence:   rel.Confidence,
		})
	}

	documents := make([]DocumentContext, 0, len(entity.Mentions))
	for _, mention := range entity.Mentions {
		ctx := DocumentContext{
			DocumentID: mention.DocumentID,
			Context:    mention.Context,
			Relevance:  mention.Confidence,
		}
		if doc, ok := e.docs.Document(mention.DocumentID); ok {
			ctx.Filename = doc.Filename
		}
		documents = append(documents, ctx)
	}

	return EntityResult{
		Found:        true,
		Name:         entity.CanonicalName,
		Type:         entity.EntityType,
		MentionCount: len(entity.Mentions),
		Documents:    documents,
		Related:      related,
		Summary:      entitySummary(entity, documents, related),
	}
}

// entitySummary renders the templated natural-language summary: one lead
// sentence plus one sentence per relation-type group.
func entitySummary(entity common.Entity, documents []DocumentContext, related []RelatedEntity) string {
	parts := []string{fmt.Sprintf(
		"%s is a %s mentioned in %d document(s).",
		entity.CanonicalName, entity.EntityType, len(documents),
	)}

	var groupOrder []string
	groups := make(map[string][]string)
	for _, r := range related {
		if _, ok := groups[r.Relationship]; !ok {
			groupOrder = append(groupOrder, r.Relationship)
		}
		groups[r.Relationship] = append(groups[r.Relationship], r.Name)
	}

	for _, relType := range groupOrder {
		names := groups[relType]
		if relType == "CO_OCCURS" {
			parts = append(parts, fmt.Sprintf(
				"It appears together with: %s.",
				strings.Join(capNames(names, 5), ", "),
			))
		} else {
			verb := strings.ReplaceAll(strings.ToLower(relType), "_", " ")
			parts = append(parts, fmt.Sprintf(
				"It %s %s.", verb, strings.Join(capNames(names, 3), ", "),
			))
		}
	}

	return strings.Join(parts, " ")
}

func capNames(names []string, n int) []string {
	if len(names) > n {
		return names[:n]
	}
	return names
}

// TypeAggregate is one entity in a by-type aggregation, with its mention
// count and distinct documents.
type TypeAggregate struct {
	Name         string   `json:"name"`
	MentionCount int      `json:"mention_count"`
	Documents    []string `json:"documents"`
}

// AggregateResult answers "list all <type>".
type AggregateResult struct {
	EntityType string          `json:"entity_type"`
	Count      int             `json:"count"`
	Entities   []TypeAggregate `json:"entities"`
}

// AggregateByType lists all entities of the given type, matched
// case-insensitively, ranked by mention count and capped at the top 50.
// Count reports the full number of matches before capping.
func (e *Engine) AggregateByType(entityType string) AggregateResult {
	var matches []common.Entity
	for _, entity := range e.graph.AllEntities() {
		if strings.EqualFold(entity.EntityType, entityType) {
			matches = append(matches, entity)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return len(matches[i].Mentions) > len(matches[j].Mentions)
	})

	result := AggregateResult{EntityType: entityType, Count: len(matches)}
	if len(matches) > 50 {
		matches = matches[:50]
	}
	for _, entity := range matches {
		var docs []string
		seen := make(map[string]struct{})
		for _, mention := range entity.Mentions {
			if _, ok := seen[mention.DocumentID]; ok {
				continue
			}
			seen[mention.DocumentID] = struct{}{}
			docs = append(docs, mention.DocumentID)
		}
		result.Entities = append(result.Entities, TypeAggregate{
			Name:         entity.CanonicalName,
			MentionCount: len(entity.Mentions),
			Documents:    docs,
		})
	}
	return result
}

// Contradiction flags one entity mentioned in several documents, with one
// context per document for manual review.
type Contradiction struct {
	Entity    string            `json:"entity"`
	Type      string            `json:"type"`
	Documents []string          `json:"documents"`
	Contexts  map[string]string `json:"contexts"`
	Note      string            `json:"potential_issue"`
}

// ContradictionReport lists flagged entities, capped at 20, with the total
// number flagged before capping.
type ContradictionReport struct {
	Flagged      []Contradiction `json:"potential_contradictions"`
	TotalFlagged int             `json:"total_flagged"`
}

// FindContradictions surfaces every entity mentioned in two or more
// distinct documents as a candidate for manual review. This is a coverage
// triage report: it flags cross-document co-mention, not semantic
// attribute conflicts.
func (e *Engine) FindContradictions() ContradictionReport {
	var flagged []Contradiction

	for _, entity := range e.graph.AllEntities() {
		if len(entity.Mentions) < 2 {
			continue
		}

		var docs []string
		contexts := make(map[string]string)
		for _, mention := range entity.Mentions {
			if _, ok := contexts[mention.DocumentID]; ok {
				continue
			}
			contexts[mention.DocumentID] = mention.Context
			docs = append(docs, mention.DocumentID)
		}
		if len(docs) < 2 {
			continue
		}

		flagged = append(flagged, Contradiction{
			Entity:    entity.CanonicalName,
			Type:      entity.EntityType,
			Documents: docs,
			Contexts:  contexts,
			Note:      "Entity appears in multiple documents - manual review recommended",
		})
	}

	report := ContradictionReport{TotalFlagged: len(flagged)}
	if len(flagged) > 20 {
		flagged = flagged[:20]
	}
	report.Flagged = flagged
	return report
}

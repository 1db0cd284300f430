package graph

import (
	"sort"
	"strings"
	"time"

	"github.com/corvid-labs/magpie/pkg/common"
)

// UpsertEntity canonicalizes rawText and either appends a mention to the
// existing entity with the derived id or creates a new one. The raw text
// is indexed lowercase so alternate surface forms stay searchable by exact
// text even after they merge into one canonical entity.
func (g *Graph) UpsertEntity(rawText, entityType, docID, context string, confidence float64) common.Entity {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.upsertEntityLocked(rawText, entityType, docID, context, confidence)
}

func (g *Graph) upsertEntityLocked(rawText, entityType, docID, context string, confidence float64) common.Entity {
	canonical := Canonicalize(rawText, entityType)
	id := EntityID(canonical, entityType)

	mention := common.Mention{
		DocumentID: docID,
		Context:    context,
		Confidence: confidence,
		Timestamp:  time.Now().UTC(),
	}

	entity, ok := g.entities[id]
	if !ok {
		entity = &common.Entity{
			ID:            id,
			Text:          rawText,
			CanonicalName: canonical,
			EntityType:    entityType,
		}
		g.entities[id] = entity
		g.entityOrder = append(g.entityOrder, id)
	}
	entity.Mentions = append(entity.Mentions, mention)

	g.indexEntityText(rawText, id)
	g.indexDocEntity(docID, id)

	return *entity
}

// Entity returns the entity with the given id.
func (g *Graph) Entity(id string) (common.Entity, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	entity, ok := g.entities[id]
	if !ok {
		return common.Entity{}, false
	}
	return *entity, true
}

// FindByExactText returns all entities indexed under the given raw text,
// matched case-insensitively, in first-seen order.
func (g *Graph) FindByExactText(text string) []common.Entity {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ids := g.textIndex[lowercase(text)]
	if len(ids) == 0 {
		return nil
	}

	results := make([]common.Entity, 0, len(ids))
	for _, id := range g.entityOrder {
		if _, ok := ids[id]; ok {
			results = append(results, *g.entities[id])
		}
	}
	return results
}

// SearchByPartialName returns entities whose raw or canonical name
// contains the query as a substring, ranked by mention count descending.
// Ties keep first-seen order.
func (g *Graph) SearchByPartialName(query string, limit int) []common.Entity {
	queryLower := lowercase(query)

	g.mu.RLock()
	defer g.mu.RUnlock()

	var results []common.Entity
	for _, id := range g.entityOrder {
		entity := g.entities[id]
		if strings.Contains(lowercase(entity.Text), queryLower) ||
			strings.Contains(lowercase(entity.CanonicalName), queryLower) {
			results = append(results, *entity)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return len(results[i].Mentions) > len(results[j].Mentions)
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// EntitiesInDocument returns all entities mentioned in the given document,
// in first-seen order.
func (g *Graph) EntitiesInDocument(docID string) []common.Entity {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.entitiesInDocumentLocked(docID)
}

func (g *Graph) entitiesInDocumentLocked(docID string) []common.Entity {
	ids := g.docEntities[docID]
	if len(ids) == 0 {
		return nil
	}

	results := make([]common.Entity, 0, len(ids))
	for _, id := range g.entityOrder {
		if _, ok := ids[id]; ok {
			results = append(results, *g.entities[id])
		}
	}
	return results
}

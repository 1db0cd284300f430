package graph

import (
	"fmt"

	"github.com/corvid-labs/magpie/pkg/common"
)

// RelationCoOccurs is the relation type derived automatically for entities
// extracted from the same document.
const RelationCoOccurs = "CO_OCCURS"

// coOccurrenceConfidence is the fixed confidence of derived co-occurrence
// evidence. Co-mention is weak evidence of a real-world relationship.
const coOccurrenceConfidence = 0.5

// UpsertRelationship creates or updates the edge keyed by (sourceID,
// relationType, targetID), appending the given evidence and recomputing
// confidence as the mean over all evidence. Returns ErrUnknownEntity if
// either endpoint does not exist.
func (g *Graph) UpsertRelationship(sourceID, targetID, relationType, docID, evidenceText string, confidence float64) (common.Relationship, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.upsertRelationshipLocked(sourceID, targetID, relationType, docID, evidenceText, confidence)
}

func (g *Graph) upsertRelationshipLocked(sourceID, targetID, relationType, docID, evidenceText string, confidence float64) (common.Relationship, error) {
	if _, ok := g.entities[sourceID]; !ok {
		return common.Relationship{}, fmt.Errorf("source %q: %w", sourceID, ErrUnknownEntity)
	}
	if _, ok := g.entities[targetID]; !ok {
		return common.Relationship{}, fmt.Errorf("target %q: %w", targetID, ErrUnknownEntity)
	}

	id := RelationshipID(sourceID, relationType, targetID)
	rel, ok := g.relationships[id]
	if !ok {
		rel = &common.Relationship{
			ID:           id,
			SourceID:     sourceID,
			TargetID:     targetID,
			RelationType: relationType,
		}
		g.relationships[id] = rel
		g.relationOrder = append(g.relationOrder, id)
	}

	rel.Evidence = append(rel.Evidence, common.Evidence{
		DocumentID: docID,
		Text:       evidenceText,
		Confidence: confidence,
	})

	total := 0.0
	for _, ev := range rel.Evidence {
		total += ev.Confidence
	}
	rel.Confidence = total / float64(len(rel.Evidence))

	return *rel, nil
}

// RelationshipsOf returns every edge where the entity appears as source or
// target, in edge creation order. The directional storage is irrelevant to
// callers: the view is undirected.
func (g *Graph) RelationshipsOf(entityID string) []common.Relationship {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.relationshipsOfLocked(entityID)
}

func (g *Graph) relationshipsOfLocked(entityID string) []common.Relationship {
	var results []common.Relationship
	for _, id := range g.relationOrder {
		rel := g.relationships[id]
		if rel.SourceID == entityID || rel.TargetID == entityID {
			results = append(results, *rel)
		}
	}
	return results
}

// RelationshipsBetween returns every edge connecting the two entities,
// in either direction.
func (g *Graph) RelationshipsBetween(entityID1, entityID2 string) []common.Relationship {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var results []common.Relationship
	for _, id := range g.relationOrder {
		rel := g.relationships[id]
		if (rel.SourceID == entityID1 && rel.TargetID == entityID2) ||
			(rel.SourceID == entityID2 && rel.TargetID == entityID1) {
			results = append(results, *rel)
		}
	}
	return results
}

// Neighbors returns the set of entity ids one hop away from the given
// entity, over edges in either direction.
func (g *Graph) Neighbors(entityID string) map[string]struct{} {
	g.mu.RLock()
	defer g.mu.RUnlock()

	neighbors := make(map[string]struct{})
	for _, id := range g.relationOrder {
		rel := g.relationships[id]
		switch entityID {
		case rel.SourceID:
			neighbors[rel.TargetID] = struct{}{}
		case rel.TargetID:
			neighbors[rel.SourceID] = struct{}{}
		}
	}
	return neighbors
}

// deriveCoOccurrence reinforces a CO_OCCURS edge for every unordered pair
// of distinct entities extracted from one document. O(k²) in the number of
// entities per document; k is bounded by per-document extraction volume,
// not corpus size.
func (g *Graph) deriveCoOccurrence(docID string, entityIDs []string) {
	evidence := fmt.Sprintf("Both mentioned in document %s", docID)

	seen := make(map[string]struct{}, len(entityIDs))
	distinct := make([]string, 0, len(entityIDs))
	for _, id := range entityIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}

	for i := 0; i < len(distinct); i++ {
		for j := i + 1; j < len(distinct); j++ {
			// Endpoints were upserted in this same ingestion call, so the
			// edge cannot dangle.
			_, _ = g.upsertRelationshipLocked(
				distinct[i], distinct[j], RelationCoOccurs,
				docID, evidence, coOccurrenceConfidence,
			)
		}
	}
}

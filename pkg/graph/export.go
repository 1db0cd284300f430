package graph

import "github.com/corvid-labs/magpie/pkg/common"

// Export returns a flat node/edge snapshot of the whole graph for external
// visualization. Node size is the mention count.
func (g *Graph) Export() common.GraphExport {
	g.mu.RLock()
	defer g.mu.RUnlock()

	export := common.GraphExport{
		Nodes: make([]common.GraphNode, 0, len(g.entityOrder)),
		Edges: make([]common.GraphEdge, 0, len(g.relationOrder)),
	}

	for _, id := range g.entityOrder {
		entity := g.entities[id]
		export.Nodes = append(export.Nodes, common.GraphNode{
			ID:    entity.ID,
			Label: entity.CanonicalName,
			Type:  entity.EntityType,
			Size:  len(entity.Mentions),
		})
	}

	for _, id := range g.relationOrder {
		rel := g.relationships[id]
		export.Edges = append(export.Edges, common.GraphEdge{
			ID:     rel.ID,
			Source: rel.SourceID,
			Target: rel.TargetID,
			Type:   rel.RelationType,
			Weight: rel.Confidence,
		})
	}

	return export
}

// Stats returns counts by entity and relationship type, document coverage,
// and the average mention count per entity.
func (g *Graph) Stats() common.GraphStats {
	g.mu.RLock()
	defer g.mu.RUnlock()

	stats := common.GraphStats{
		TotalEntities:      len(g.entities),
		TotalRelationships: len(g.relationships),
		TotalDocuments:     len(g.docEntities),
		EntityTypes:        make(map[string]int),
		RelationshipTypes:  make(map[string]int),
	}

	totalMentions := 0
	for _, entity := range g.entities {
		stats.EntityTypes[entity.EntityType]++
		totalMentions += len(entity.Mentions)
	}
	for _, rel := range g.relationships {
		stats.RelationshipTypes[rel.RelationType]++
	}

	if len(g.entities) > 0 {
		stats.AvgMentionsPerEntity = float64(totalMentions) / float64(len(g.entities))
	}

	return stats
}

// AllEntities returns every entity in first-seen order.
func (g *Graph) AllEntities() []common.Entity {
	g.mu.RLock()
	defer g.mu.RUnlock()

	results := make([]common.Entity, 0, len(g.entityOrder))
	for _, id := range g.entityOrder {
		results = append(results, *g.entities[id])
	}
	return results
}

// Package graph implements the knowledge graph store: a registry of
// deduplicated entities, a registry of evidenced relationships between
// them, and the ingestion, lookup, and export operations built on top.
//
// The graph is held in memory and persisted as a whole-collection snapshot
// through a store.Store. Durability granularity is the entire graph, which
// is a deliberate simplification for single-process, bounded-corpus
// deployments; it does not scale to per-entity write volumes.
package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/corvid-labs/magpie/pkg/common"
	"github.com/corvid-labs/magpie/pkg/logger"
	"github.com/corvid-labs/magpie/pkg/store"
)

// ErrUnknownEntity is returned when a relationship references an entity
// that does not exist. Dangling edges are rejected, never silently dropped.
var ErrUnknownEntity = errors.New("unknown entity")

// Graph is the knowledge graph store. All exported methods are safe for
// concurrent use; mutating calls serialize behind a single writer lock.
type Graph struct {
	mu sync.RWMutex

	entities      map[string]*common.Entity
	relationships map[string]*common.Relationship

	// textIndex maps lowercase raw text to entity id sets, keeping
	// alternate surface forms separately searchable.
	textIndex map[string]map[string]struct{}
	// docEntities maps document ids to the entities they mention.
	docEntities map[string]map[string]struct{}

	// Insertion orders. Go maps iterate randomly, but ranking ties are
	// broken first-seen-first, so both collections track arrival order.
	entityOrder   []string
	relationOrder []string

	snapshots store.Store
}

// New creates an empty knowledge graph that persists snapshots through the
// given store. A nil store disables persistence (useful in tests).
func New(snapshots store.Store) *Graph {
	return &Graph{
		entities:      make(map[string]*common.Entity),
		relationships: make(map[string]*common.Relationship),
		textIndex:     make(map[string]map[string]struct{}),
		docEntities:   make(map[string]map[string]struct{}),
		snapshots:     snapshots,
	}
}

type snapshot struct {
	Entities      []common.Entity       `json:"entities"`
	Relationships []common.Relationship `json:"relationships"`
	Metadata      snapshotMetadata      `json:"metadata"`
}

type snapshotMetadata struct {
	LastUpdated       time.Time `json:"last_updated"`
	EntityCount       int       `json:"entity_count"`
	RelationshipCount int       `json:"relationship_count"`
}

// Flush writes the complete graph state through the snapshot store.
// Callers decide the batching policy: the API server flushes after every
// mutating call, the batch importer flushes once per run.
func (g *Graph) Flush(ctx context.Context) error {
	if g.snapshots == nil {
		return nil
	}

	g.mu.RLock()
	snap := snapshot{
		Entities:      make([]common.Entity, 0, len(g.entityOrder)),
		Relationships: make([]common.Relationship, 0, len(g.relationOrder)),
		Metadata: snapshotMetadata{
			LastUpdated:       time.Now().UTC(),
			EntityCount:       len(g.entities),
			RelationshipCount: len(g.relationships),
		},
	}
	for _, id := range g.entityOrder {
		snap.Entities = append(snap.Entities, *g.entities[id])
	}
	for _, id := range g.relationOrder {
		snap.Relationships = append(snap.Relationships, *g.relationships[id])
	}
	g.mu.RUnlock()

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode graph snapshot: %w", err)
	}
	if err := g.snapshots.Save(ctx, store.KeyGraph, data); err != nil {
		return fmt.Errorf("failed to save graph snapshot: %w", err)
	}
	return nil
}

// Load replaces the in-memory state with the persisted snapshot and
// rebuilds every index from it. A missing snapshot leaves the graph empty.
func (g *Graph) Load(ctx context.Context) error {
	if g.snapshots == nil {
		return nil
	}

	data, err := g.snapshots.Load(ctx, store.KeyGraph)
	if errors.Is(err, store.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load graph snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to decode graph snapshot: %w", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.entities = make(map[string]*common.Entity, len(snap.Entities))
	g.relationships = make(map[string]*common.Relationship, len(snap.Relationships))
	g.textIndex = make(map[string]map[string]struct{})
	g.docEntities = make(map[string]map[string]struct{})
	g.entityOrder = g.entityOrder[:0]
	g.relationOrder = g.relationOrder[:0]

	for i := range snap.Entities {
		entity := snap.Entities[i]
		g.entities[entity.ID] = &entity
		g.entityOrder = append(g.entityOrder, entity.ID)
		g.indexEntityText(entity.Text, entity.ID)
		for _, mention := range entity.Mentions {
			g.indexDocEntity(mention.DocumentID, entity.ID)
		}
	}
	for i := range snap.Relationships {
		rel := snap.Relationships[i]
		g.relationships[rel.ID] = &rel
		g.relationOrder = append(g.relationOrder, rel.ID)
	}

	logger.Info("[Graph] Loaded snapshot",
		"entities", len(g.entities),
		"relationships", len(g.relationships),
	)
	return nil
}

// Clear removes every entity and relationship from the graph.
func (g *Graph) Clear() {
	g.mu.Lock()
	g.entities = make(map[string]*common.Entity)
	g.relationships = make(map[string]*common.Relationship)
	g.textIndex = make(map[string]map[string]struct{})
	g.docEntities = make(map[string]map[string]struct{})
	g.entityOrder = nil
	g.relationOrder = nil
	g.mu.Unlock()
}

func (g *Graph) indexEntityText(rawText, entityID string) {
	key := lowercase(rawText)
	if g.textIndex[key] == nil {
		g.textIndex[key] = make(map[string]struct{})
	}
	g.textIndex[key][entityID] = struct{}{}
}

func (g *Graph) indexDocEntity(docID, entityID string) {
	if g.docEntities[docID] == nil {
		g.docEntities[docID] = make(map[string]struct{})
	}
	g.docEntities[docID][entityID] = struct{}{}
}

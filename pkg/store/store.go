package store

import (
	"context"
	"errors"
)

// ErrNotExist is returned by Load when no snapshot has been written yet
// under the requested key. A fresh deployment starts from an empty store,
// so callers treat this as "start empty", not as a failure.
var ErrNotExist = errors.New("snapshot does not exist")

// Store persists whole-collection snapshots. The unit of durability is the
// complete serialized state of one in-memory store (knowledge graph or
// document index), written under a fixed key. Implementations must make
// Save atomic enough that a concurrent Load never observes a partial write.
type Store interface {
	Save(ctx context.Context, key string, data []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
}

// Snapshot keys used by the stores that persist through a Store.
const (
	KeyGraph     = "knowledge_graph.json"
	KeyDocuments = "document_store.json"
)

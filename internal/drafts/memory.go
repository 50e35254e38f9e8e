package drafts

import (
	"bytes"
	"context"
	"sync"
)

// MemoryStore keeps snapshots in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]Snapshot
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]Snapshot)}
}

func (m *MemoryStore) Save(ctx context.Context, snap Snapshot) error {
	snap.Payload = bytes.Clone(snap.Payload)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[snap.Key] = snap
	return nil
}

func (m *MemoryStore) Load(ctx context.Context, key string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.items[key]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	snap.Payload = bytes.Clone(snap.Payload)
	return snap, nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

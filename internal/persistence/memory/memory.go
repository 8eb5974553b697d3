// Package memory implements a non-durable persistence.Backend, the
// "mem" database option in spec §6. Entries live only as long as the
// process; restart recovery finds nothing.
package memory

import (
	"sort"
	"sync"

	"github.com/msg-store/msg-store/internal/persistence"
	"github.com/msg-store/msg-store/pkg/id"
)

// Backend is an in-memory persistence.Backend guarded by a single mutex.
type Backend struct {
	mu   sync.RWMutex
	data map[id.ID][]byte
}

var _ persistence.Backend = (*Backend)(nil)

// New returns an empty Backend.
func New() *Backend {
	return &Backend{data: make(map[id.ID][]byte)}
}

func (b *Backend) Add(identifier id.ID, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	cp := append([]byte(nil), payload...)
	b.data[identifier] = cp
	return nil
}

func (b *Backend) Get(identifier id.ID) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.data[identifier]
	if !ok {
		return nil, persistence.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (b *Backend) Del(identifier id.ID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.data[identifier]; !ok {
		return persistence.ErrNotFound
	}
	delete(b.data, identifier)
	return nil
}

func (b *Backend) Fetch() ([]persistence.Record, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]persistence.Record, 0, len(b.data))
	for k, v := range b.data {
		out = append(out, persistence.Record{ID: k, Payload: append([]byte(nil), v...)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Less(out[j].ID) })
	return out, nil
}

func (b *Backend) Close() error { return nil }

package history

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps history in process; entries expire after ttl without activity.
type MemoryStore struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{cache: cache.New(ttl, 2*ttl)}
}

func (m *MemoryStore) List(_ context.Context, owner uuid.UUID, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	terms := m.get(owner)
	if len(terms) > limit {
		terms = terms[:limit]
	}
	return slices.Clone(terms), nil
}

func (m *MemoryStore) Add(_ context.Context, owner uuid.UUID, term string, limit int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cache.SetDefault(owner.String(), Push(m.get(owner), term, limit))
	return nil
}

func (m *MemoryStore) get(owner uuid.UUID) []string {
	if v, ok := m.cache.Get(owner.String()); ok {
		return v.([]string)
	}
	return nil
}

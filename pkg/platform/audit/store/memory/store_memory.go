package memory

import (
	"context"
	"sync"

	id "sentinela/pkg/domain"
	audit "sentinela/pkg/platform/audit"
)

// InMemoryStore keeps audit entries per tenant. Used in tests and as the
// default sink when no database is configured.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[id.TenantID][]audit.Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[id.TenantID][]audit.Entry)}
}

func (s *InMemoryStore) Append(_ context.Context, entry audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.TenantID] = append(s.entries[entry.TenantID], entry)
	return nil
}

func (s *InMemoryStore) ListByTenant(_ context.Context, tenantID id.TenantID) ([]audit.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Entry{}, s.entries[tenantID]...), nil
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[id.TenantID][]audit.Entry)
}

package store

import (
	"context"
	"sync"

	"sentinela/internal/tenant/models"
	id "sentinela/pkg/domain"
	"sentinela/pkg/platform/sentinel"
)

// InMemory is the map-backed tenant store used in tests and local runs.
type InMemory struct {
	mu      sync.RWMutex
	byID    map[id.TenantID]*models.Tenant
	slugIdx map[string]id.TenantID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:    make(map[id.TenantID]*models.Tenant),
		slugIdx: make(map[string]id.TenantID),
	}
}

// Create rejects duplicate slugs with sentinel.ErrConflict.
func (s *InMemory) Create(_ context.Context, tenant *models.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.slugIdx[tenant.Slug]; taken {
		return sentinel.ErrConflict
	}
	copied := *tenant
	s.byID[tenant.ID] = &copied
	s.slugIdx[tenant.Slug] = tenant.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tenant, ok := s.byID[tenantID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *tenant
	return &copied, nil
}

func (s *InMemory) FindBySlug(_ context.Context, slug string) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tenantID, ok := s.slugIdx[models.NormalizeSlug(slug)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *s.byID[tenantID]
	return &copied, nil
}

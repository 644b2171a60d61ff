// Package manager provides tenant-scoped persistence for sector managers.
package manager

import (
	"context"
	"sort"
	"sync"

	"sentinela/internal/incident/models"
	id "sentinela/pkg/domain"
	"sentinela/pkg/platform/sentinel"
)

// InMemory is a thread-safe in-memory manager store for tests and local
// development. Clones are handed out so callers never share state.
type InMemory struct {
	mu       sync.RWMutex
	managers map[id.ManagerID]*models.SectorManager
}

func NewInMemory() *InMemory {
	return &InMemory{managers: make(map[id.ManagerID]*models.SectorManager)}
}

func (s *InMemory) Create(_ context.Context, manager *models.SectorManager) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.managers[manager.ID]; exists {
		return sentinel.ErrConflict
	}
	s.managers[manager.ID] = manager.Clone()
	return nil
}

func (s *InMemory) FindByID(_ context.Context, managerID id.ManagerID, tenantID id.TenantID) (*models.SectorManager, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	manager, ok := s.managers[managerID]
	if !ok || manager.TenantID != tenantID {
		return nil, sentinel.ErrNotFound
	}
	return manager.Clone(), nil
}

func (s *InMemory) Update(_ context.Context, manager *models.SectorManager) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.managers[manager.ID]
	if !ok || current.TenantID != manager.TenantID {
		return sentinel.ErrNotFound
	}
	s.managers[manager.ID] = manager.Clone()
	return nil
}

func (s *InMemory) Delete(_ context.Context, managerID id.ManagerID, tenantID id.TenantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.managers[managerID]
	if !ok || current.TenantID != tenantID {
		return sentinel.ErrNotFound
	}
	delete(s.managers, managerID)
	return nil
}

func (s *InMemory) FindAll(_ context.Context, tenantID id.TenantID) ([]*models.SectorManager, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(tenantID, func(*models.SectorManager) bool { return true }), nil
}

// FindBySector resolves the manager responsible for a sector. Enumeration is
// name-ascending and the first match wins, so resolution is deterministic
// when sector sets overlap.
func (s *InMemory) FindBySector(_ context.Context, tenantID id.TenantID, sector string) (*models.SectorManager, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, manager := range s.collect(tenantID, func(m *models.SectorManager) bool {
		return m.Role == models.RoleSectorManager && m.ManagesSector(sector)
	}) {
		return manager, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByRole(_ context.Context, tenantID id.TenantID, role models.Role) ([]*models.SectorManager, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(tenantID, func(m *models.SectorManager) bool { return m.Role == role }), nil
}

// collect returns name-ascending clones of every matching manager. Callers
// must hold at least the read lock.
func (s *InMemory) collect(tenantID id.TenantID, match func(*models.SectorManager) bool) []*models.SectorManager {
	var out []*models.SectorManager
	for _, manager := range s.managers {
		if manager.TenantID == tenantID && match(manager) {
			out = append(out, manager.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

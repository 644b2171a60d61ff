// Package incident provides the tenant-scoped incident stores. Every read
// and write is keyed by (id, tenantID); a lookup with the wrong tenant is
// indistinguishable from a missing record.
package incident

import (
	"context"
	"sort"
	"sync"
	"time"

	"sentinela/internal/incident/models"
	id "sentinela/pkg/domain"
	"sentinela/pkg/platform/sentinel"
)

// InMemory is the map-backed incident store used in tests and local runs.
type InMemory struct {
	mu        sync.RWMutex
	incidents map[id.IncidentID]*models.Incident
}

func NewInMemory() *InMemory {
	return &InMemory{incidents: make(map[id.IncidentID]*models.Incident)}
}

func (s *InMemory) Create(_ context.Context, incident *models.Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.incidents[incident.ID]; exists {
		return sentinel.ErrConflict
	}
	s.incidents[incident.ID] = incident.Clone()
	return nil
}

func (s *InMemory) FindByID(_ context.Context, incidentID id.IncidentID, tenantID id.TenantID) (*models.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	incident, ok := s.incidents[incidentID]
	if !ok || incident.TenantID != tenantID {
		return nil, sentinel.ErrNotFound
	}
	return incident.Clone(), nil
}

// Update persists a mutated incident guarded by a version compare-and-swap:
// the write succeeds only if the stored version still matches the version
// the caller read, and the stored version is bumped. Stale writers get
// sentinel.ErrConflict and must re-read.
func (s *InMemory) Update(_ context.Context, incident *models.Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.incidents[incident.ID]
	if !ok || current.TenantID != incident.TenantID {
		return sentinel.ErrNotFound
	}
	if current.Version != incident.Version {
		return sentinel.ErrConflict
	}
	updated := incident.Clone()
	updated.Version++
	s.incidents[incident.ID] = updated
	incident.Version = updated.Version
	return nil
}

func (s *InMemory) FindAll(_ context.Context, tenantID id.TenantID) ([]*models.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Incident
	for _, incident := range s.incidents {
		if incident.TenantID == tenantID {
			out = append(out, incident.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemory) FindOverdue(_ context.Context, tenantID id.TenantID, now time.Time) ([]*models.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Incident
	for _, incident := range s.incidents {
		if incident.TenantID == tenantID && incident.Overdue(now) {
			out = append(out, incident.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemory) FindSimilarResolved(_ context.Context, eventType string, limit int) ([]*models.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Incident
	for _, incident := range s.incidents {
		if incident.Status == models.StatusClosed && incident.AIEventType == eventType {
			out = append(out, incident.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

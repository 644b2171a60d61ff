package service

import (
	"context"

	"sentinela/internal/classifier"
	"sentinela/internal/incident/models"
	id "sentinela/pkg/domain"
	dErrors "sentinela/pkg/domain-errors"
	"sentinela/pkg/requestcontext"
	"sentinela/pkg/sanitize"
)

// Get fetches one incident in the caller's tenant.
func (s *Service) Get(ctx context.Context, incidentID id.IncidentID) (*models.Incident, error) {
	tenant, err := s.tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.loadIncident(ctx, incidentID, tenant.ID)
}

// List returns every incident in the caller's tenant.
func (s *Service) List(ctx context.Context) ([]*models.Incident, error) {
	tenant, err := s.tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	incidents, err := s.incidents.FindAll(ctx, tenant.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list incidents")
	}
	return incidents, nil
}

// FindOverdue reports incidents past their deadline and not yet closed.
// This is an on-demand scan; there is no background scheduler.
func (s *Service) FindOverdue(ctx context.Context) ([]*models.Incident, error) {
	tenant, err := s.tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	incidents, err := s.incidents.FindOverdue(ctx, tenant.ID, requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to scan overdue incidents")
	}
	return incidents, nil
}

// RootCauseAnalysis runs the deeper AI analysis for an incident under
// investigation, enriched with the analyst's notes.
func (s *Service) RootCauseAnalysis(ctx context.Context, incidentID id.IncidentID, investigationNotes string) (classifier.RootCauseAnalysis, error) {
	tenant, err := s.tenantFromContext(ctx)
	if err != nil {
		return classifier.RootCauseAnalysis{}, err
	}
	incident, err := s.loadIncident(ctx, incidentID, tenant.ID)
	if err != nil {
		return classifier.RootCauseAnalysis{}, err
	}
	return s.classifier.GenerateRootCauseAnalysis(ctx, incident.Description, incident.AIEventType, sanitize.Text(investigationNotes))
}

// Chat forwards a free-form assistant question. The gateway degrades to a
// fixed reply on provider failure, so this never errors.
func (s *Service) Chat(ctx context.Context, message, chatContext string) string {
	return s.classifier.Chat(ctx, sanitize.Text(message), sanitize.Text(chatContext))
}

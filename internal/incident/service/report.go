package service

import (
	"context"
	"errors"
	"strings"

	"sentinela/internal/incident/models"
	tenantmodels "sentinela/internal/tenant/models"
	id "sentinela/pkg/domain"
	dErrors "sentinela/pkg/domain-errors"
	"sentinela/pkg/platform/audit"
	"sentinela/pkg/platform/sentinel"
	"sentinela/pkg/requestcontext"
	"sentinela/pkg/sanitize"
)

// ReportInput is the public intake payload. TenantSlug is the only tenant
// resolution token: reports never guess a tenant.
type ReportInput struct {
	TenantSlug  string
	Description string
	EventType   string
	Sector      string
}

// Report registers a new adverse event. Non-conformity reports skip the
// classifier and are assigned RiskNA; everything else is classified before
// the incident is persisted in OPEN. Notification and audit are best-effort
// and never fail the intake.
func (s *Service) Report(ctx context.Context, in ReportInput) (*models.Incident, error) {
	ctx, span := s.tracer.Start(ctx, "incident.report")
	defer span.End()

	slug := tenantmodels.NormalizeSlug(in.TenantSlug)
	if slug == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "tenant slug is required")
	}
	tenant, err := s.tenants.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeValidation, "unknown tenant slug %q", slug)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve tenant")
	}
	if !tenant.Active {
		return nil, dErrors.New(dErrors.CodeForbidden, "tenant is inactive")
	}

	description := sanitize.Text(in.Description)
	if description == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "description is required")
	}
	eventType := strings.TrimSpace(in.EventType)
	if eventType == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "event type is required")
	}
	sector := sanitize.Text(in.Sector)

	now := requestcontext.Now(ctx)
	incident, err := models.NewIncident(id.NewIncidentID(), tenant.ID, description, eventType, sector, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid report")
	}

	if eventType == models.EventTypeNonConformity {
		// Administrative deviation, exempt from risk scoring.
		incident.RiskLevel = models.RiskNA
	} else {
		classification, err := s.classifier.Classify(ctx, description)
		if err != nil {
			// The gateway's fallback absorbs provider failure; an error here
			// is a programming bug, not a provider outage.
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "classification failed")
		}
		incident.ApplyClassification(classification.EventType, classification.RiskLevel, classification.Recommendation, now)
	}

	if err := s.incidents.Create(ctx, incident); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist incident")
	}

	s.notifier.IncidentReported(ctx, tenant, incident)
	s.metrics.RecordReported(string(incident.RiskLevel))
	s.logAudit(ctx, tenant.ID, audit.ActionIncidentReported, "incident", incident.ID.String(), map[string]string{
		"risk_level": string(incident.RiskLevel),
		"sector":     incident.NotifiedSector,
	})
	if incident.RiskLevel != models.RiskNA {
		s.logAudit(ctx, tenant.ID, audit.ActionIncidentClassified, "incident", incident.ID.String(), map[string]string{
			"ai_event_type": incident.AIEventType,
			"risk_level":    string(incident.RiskLevel),
		})
	}
	return incident, nil
}

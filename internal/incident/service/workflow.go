package service

import (
	"context"
	"time"

	"sentinela/internal/incident/models"
	"sentinela/internal/incident/service/sla"
	id "sentinela/pkg/domain"
	dErrors "sentinela/pkg/domain-errors"
	"sentinela/pkg/platform/audit"
	"sentinela/pkg/requestcontext"
	"sentinela/pkg/sanitize"
)

// StartActionPlan moves an OPEN incident to IN_PROGRESS. The deadline comes
// from the SLA formula unless the caller supplies an explicit one, which
// always wins.
func (s *Service) StartActionPlan(ctx context.Context, incidentID id.IncidentID, explicitDeadline *time.Time) (*models.Incident, error) {
	tenant, err := s.tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	incident, err := s.loadIncident(ctx, incidentID, tenant.ID)
	if err != nil {
		return nil, err
	}
	if err := incident.CanStartActionPlan(); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	deadline := sla.Deadline(incident.RiskLevel, now)
	if explicitDeadline != nil {
		deadline = *explicitDeadline
	}
	incident.ApplyActionPlanStart(now, deadline, now)

	if err := s.saveIncident(ctx, incident); err != nil {
		return nil, err
	}
	s.metrics.RecordTransition(string(models.StatusInProgress))
	s.logAudit(ctx, tenant.ID, audit.ActionActionPlanStarted, "incident", incident.ID.String(), map[string]string{
		"deadline": deadline.Format(time.RFC3339),
	})
	return incident, nil
}

// RequestExtension moves IN_PROGRESS to EXTENSION_REQUESTED. A
// justification is mandatory; the risk manager is always notified.
func (s *Service) RequestExtension(ctx context.Context, incidentID id.IncidentID, justification string) (*models.Incident, error) {
	justification = sanitize.Text(justification)
	if justification == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "extension justification is required")
	}
	tenant, err := s.tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	incident, err := s.loadIncident(ctx, incidentID, tenant.ID)
	if err != nil {
		return nil, err
	}
	if err := incident.CanRequestExtension(); err != nil {
		return nil, err
	}
	incident.ApplyExtensionRequest(requestcontext.Now(ctx))

	if err := s.saveIncident(ctx, incident); err != nil {
		return nil, err
	}
	s.notifier.ExtensionRequested(ctx, tenant, incident, justification)
	s.metrics.RecordTransition(string(models.StatusExtensionRequested))
	s.logAudit(ctx, tenant.ID, audit.ActionExtensionRequested, "incident", incident.ID.String(), map[string]string{
		"justification": justification,
	})
	return incident, nil
}

// ApproveExtension resolves a pending extension with a new deadline, which
// the approver must state explicitly.
func (s *Service) ApproveExtension(ctx context.Context, incidentID id.IncidentID, newDeadline *time.Time) (*models.Incident, error) {
	if newDeadline == nil {
		return nil, dErrors.New(dErrors.CodeValidation, "approving an extension requires the new deadline")
	}
	tenant, err := s.tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	incident, err := s.loadIncident(ctx, incidentID, tenant.ID)
	if err != nil {
		return nil, err
	}
	if err := incident.CanResolveExtension(); err != nil {
		return nil, err
	}
	incident.ApplyExtensionApproval(*newDeadline, requestcontext.Now(ctx))

	if err := s.saveIncident(ctx, incident); err != nil {
		return nil, err
	}
	s.notifier.ExtensionResolved(ctx, tenant, incident, true)
	s.metrics.RecordTransition(string(models.StatusInProgress))
	s.logAudit(ctx, tenant.ID, audit.ActionExtensionApproved, "incident", incident.ID.String(), map[string]string{
		"new_deadline": newDeadline.Format(time.RFC3339),
	})
	return incident, nil
}

// RejectExtension resolves a pending extension keeping the original
// deadline.
func (s *Service) RejectExtension(ctx context.Context, incidentID id.IncidentID) (*models.Incident, error) {
	tenant, err := s.tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	incident, err := s.loadIncident(ctx, incidentID, tenant.ID)
	if err != nil {
		return nil, err
	}
	if err := incident.CanResolveExtension(); err != nil {
		return nil, err
	}
	incident.ApplyExtensionRejection(requestcontext.Now(ctx))

	if err := s.saveIncident(ctx, incident); err != nil {
		return nil, err
	}
	s.notifier.ExtensionResolved(ctx, tenant, incident, false)
	s.metrics.RecordTransition(string(models.StatusInProgress))
	s.logAudit(ctx, tenant.ID, audit.ActionExtensionRejected, "incident", incident.ID.String(), nil)
	return incident, nil
}

// UpdateInput is a partial edit of the investigation fields. Nil means
// "leave unchanged".
type UpdateInput struct {
	RootCause  *string
	ActionPlan *string
	RiskLevel  *models.RiskLevel
}

// Update patches investigation fields. Editing the risk of a started
// incident recomputes the deadline from the original start date, so the
// edit shifts the deadline without restarting the clock. When root cause
// and action plan are both filled on an IN_PROGRESS incident, the update
// closes it; closing past the deadline is allowed.
func (s *Service) Update(ctx context.Context, incidentID id.IncidentID, in UpdateInput) (*models.Incident, error) {
	tenant, err := s.tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	incident, err := s.loadIncident(ctx, incidentID, tenant.ID)
	if err != nil {
		return nil, err
	}
	if incident.Status == models.StatusClosed {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "closed incidents cannot be edited")
	}

	now := requestcontext.Now(ctx)
	details := map[string]string{}

	if in.RootCause != nil {
		incident.RootCause = sanitize.Text(*in.RootCause)
	}
	if in.ActionPlan != nil {
		incident.ActionPlan = sanitize.Text(*in.ActionPlan)
	}
	if in.RiskLevel != nil {
		if !in.RiskLevel.Valid() {
			return nil, dErrors.Newf(dErrors.CodeValidation, "unknown risk level %q", *in.RiskLevel)
		}
		incident.RiskLevel = *in.RiskLevel
		details["risk_level"] = string(*in.RiskLevel)
		if incident.Started() {
			deadline := sla.Recompute(incident.RiskLevel, *incident.ActionPlanStartDate)
			incident.ActionPlanDeadline = &deadline
			details["recomputed_deadline"] = deadline.Format(time.RFC3339)
		}
	}
	incident.UpdatedAt = now

	closed := false
	if incident.Status == models.StatusInProgress && incident.CanClose() == nil {
		late := incident.Overdue(now)
		incident.ApplyClosure(now)
		closed = true
		if late {
			s.metrics.RecordClosedLate()
			details["closed_late"] = "true"
		}
	}

	if err := s.saveIncident(ctx, incident); err != nil {
		return nil, err
	}
	if closed {
		s.metrics.RecordTransition(string(models.StatusClosed))
		s.logAudit(ctx, tenant.ID, audit.ActionIncidentClosed, "incident", incident.ID.String(), details)
	} else {
		s.logAudit(ctx, tenant.ID, audit.ActionIncidentUpdated, "incident", incident.ID.String(), details)
	}
	return incident, nil
}

// Reanalyze re-runs the classifier over the stored description and
// overwrites the previous verdict. Status is untouched; closed incidents
// are frozen.
func (s *Service) Reanalyze(ctx context.Context, incidentID id.IncidentID) (*models.Incident, error) {
	tenant, err := s.tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	incident, err := s.loadIncident(ctx, incidentID, tenant.ID)
	if err != nil {
		return nil, err
	}
	if incident.Status == models.StatusClosed {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "closed incidents cannot be reanalyzed")
	}
	if incident.ReportedEventType == models.EventTypeNonConformity {
		return nil, dErrors.New(dErrors.CodeValidation, "non-conformity reports are not risk-classified")
	}

	classification, err := s.classifier.Classify(ctx, incident.Description)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "classification failed")
	}
	incident.ApplyClassification(classification.EventType, classification.RiskLevel, classification.Recommendation, requestcontext.Now(ctx))

	details := map[string]string{
		"ai_event_type": incident.AIEventType,
		"risk_level":    string(incident.RiskLevel),
	}
	// A changed verdict moves the SLA like any other risk edit, anchored on
	// the original start date.
	if incident.Started() {
		deadline := sla.Recompute(incident.RiskLevel, *incident.ActionPlanStartDate)
		incident.ActionPlanDeadline = &deadline
		details["recomputed_deadline"] = deadline.Format(time.RFC3339)
	}

	if err := s.saveIncident(ctx, incident); err != nil {
		return nil, err
	}
	s.logAudit(ctx, tenant.ID, audit.ActionIncidentReanalyzed, "incident", incident.ID.String(), details)
	return incident, nil
}

// Escalate dispatches the incident to every high-management contact. Unlike
// every other notification this one is loud: zero registered contacts is an
// error the caller must see.
func (s *Service) Escalate(ctx context.Context, incidentID id.IncidentID) error {
	ctx, span := s.tracer.Start(ctx, "incident.escalate")
	defer span.End()

	tenant, err := s.tenantFromContext(ctx)
	if err != nil {
		return err
	}
	incident, err := s.loadIncident(ctx, incidentID, tenant.ID)
	if err != nil {
		return err
	}
	if err := s.notifier.Escalated(ctx, tenant, incident); err != nil {
		return err
	}
	s.metrics.RecordEscalation()
	s.logAudit(ctx, tenant.ID, audit.ActionIncidentEscalated, "incident", incident.ID.String(), nil)
	return nil
}

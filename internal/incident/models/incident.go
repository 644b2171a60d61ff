package models

import (
	"time"

	id "sentinela/pkg/domain"
	dErrors "sentinela/pkg/domain-errors"
)

// Incident is the aggregate root for one reported adverse event.
//
// Invariants:
//   - TenantID is set at creation and immutable; every store access is
//     scoped by (ID, TenantID)
//   - Status transitions follow the state machine in status.go; CLOSED is
//     terminal and freezes the deadline
//   - ActionPlanStartDate and ActionPlanDeadline are both nil until the
//     action plan is started, then both set
//   - ReportedEventType holds the operator's label; AIEventType holds the
//     classifier's, kept separate because the classifier may disagree
//   - Version increments on every persisted mutation; stores reject stale
//     writes with a conflict
//
// Transition guards follow the Can/Apply split: services call CanX inside
// the store's compare-and-swap window, then ApplyX.
type Incident struct {
	ID       id.IncidentID `json:"id"`
	TenantID id.TenantID   `json:"tenant_id"`

	Description       string `json:"description"`
	ReportedEventType string `json:"reported_event_type"`
	AIEventType       string `json:"ai_event_type,omitempty"`
	NotifiedSector    string `json:"notified_sector"`

	RiskLevel  RiskLevel `json:"risk_level"`
	AIAnalysis string    `json:"ai_analysis,omitempty"`
	Status     Status    `json:"status"`

	ActionPlanStartDate *time.Time `json:"action_plan_start_date,omitempty"`
	ActionPlanDeadline  *time.Time `json:"action_plan_deadline,omitempty"`

	RootCause  string `json:"root_cause,omitempty"`
	ActionPlan string `json:"action_plan,omitempty"`

	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewIncident constructs a freshly reported incident in OPEN. Description
// must already be sanitized by the caller.
func NewIncident(incidentID id.IncidentID, tenantID id.TenantID, description, reportedEventType, notifiedSector string, now time.Time) (*Incident, error) {
	if description == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "incident description cannot be empty")
	}
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "incident requires a tenant")
	}
	if reportedEventType == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "incident requires a reported event type")
	}
	return &Incident{
		ID:                incidentID,
		TenantID:          tenantID,
		Description:       description,
		ReportedEventType: reportedEventType,
		NotifiedSector:    notifiedSector,
		Status:            StatusOpen,
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// ApplyClassification records the classifier verdict. Also used by
// reanalysis, which overwrites the previous verdict in place.
func (i *Incident) ApplyClassification(eventType string, risk RiskLevel, analysis string, now time.Time) {
	i.AIEventType = eventType
	i.RiskLevel = risk
	i.AIAnalysis = analysis
	i.UpdatedAt = now
}

// CanStartActionPlan checks the OPEN -> IN_PROGRESS guard.
func (i *Incident) CanStartActionPlan() error {
	if !i.Status.CanTransitionTo(StatusInProgress) || i.Status != StatusOpen {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "cannot start action plan from status %s", i.Status)
	}
	return nil
}

// ApplyActionPlanStart moves the incident to IN_PROGRESS with its deadline.
func (i *Incident) ApplyActionPlanStart(start, deadline, now time.Time) {
	i.Status = StatusInProgress
	i.ActionPlanStartDate = &start
	i.ActionPlanDeadline = &deadline
	i.UpdatedAt = now
}

// CanRequestExtension checks the IN_PROGRESS -> EXTENSION_REQUESTED guard.
func (i *Incident) CanRequestExtension() error {
	if !i.Status.CanTransitionTo(StatusExtensionRequested) {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "cannot request extension from status %s", i.Status)
	}
	return nil
}

// ApplyExtensionRequest moves the incident to EXTENSION_REQUESTED.
func (i *Incident) ApplyExtensionRequest(now time.Time) {
	i.Status = StatusExtensionRequested
	i.UpdatedAt = now
}

// CanResolveExtension checks that an extension decision is pending.
func (i *Incident) CanResolveExtension() error {
	if i.Status != StatusExtensionRequested {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "no extension pending on status %s", i.Status)
	}
	return nil
}

// ApplyExtensionApproval returns to IN_PROGRESS with the granted deadline.
func (i *Incident) ApplyExtensionApproval(newDeadline, now time.Time) {
	i.Status = StatusInProgress
	i.ActionPlanDeadline = &newDeadline
	i.UpdatedAt = now
}

// ApplyExtensionRejection returns to IN_PROGRESS, deadline untouched.
func (i *Incident) ApplyExtensionRejection(now time.Time) {
	i.Status = StatusInProgress
	i.UpdatedAt = now
}

// CanClose checks the IN_PROGRESS -> CLOSED guard. Closing requires both
// free-text fields populated; lateness against the deadline is allowed and
// purely informational.
func (i *Incident) CanClose() error {
	if !i.Status.CanTransitionTo(StatusClosed) {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "cannot close from status %s", i.Status)
	}
	if i.RootCause == "" || i.ActionPlan == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "closing requires root cause and action plan")
	}
	return nil
}

// ApplyClosure moves the incident to CLOSED.
func (i *Incident) ApplyClosure(now time.Time) {
	i.Status = StatusClosed
	i.UpdatedAt = now
}

// Started reports whether the action plan clock is running.
func (i *Incident) Started() bool {
	return i.ActionPlanStartDate != nil
}

// Overdue reports whether the incident is past its deadline and not closed.
func (i *Incident) Overdue(now time.Time) bool {
	return i.Status != StatusClosed && i.ActionPlanDeadline != nil && now.After(*i.ActionPlanDeadline)
}

// Clone returns a deep copy. Memory stores hand out clones so callers never
// mutate shared state.
func (i *Incident) Clone() *Incident {
	out := *i
	if i.ActionPlanStartDate != nil {
		t := *i.ActionPlanStartDate
		out.ActionPlanStartDate = &t
	}
	if i.ActionPlanDeadline != nil {
		t := *i.ActionPlanDeadline
		out.ActionPlanDeadline = &t
	}
	return &out
}

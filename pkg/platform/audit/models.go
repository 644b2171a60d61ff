// Package audit captures who did what to which resource. Entries are
// append-only and written fire-and-forget: a sink failure must never fail or
// roll back the operation being audited.
package audit

import (
	"context"
	"time"

	id "sentinela/pkg/domain"
)

// Action names an auditable operation.
type Action string

const (
	// Incident lifecycle
	ActionIncidentReported   Action = "incident_reported"
	ActionIncidentClassified Action = "incident_classified"
	ActionActionPlanStarted  Action = "action_plan_started"
	ActionExtensionRequested Action = "extension_requested"
	ActionExtensionApproved  Action = "extension_approved"
	ActionExtensionRejected  Action = "extension_rejected"
	ActionIncidentUpdated    Action = "incident_updated"
	ActionIncidentClosed     Action = "incident_closed"
	ActionIncidentReanalyzed Action = "incident_reanalyzed"
	ActionIncidentEscalated  Action = "incident_escalated"

	// Manager administration
	ActionManagerCreated Action = "manager_created"
	ActionManagerUpdated Action = "manager_updated"
	ActionManagerDeleted Action = "manager_deleted"
)

// Entry is emitted from domain logic to record a key state change. Keep it
// transport-agnostic so stores and sinks can fan out.
type Entry struct {
	Action      Action
	Resource    string
	ResourceID  string
	ActorUserID id.UserID
	TenantID    id.TenantID
	IPAddress   string
	// Details carries free-form context: request id, user-agent summary,
	// old/new status, deadline values. Values must already be safe to log.
	Details   map[string]string
	Timestamp time.Time
}

// Store persists audit entries.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	ListByTenant(ctx context.Context, tenantID id.TenantID) ([]Entry, error)
}

package handler

import (
	"strings"
	"time"

	"sentinela/internal/incident/models"
	dErrors "sentinela/pkg/domain-errors"
)

const (
	maxDescriptionLen   = 10000
	maxJustificationLen = 2000
)

// ReportRequest is the public intake body for POST /report.
type ReportRequest struct {
	TenantSlug  string `json:"tenant_slug"`
	Description string `json:"description"`
	EventType   string `json:"event_type"`
	Sector      string `json:"sector"`
}

func (r *ReportRequest) Validate() error {
	r.TenantSlug = strings.TrimSpace(r.TenantSlug)
	if r.TenantSlug == "" {
		return dErrors.New(dErrors.CodeValidation, "tenant_slug is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		return dErrors.New(dErrors.CodeValidation, "description is required")
	}
	if len(r.Description) > maxDescriptionLen {
		return dErrors.New(dErrors.CodeValidation, "description is too long")
	}
	if strings.TrimSpace(r.EventType) == "" {
		return dErrors.New(dErrors.CodeValidation, "event_type is required")
	}
	return nil
}

// StartActionPlanRequest optionally overrides the SLA-derived deadline.
type StartActionPlanRequest struct {
	Deadline *time.Time `json:"deadline,omitempty"`
}

func (r *StartActionPlanRequest) Validate() error { return nil }

// ExtensionRequest carries the mandatory justification.
type ExtensionRequest struct {
	Justification string `json:"justification"`
}

func (r *ExtensionRequest) Validate() error {
	if strings.TrimSpace(r.Justification) == "" {
		return dErrors.New(dErrors.CodeValidation, "justification is required")
	}
	if len(r.Justification) > maxJustificationLen {
		return dErrors.New(dErrors.CodeValidation, "justification is too long")
	}
	return nil
}

// ApproveExtensionRequest carries the granted deadline.
type ApproveExtensionRequest struct {
	NewDeadline *time.Time `json:"new_deadline"`
}

func (r *ApproveExtensionRequest) Validate() error {
	if r.NewDeadline == nil {
		return dErrors.New(dErrors.CodeValidation, "new_deadline is required")
	}
	return nil
}

// UpdateIncidentRequest is a partial edit; absent fields stay unchanged.
type UpdateIncidentRequest struct {
	RootCause  *string `json:"root_cause,omitempty"`
	ActionPlan *string `json:"action_plan,omitempty"`
	RiskLevel  *string `json:"risk_level,omitempty"`

	parsedRisk *models.RiskLevel
}

func (r *UpdateIncidentRequest) Validate() error {
	if r.RootCause == nil && r.ActionPlan == nil && r.RiskLevel == nil {
		return dErrors.New(dErrors.CodeValidation, "at least one field must be provided")
	}
	if r.RiskLevel != nil {
		risk := models.RiskLevel(strings.ToUpper(strings.TrimSpace(*r.RiskLevel)))
		if !risk.Valid() {
			return dErrors.Newf(dErrors.CodeValidation, "unknown risk level %q", *r.RiskLevel)
		}
		r.parsedRisk = &risk
	}
	return nil
}

// ParsedRisk returns the validated risk level, nil when absent.
func (r *UpdateIncidentRequest) ParsedRisk() *models.RiskLevel { return r.parsedRisk }

// RootCauseRequest carries the analyst's investigation notes.
type RootCauseRequest struct {
	InvestigationNotes string `json:"investigation_notes"`
}

func (r *RootCauseRequest) Validate() error { return nil }

// ChatRequest is a free-form assistant question.
type ChatRequest struct {
	Message string `json:"message"`
	Context string `json:"context,omitempty"`
}

func (r *ChatRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return dErrors.New(dErrors.CodeValidation, "message is required")
	}
	return nil
}

// ManagerRequest creates or replaces a sector manager.
type ManagerRequest struct {
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Sectors []string `json:"sectors"`
	Role    string   `json:"role"`

	parsedRole models.Role
}

func (r *ManagerRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	role := models.Role(strings.ToUpper(strings.TrimSpace(r.Role)))
	if !role.Valid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown role %q", r.Role)
	}
	r.parsedRole = role
	return nil
}

// ParsedRole returns the validated role.
func (r *ManagerRequest) ParsedRole() models.Role { return r.parsedRole }

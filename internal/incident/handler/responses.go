package handler

import (
	"time"

	"sentinela/internal/incident/models"
)

// IncidentResponse is the HTTP shape of an incident.
type IncidentResponse struct {
	ID                  string     `json:"id"`
	Description         string     `json:"description"`
	ReportedEventType   string     `json:"reported_event_type"`
	AIEventType         string     `json:"ai_event_type,omitempty"`
	NotifiedSector      string     `json:"notified_sector,omitempty"`
	RiskLevel           string     `json:"risk_level"`
	AIAnalysis          string     `json:"ai_analysis,omitempty"`
	Status              string     `json:"status"`
	ActionPlanStartDate *time.Time `json:"action_plan_start_date,omitempty"`
	ActionPlanDeadline  *time.Time `json:"action_plan_deadline,omitempty"`
	RootCause           string     `json:"root_cause,omitempty"`
	ActionPlan          string     `json:"action_plan,omitempty"`
	Version             int64      `json:"version"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// FromIncident converts a domain incident to its HTTP shape.
func FromIncident(incident *models.Incident) *IncidentResponse {
	return &IncidentResponse{
		ID:                  incident.ID.String(),
		Description:         incident.Description,
		ReportedEventType:   incident.ReportedEventType,
		AIEventType:         incident.AIEventType,
		NotifiedSector:      incident.NotifiedSector,
		RiskLevel:           string(incident.RiskLevel),
		AIAnalysis:          incident.AIAnalysis,
		Status:              string(incident.Status),
		ActionPlanStartDate: incident.ActionPlanStartDate,
		ActionPlanDeadline:  incident.ActionPlanDeadline,
		RootCause:           incident.RootCause,
		ActionPlan:          incident.ActionPlan,
		Version:             incident.Version,
		CreatedAt:           incident.CreatedAt,
		UpdatedAt:           incident.UpdatedAt,
	}
}

// FromIncidents converts a slice, never returning nil so the JSON encodes
// as an empty array.
func FromIncidents(incidents []*models.Incident) []*IncidentResponse {
	out := make([]*IncidentResponse, 0, len(incidents))
	for _, incident := range incidents {
		out = append(out, FromIncident(incident))
	}
	return out
}

// ManagerResponse is the HTTP shape of a sector manager.
type ManagerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Sectors   []string  `json:"sectors"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromManager converts a domain manager to its HTTP shape.
func FromManager(manager *models.SectorManager) *ManagerResponse {
	return &ManagerResponse{
		ID:        manager.ID.String(),
		Name:      manager.Name,
		Email:     manager.Email,
		Sectors:   manager.Sectors,
		Role:      string(manager.Role),
		CreatedAt: manager.CreatedAt,
		UpdatedAt: manager.UpdatedAt,
	}
}

// FromManagers converts a slice, never returning nil.
func FromManagers(managers []*models.SectorManager) []*ManagerResponse {
	out := make([]*ManagerResponse, 0, len(managers))
	for _, manager := range managers {
		out = append(out, FromManager(manager))
	}
	return out
}

// ChatResponse wraps the assistant reply.
type ChatResponse struct {
	Reply string `json:"reply"`
}

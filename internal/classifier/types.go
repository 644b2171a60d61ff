// Package classifier wraps the external text-classification provider behind
// bounded retries and a deterministic offline fallback. Workflow
// availability never depends on the provider's uptime: Classify and
// GenerateRootCauseAnalysis always return well-formed output.
package classifier

import "sentinela/internal/incident/models"

// Classification is the structured verdict for a reported event.
type Classification struct {
	EventType      string           `json:"eventType"`
	RiskLevel      models.RiskLevel `json:"riskLevel"`
	Recommendation string           `json:"recommendation"`
}

// RootCauseAnalysis is the structured output of the deeper analysis entry
// point.
type RootCauseAnalysis struct {
	RootCauseConclusion string `json:"rootCauseConclusion"`
	// SuggestedDeadlineDays is the analyst-facing suggestion only; the SLA
	// calculator remains the authority for the binding deadline.
	SuggestedDeadlineDays int                 `json:"suggestedDeadlineDays"`
	Ishikawa              map[string][]string `json:"ishikawa"`
	FiveWhys              []string            `json:"fiveWhys"`
	ActionPlan            []string            `json:"actionPlan"`
}

// Package sla maps a risk classification to the mandatory remediation
// deadline. Pure functions only; callers supply the clock.
package sla

import (
	"time"

	"sentinela/internal/incident/models"
)

// Remediation windows per risk level. Anything outside GRAVE/MODERADO
// (LEVE, NA, unset) gets the default window.
const (
	GraveWindow    = 24 * time.Hour
	ModeradoWindow = 3 * 24 * time.Hour
	DefaultWindow  = 5 * 24 * time.Hour
)

// Deadline computes the remediation deadline for a risk level from the
// action plan start instant.
func Deadline(risk models.RiskLevel, start time.Time) time.Time {
	switch risk {
	case models.RiskGrave:
		return start.Add(GraveWindow)
	case models.RiskModerado:
		return start.Add(ModeradoWindow)
	default:
		return start.Add(DefaultWindow)
	}
}

// Recompute derives the deadline after a risk edit on an already-started
// incident. The window is always re-anchored on the original start date:
// editing the classification shifts the deadline, never the clock.
func Recompute(risk models.RiskLevel, originalStart time.Time) time.Time {
	return Deadline(risk, originalStart)
}

package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sentinela/internal/incident/models"
)

func TestDeadline(t *testing.T) {
	start := time.Date(2026, 5, 4, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		risk models.RiskLevel
		want time.Duration
	}{
		{"grave gets one day", models.RiskGrave, 24 * time.Hour},
		{"moderado gets three days", models.RiskModerado, 72 * time.Hour},
		{"leve gets five days", models.RiskLeve, 120 * time.Hour},
		{"na gets five days", models.RiskNA, 120 * time.Hour},
		{"unset gets five days", models.RiskLevel(""), 120 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Deadline(tt.risk, start)
			assert.Equal(t, tt.want, got.Sub(start))
		})
	}
}

// Recompute anchors on the original start instant, not the edit time.
func TestRecompute_AnchorsOnOriginalStart(t *testing.T) {
	originalStart := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	got := Recompute(models.RiskGrave, originalStart)
	assert.Equal(t, originalStart.Add(24*time.Hour), got)

	// The result is independent of when the edit happens.
	assert.Equal(t, got, Recompute(models.RiskGrave, originalStart))
}

//go:build integration

package incident

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sentinela/internal/incident/models"
	id "sentinela/pkg/domain"
	"sentinela/pkg/platform/sentinel"
	"sentinela/pkg/testutil/containers"
)

const incidentsSchema = `
CREATE TABLE IF NOT EXISTS incidents (
    id                     UUID PRIMARY KEY,
    tenant_id              UUID NOT NULL,
    description            TEXT NOT NULL,
    reported_event_type    TEXT NOT NULL,
    ai_event_type          TEXT NOT NULL DEFAULT '',
    notified_sector        TEXT NOT NULL DEFAULT '',
    risk_level             TEXT NOT NULL DEFAULT '',
    ai_analysis            TEXT NOT NULL DEFAULT '',
    status                 TEXT NOT NULL,
    action_plan_start_date TIMESTAMPTZ,
    action_plan_deadline   TIMESTAMPTZ,
    root_cause             TEXT NOT NULL DEFAULT '',
    action_plan            TEXT NOT NULL DEFAULT '',
    version                BIGINT NOT NULL,
    created_at             TIMESTAMPTZ NOT NULL,
    updated_at             TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS incidents_tenant_idx ON incidents (tenant_id, created_at);
CREATE INDEX IF NOT EXISTS incidents_similar_idx ON incidents (ai_event_type, status, updated_at DESC);
`

func TestPostgresIncidentStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	pg := containers.NewPostgresContainer(t)
	pg.Exec(t, incidentsSchema)
	store := NewPostgres(pg.Pool)
	ctx := context.Background()
	tenantID := id.NewTenantID()

	newIncident := func(t *testing.T) *models.Incident {
		t.Helper()
		incident, err := models.NewIncident(id.NewIncidentID(), tenantID,
			"Dose incorreta administrada", "ERRO_MEDICACAO", "UTI", time.Now().UTC())
		require.NoError(t, err)
		return incident
	}

	t.Run("create and find round trip", func(t *testing.T) {
		incident := newIncident(t)
		incident.ApplyClassification("ERRO_MEDICACAO", models.RiskGrave, "análise", time.Now().UTC())
		require.NoError(t, store.Create(ctx, incident))

		found, err := store.FindByID(ctx, incident.ID, tenantID)
		require.NoError(t, err)
		require.Equal(t, incident.Description, found.Description)
		require.Equal(t, models.RiskGrave, found.RiskLevel)
		require.EqualValues(t, 1, found.Version)
	})

	t.Run("cross tenant lookup is not found", func(t *testing.T) {
		incident := newIncident(t)
		require.NoError(t, store.Create(ctx, incident))

		_, err := store.FindByID(ctx, incident.ID, id.NewTenantID())
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("stale version update conflicts", func(t *testing.T) {
		incident := newIncident(t)
		require.NoError(t, store.Create(ctx, incident))

		first, err := store.FindByID(ctx, incident.ID, tenantID)
		require.NoError(t, err)
		second, err := store.FindByID(ctx, incident.ID, tenantID)
		require.NoError(t, err)

		first.RootCause = "primeira escrita"
		require.NoError(t, store.Update(ctx, first))
		require.EqualValues(t, 2, first.Version)

		second.RootCause = "escrita perdida"
		require.ErrorIs(t, store.Update(ctx, second), sentinel.ErrConflict)
	})

	t.Run("update of missing incident is not found", func(t *testing.T) {
		incident := newIncident(t)
		require.ErrorIs(t, store.Update(ctx, incident), sentinel.ErrNotFound)
	})

	t.Run("find overdue filters by deadline and status", func(t *testing.T) {
		now := time.Now().UTC()

		overdue := newIncident(t)
		overdue.ApplyActionPlanStart(now.Add(-96*time.Hour), now.Add(-24*time.Hour), now)
		require.NoError(t, store.Create(ctx, overdue))

		closedLate := newIncident(t)
		closedLate.ApplyActionPlanStart(now.Add(-96*time.Hour), now.Add(-24*time.Hour), now)
		closedLate.RootCause = "causa"
		closedLate.ActionPlan = "plano"
		closedLate.ApplyClosure(now)
		require.NoError(t, store.Create(ctx, closedLate))

		got, err := store.FindOverdue(ctx, tenantID, now)
		require.NoError(t, err)
		ids := make(map[id.IncidentID]bool, len(got))
		for _, incident := range got {
			ids[incident.ID] = true
		}
		require.True(t, ids[overdue.ID])
		require.False(t, ids[closedLate.ID])
	})

	t.Run("find similar resolved orders newest first", func(t *testing.T) {
		base := time.Now().UTC()
		var newest id.IncidentID
		for i := 0; i < 3; i++ {
			incident := newIncident(t)
			incident.AIEventType = "QUEDA_SIMILAR"
			incident.RootCause = "causa"
			incident.ActionPlan = "plano"
			incident.ApplyActionPlanStart(base, base.Add(24*time.Hour), base)
			incident.ApplyClosure(base.Add(time.Duration(i) * time.Minute))
			require.NoError(t, store.Create(ctx, incident))
			newest = incident.ID
		}

		got, err := store.FindSimilarResolved(ctx, "QUEDA_SIMILAR", 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, newest, got[0].ID)
	})
}

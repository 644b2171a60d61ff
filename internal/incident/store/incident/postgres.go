package incident

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sentinela/internal/incident/models"
	id "sentinela/pkg/domain"
	"sentinela/pkg/platform/sentinel"
)

// Postgres persists incidents.
//
// Expected schema:
//
//	CREATE TABLE incidents (
//	    id                     UUID PRIMARY KEY,
//	    tenant_id              UUID NOT NULL,
//	    description            TEXT NOT NULL,
//	    reported_event_type    TEXT NOT NULL,
//	    ai_event_type          TEXT NOT NULL DEFAULT '',
//	    notified_sector        TEXT NOT NULL DEFAULT '',
//	    risk_level             TEXT NOT NULL DEFAULT '',
//	    ai_analysis            TEXT NOT NULL DEFAULT '',
//	    status                 TEXT NOT NULL,
//	    action_plan_start_date TIMESTAMPTZ,
//	    action_plan_deadline   TIMESTAMPTZ,
//	    root_cause             TEXT NOT NULL DEFAULT '',
//	    action_plan            TEXT NOT NULL DEFAULT '',
//	    version                BIGINT NOT NULL,
//	    created_at             TIMESTAMPTZ NOT NULL,
//	    updated_at             TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX incidents_tenant_idx ON incidents (tenant_id, created_at);
//	CREATE INDEX incidents_similar_idx ON incidents (ai_event_type, status, updated_at DESC);
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const incidentColumns = `id, tenant_id, description, reported_event_type, ai_event_type, notified_sector,
	risk_level, ai_analysis, status, action_plan_start_date, action_plan_deadline,
	root_cause, action_plan, version, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, incident *models.Incident) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO incidents (`+incidentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		uuid.UUID(incident.ID), uuid.UUID(incident.TenantID), incident.Description,
		incident.ReportedEventType, incident.AIEventType, incident.NotifiedSector,
		string(incident.RiskLevel), incident.AIAnalysis, string(incident.Status),
		incident.ActionPlanStartDate, incident.ActionPlanDeadline,
		incident.RootCause, incident.ActionPlan, incident.Version,
		incident.CreatedAt, incident.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert incident: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, incidentID id.IncidentID, tenantID id.TenantID) (*models.Incident, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+incidentColumns+` FROM incidents
		WHERE id = $1 AND tenant_id = $2`,
		uuid.UUID(incidentID), uuid.UUID(tenantID),
	)
	incident, err := scanIncident(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return incident, nil
}

// Update performs the version compare-and-swap in a single statement: the
// WHERE clause pins the version the caller read, so a stale writer matches
// zero rows and gets sentinel.ErrConflict.
func (s *Postgres) Update(ctx context.Context, incident *models.Incident) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE incidents SET
			ai_event_type = $4, notified_sector = $5, risk_level = $6, ai_analysis = $7,
			status = $8, action_plan_start_date = $9, action_plan_deadline = $10,
			root_cause = $11, action_plan = $12, version = version + 1, updated_at = $13
		WHERE id = $1 AND tenant_id = $2 AND version = $3`,
		uuid.UUID(incident.ID), uuid.UUID(incident.TenantID), incident.Version,
		incident.AIEventType, incident.NotifiedSector, string(incident.RiskLevel), incident.AIAnalysis,
		string(incident.Status), incident.ActionPlanStartDate, incident.ActionPlanDeadline,
		incident.RootCause, incident.ActionPlan, incident.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update incident: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the row is gone, belongs to another tenant, or the version
		// is stale. Distinguish for the caller.
		var exists bool
		if qErr := s.pool.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM incidents WHERE id = $1 AND tenant_id = $2)`,
			uuid.UUID(incident.ID), uuid.UUID(incident.TenantID),
		).Scan(&exists); qErr != nil {
			return fmt.Errorf("check incident existence: %w", qErr)
		}
		if !exists {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrConflict
	}
	incident.Version++
	return nil
}

func (s *Postgres) FindAll(ctx context.Context, tenantID id.TenantID) ([]*models.Incident, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+incidentColumns+` FROM incidents
		WHERE tenant_id = $1 ORDER BY created_at`,
		uuid.UUID(tenantID),
	)
	if err != nil {
		return nil, fmt.Errorf("query incidents: %w", err)
	}
	defer rows.Close()
	return scanIncidents(rows)
}

func (s *Postgres) FindOverdue(ctx context.Context, tenantID id.TenantID, now time.Time) ([]*models.Incident, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+incidentColumns+` FROM incidents
		WHERE tenant_id = $1 AND status != $2 AND action_plan_deadline IS NOT NULL AND action_plan_deadline < $3
		ORDER BY created_at`,
		uuid.UUID(tenantID), string(models.StatusClosed), now,
	)
	if err != nil {
		return nil, fmt.Errorf("query overdue incidents: %w", err)
	}
	defer rows.Close()
	return scanIncidents(rows)
}

func (s *Postgres) FindSimilarResolved(ctx context.Context, eventType string, limit int) ([]*models.Incident, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+incidentColumns+` FROM incidents
		WHERE ai_event_type = $1 AND status = $2
		ORDER BY updated_at DESC LIMIT $3`,
		eventType, string(models.StatusClosed), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query similar incidents: %w", err)
	}
	defer rows.Close()
	return scanIncidents(rows)
}

func scanIncidents(rows pgx.Rows) ([]*models.Incident, error) {
	var out []*models.Incident
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, incident)
	}
	return out, rows.Err()
}

func scanIncident(row pgx.Row) (*models.Incident, error) {
	var (
		incident         models.Incident
		rawID, rawTenant uuid.UUID
		risk, status     string
	)
	err := row.Scan(
		&rawID, &rawTenant, &incident.Description, &incident.ReportedEventType,
		&incident.AIEventType, &incident.NotifiedSector, &risk, &incident.AIAnalysis,
		&status, &incident.ActionPlanStartDate, &incident.ActionPlanDeadline,
		&incident.RootCause, &incident.ActionPlan, &incident.Version,
		&incident.CreatedAt, &incident.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	incident.ID = id.IncidentID(rawID)
	incident.TenantID = id.TenantID(rawTenant)
	incident.RiskLevel = models.RiskLevel(risk)
	incident.Status = models.Status(status)
	return &incident, nil
}

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"sentinela/internal/tenant/models"
	id "sentinela/pkg/domain"
	"sentinela/pkg/platform/sentinel"
)

// Postgres persists tenants.
//
// Expected schema:
//
//	CREATE TABLE tenants (
//	    id                 UUID PRIMARY KEY,
//	    name               TEXT NOT NULL,
//	    slug               TEXT NOT NULL UNIQUE,
//	    risk_manager_email TEXT NOT NULL,
//	    active             BOOLEAN NOT NULL DEFAULT TRUE,
//	    created_at         TIMESTAMPTZ NOT NULL
//	);
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) Create(ctx context.Context, tenant *models.Tenant) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tenants (id, name, slug, risk_manager_email, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(tenant.ID), tenant.Name, tenant.Slug, tenant.RiskManagerEmail, tenant.Active, tenant.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	return s.scanOne(s.pool.QueryRow(ctx, `
		SELECT id, name, slug, risk_manager_email, active, created_at
		FROM tenants WHERE id = $1`,
		uuid.UUID(tenantID),
	))
}

func (s *Postgres) FindBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	return s.scanOne(s.pool.QueryRow(ctx, `
		SELECT id, name, slug, risk_manager_email, active, created_at
		FROM tenants WHERE slug = $1`,
		models.NormalizeSlug(slug),
	))
}

func (s *Postgres) scanOne(row pgx.Row) (*models.Tenant, error) {
	var (
		tenant models.Tenant
		rawID  uuid.UUID
	)
	err := row.Scan(&rawID, &tenant.Name, &tenant.Slug, &tenant.RiskManagerEmail, &tenant.Active, &tenant.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan tenant: %w", err)
	}
	tenant.ID = id.TenantID(rawID)
	return &tenant, nil
}

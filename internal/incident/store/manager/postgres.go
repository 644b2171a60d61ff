package manager

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sentinela/internal/incident/models"
	id "sentinela/pkg/domain"
	"sentinela/pkg/platform/sentinel"
)

// Postgres persists sector managers.
//
// Expected schema:
//
//	CREATE TABLE sector_managers (
//	    id         UUID PRIMARY KEY,
//	    tenant_id  UUID NOT NULL,
//	    name       TEXT NOT NULL,
//	    email      TEXT NOT NULL,
//	    sectors    TEXT NOT NULL DEFAULT '[]',
//	    role       TEXT NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX sector_managers_tenant_idx ON sector_managers (tenant_id, name);
//
// The sectors column holds the canonical JSON array encoding. Rows written
// before the migration may hold a comma list or a bare value; ParseSectors
// tolerates those on read, and every write re-encodes canonically.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const managerColumns = `id, tenant_id, name, email, sectors, role, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, manager *models.SectorManager) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sector_managers (`+managerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.UUID(manager.ID), uuid.UUID(manager.TenantID), manager.Name, manager.Email,
		models.EncodeSectors(manager.Sectors), string(manager.Role),
		manager.CreatedAt, manager.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sector manager: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, managerID id.ManagerID, tenantID id.TenantID) (*models.SectorManager, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+managerColumns+` FROM sector_managers
		WHERE id = $1 AND tenant_id = $2`,
		uuid.UUID(managerID), uuid.UUID(tenantID),
	)
	manager, err := scanManager(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return manager, nil
}

func (s *Postgres) Update(ctx context.Context, manager *models.SectorManager) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE sector_managers SET
			name = $3, email = $4, sectors = $5, role = $6, updated_at = $7
		WHERE id = $1 AND tenant_id = $2`,
		uuid.UUID(manager.ID), uuid.UUID(manager.TenantID), manager.Name, manager.Email,
		models.EncodeSectors(manager.Sectors), string(manager.Role), manager.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sector manager: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, managerID id.ManagerID, tenantID id.TenantID) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM sector_managers WHERE id = $1 AND tenant_id = $2`,
		uuid.UUID(managerID), uuid.UUID(tenantID),
	)
	if err != nil {
		return fmt.Errorf("delete sector manager: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) FindAll(ctx context.Context, tenantID id.TenantID) ([]*models.SectorManager, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+managerColumns+` FROM sector_managers
		WHERE tenant_id = $1 ORDER BY name`,
		uuid.UUID(tenantID),
	)
	if err != nil {
		return nil, fmt.Errorf("query sector managers: %w", err)
	}
	defer rows.Close()
	return scanManagers(rows)
}

// FindBySector resolves the manager responsible for a sector: first match
// over name-ascending enumeration. The fold-insensitive sector match happens
// here rather than in SQL so memory and postgres stores agree exactly.
func (s *Postgres) FindBySector(ctx context.Context, tenantID id.TenantID, sector string) (*models.SectorManager, error) {
	candidates, err := s.FindByRole(ctx, tenantID, models.RoleSectorManager)
	if err != nil {
		return nil, err
	}
	for _, manager := range candidates {
		if manager.ManagesSector(sector) {
			return manager, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *Postgres) FindByRole(ctx context.Context, tenantID id.TenantID, role models.Role) ([]*models.SectorManager, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+managerColumns+` FROM sector_managers
		WHERE tenant_id = $1 AND role = $2 ORDER BY name`,
		uuid.UUID(tenantID), string(role),
	)
	if err != nil {
		return nil, fmt.Errorf("query sector managers by role: %w", err)
	}
	defer rows.Close()
	return scanManagers(rows)
}

func scanManagers(rows pgx.Rows) ([]*models.SectorManager, error) {
	var out []*models.SectorManager
	for rows.Next() {
		manager, err := scanManager(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, manager)
	}
	return out, rows.Err()
}

func scanManager(row pgx.Row) (*models.SectorManager, error) {
	var (
		manager          models.SectorManager
		rawID, rawTenant uuid.UUID
		sectors, role    string
	)
	err := row.Scan(&rawID, &rawTenant, &manager.Name, &manager.Email,
		&sectors, &role, &manager.CreatedAt, &manager.UpdatedAt)
	if err != nil {
		return nil, err
	}
	manager.ID = id.ManagerID(rawID)
	manager.TenantID = id.TenantID(rawTenant)
	manager.Sectors = models.ParseSectors(sectors)
	manager.Role = models.Role(role)
	return &manager, nil
}

package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	id "sentinela/pkg/domain"
	audit "sentinela/pkg/platform/audit"
)

// Store persists audit entries in PostgreSQL.
//
// Expected schema:
//
//	CREATE TABLE audit_entries (
//	    id            UUID PRIMARY KEY,
//	    tenant_id     UUID NOT NULL,
//	    action        TEXT NOT NULL,
//	    resource      TEXT NOT NULL,
//	    resource_id   TEXT NOT NULL,
//	    actor_user_id UUID,
//	    ip_address    TEXT NOT NULL DEFAULT '',
//	    details       JSONB NOT NULL DEFAULT '{}',
//	    created_at    TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX audit_entries_tenant_idx ON audit_entries (tenant_id, created_at DESC);
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL-backed audit store. Uses database/sql so it can
// share a lib/pq pool with other low-volume writers.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, entry audit.Entry) error {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}

	var actor *uuid.UUID
	if !entry.ActorUserID.IsNil() {
		u := uuid.UUID(entry.ActorUserID)
		actor = &u
	}

	ts := entry.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_entries (id, tenant_id, action, resource, resource_id, actor_user_id, ip_address, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.New(),
		uuid.UUID(entry.TenantID),
		string(entry.Action),
		entry.Resource,
		entry.ResourceID,
		actor,
		entry.IPAddress,
		details,
		ts,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (s *Store) ListByTenant(ctx context.Context, tenantID id.TenantID) ([]audit.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT action, resource, resource_id, actor_user_id, ip_address, details, created_at
		FROM audit_entries
		WHERE tenant_id = $1
		ORDER BY created_at ASC`,
		uuid.UUID(tenantID),
	)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var (
			entry      audit.Entry
			actor      sql.Null[uuid.UUID]
			rawDetails []byte
		)
		entry.TenantID = tenantID
		if err := rows.Scan(&entry.Action, &entry.Resource, &entry.ResourceID, &actor, &entry.IPAddress, &rawDetails, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		if actor.Valid {
			entry.ActorUserID = id.UserID(actor.V)
		}
		if len(rawDetails) > 0 {
			if err := json.Unmarshal(rawDetails, &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshal audit details: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

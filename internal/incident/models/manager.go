package models

import (
	"encoding/json"
	"strings"
	"time"

	id "sentinela/pkg/domain"
	dErrors "sentinela/pkg/domain-errors"
	"sentinela/pkg/platform/text"
)

// Role determines which notification dispatches target a manager.
type Role string

const (
	RoleSectorManager  Role = "SECTOR_MANAGER"
	RoleRiskManager    Role = "RISK_MANAGER"
	RoleHighManagement Role = "HIGH_MANAGEMENT"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleSectorManager, RoleRiskManager, RoleHighManagement:
		return true
	}
	return false
}

// SectorManager is a responsible party for one or more organizational
// sectors within a tenant.
//
// Sectors is canonical set-valued data. Legacy rows stored a bare string or
// a comma list; ParseSectors accepts those on decode only, and stores always
// re-encode the canonical JSON array form.
type SectorManager struct {
	ID       id.ManagerID `json:"id"`
	TenantID id.TenantID  `json:"tenant_id"`
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Sectors  []string     `json:"sectors"`
	Role     Role         `json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSectorManager validates and constructs a manager.
func NewSectorManager(managerID id.ManagerID, tenantID id.TenantID, name, email string, sectors []string, role Role, now time.Time) (*SectorManager, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "manager name cannot be empty")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "manager requires a valid email")
	}
	if !role.Valid() {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "unknown manager role %q", role)
	}
	return &SectorManager{
		ID:        managerID,
		TenantID:  tenantID,
		Name:      name,
		Email:     email,
		Sectors:   normalizeSectorSet(sectors),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ManagesSector reports whether the manager's sector set contains the given
// sector. Matching is case- and accent-insensitive.
func (m *SectorManager) ManagesSector(sector string) bool {
	for _, s := range m.Sectors {
		if text.EqualFold(s, sector) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy for memory stores.
func (m *SectorManager) Clone() *SectorManager {
	out := *m
	out.Sectors = append([]string(nil), m.Sectors...)
	return &out
}

// ParseSectors decodes the stored sector set. Canonical form is a JSON
// array; pre-migration rows may hold a comma list or a single bare value,
// and both are tolerated here. The result is always the canonical set.
func ParseSectors(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err == nil {
			return normalizeSectorSet(list)
		}
		// Malformed JSON falls through to the comma-list shim.
	}
	return normalizeSectorSet(strings.Split(raw, ","))
}

// EncodeSectors produces the canonical JSON array encoding.
func EncodeSectors(sectors []string) string {
	encoded, err := json.Marshal(normalizeSectorSet(sectors))
	if err != nil {
		return "[]"
	}
	return string(encoded)
}

// normalizeSectorSet trims entries, drops empties, and deduplicates under
// fold while preserving first-seen spelling and order.
func normalizeSectorSet(sectors []string) []string {
	seen := make(map[string]struct{}, len(sectors))
	out := make([]string, 0, len(sectors))
	for _, s := range sectors {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			continue
		}
		key := text.Fold(trimmed)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

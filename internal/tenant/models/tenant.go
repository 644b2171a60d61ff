package models

import (
	"strings"
	"time"

	id "sentinela/pkg/domain"
	dErrors "sentinela/pkg/domain-errors"
)

// Tenant is one isolated hospital/organization account. All incident and
// manager data is partitioned by it.
//
// Invariants:
//   - Slug is non-empty, lowercase, and unique; it is the only tenant
//     resolution token for unauthenticated report submission. A report with
//     an unresolvable slug is a hard validation error, never a fallback to
//     some other tenant.
//   - RiskManagerEmail is the fixed address notified on every new incident.
type Tenant struct {
	ID               id.TenantID `json:"id"`
	Name             string      `json:"name"`
	Slug             string      `json:"slug"`
	RiskManagerEmail string      `json:"risk_manager_email"`
	Active           bool        `json:"active"`
	CreatedAt        time.Time   `json:"created_at"`
}

// NewTenant validates and constructs a tenant.
func NewTenant(tenantID id.TenantID, name, slug, riskManagerEmail string, now time.Time) (*Tenant, error) {
	name = strings.TrimSpace(name)
	slug = NormalizeSlug(slug)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant name cannot be empty")
	}
	if slug == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant slug cannot be empty")
	}
	if !strings.Contains(riskManagerEmail, "@") {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant requires a risk manager email")
	}
	return &Tenant{
		ID:               tenantID,
		Name:             name,
		Slug:             slug,
		RiskManagerEmail: riskManagerEmail,
		Active:           true,
		CreatedAt:        now,
	}, nil
}

// NormalizeSlug lowercases and trims a raw slug token.
func NormalizeSlug(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

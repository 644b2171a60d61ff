package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	id "sentinela/pkg/domain"
	dErrors "sentinela/pkg/domain-errors"
)

func TestNewTenant_Invariants(t *testing.T) {
	now := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)

	tenant, err := NewTenant(id.NewTenantID(), "  Hospital Santa Clara  ", " Santa-Clara ", "risco@santaclara.example", now)
	require.NoError(t, err)
	require.Equal(t, "Hospital Santa Clara", tenant.Name)
	require.Equal(t, "santa-clara", tenant.Slug)
	require.True(t, tenant.Active)

	cases := []struct {
		name  string
		slug  string
		email string
	}{
		{name: "", slug: "ok", email: "a@b"},
		{name: "Hospital", slug: "   ", email: "a@b"},
		{name: "Hospital", slug: "ok", email: "not-an-email"},
	}
	for _, tc := range cases {
		_, err := NewTenant(id.NewTenantID(), tc.name, tc.slug, tc.email, now)
		require.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	}
}

func TestNormalizeSlug(t *testing.T) {
	require.Equal(t, "santa-clara", NormalizeSlug("  SANTA-clara\t"))
	require.Equal(t, "", NormalizeSlug("   "))
}

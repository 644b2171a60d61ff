package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sentinela/internal/tenant/models"
	id "sentinela/pkg/domain"
	"sentinela/pkg/platform/sentinel"
)

func TestInMemoryTenantStore(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	now := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)

	tenant, err := models.NewTenant(id.NewTenantID(), "Hospital Santa Clara", "santa-clara", "risco@santaclara.example", now)
	require.NoError(t, err)
	require.NoError(t, store.Create(ctx, tenant))

	t.Run("find by id", func(t *testing.T) {
		got, err := store.FindByID(ctx, tenant.ID)
		require.NoError(t, err)
		require.Equal(t, tenant.Slug, got.Slug)
	})

	t.Run("slug lookup normalizes the token", func(t *testing.T) {
		got, err := store.FindBySlug(ctx, "  SANTA-CLARA ")
		require.NoError(t, err)
		require.Equal(t, tenant.ID, got.ID)
	})

	t.Run("unknown slug is not found, never another tenant", func(t *testing.T) {
		_, err := store.FindBySlug(ctx, "santa-casa")
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("duplicate slug conflicts", func(t *testing.T) {
		dup, err := models.NewTenant(id.NewTenantID(), "Outro Hospital", "santa-clara", "risco@outro.example", now)
		require.NoError(t, err)
		require.ErrorIs(t, store.Create(ctx, dup), sentinel.ErrConflict)
	})
}

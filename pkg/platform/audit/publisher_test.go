package audit_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "sentinela/pkg/domain"
	audit "sentinela/pkg/platform/audit"
	"sentinela/pkg/platform/audit/store/memory"
)

func TestPublisher_SyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := audit.NewPublisher(store)
	defer pub.Close()

	tenantID := id.NewTenantID()
	err := pub.Emit(context.Background(), audit.Entry{
		Action:   audit.ActionIncidentReported,
		Resource: "incident",
		TenantID: tenantID,
	})
	require.NoError(t, err)

	entries, err := pub.List(context.Background(), tenantID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionIncidentReported, entries[0].Action)
}

func TestPublisher_AsyncDrainsOnClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := audit.NewPublisher(store, audit.WithAsyncBuffer(100))

	tenantID := id.NewTenantID()
	for range 10 {
		err := pub.Emit(context.Background(), audit.Entry{
			Action:   audit.ActionIncidentClosed,
			Resource: "incident",
			TenantID: tenantID,
		})
		require.NoError(t, err)
	}

	pub.Close()

	entries, err := store.ListByTenant(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Len(t, entries, 10)
}

func TestPublisher_AsyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := audit.NewPublisher(store, audit.WithAsyncBuffer(10))
	defer pub.Close()

	tenantID := id.NewTenantID()
	err := pub.Emit(context.Background(), audit.Entry{
		Action:   audit.ActionExtensionApproved,
		Resource: "incident",
		TenantID: tenantID,
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		entries, err := store.ListByTenant(context.Background(), tenantID)
		return err == nil && len(entries) == 1
	}, time.Second, 10*time.Millisecond)
}

type failingStore struct {
	mu    sync.Mutex
	calls int
}

func (s *failingStore) Append(context.Context, audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return errors.New("sink down")
}

func (s *failingStore) ListByTenant(context.Context, id.TenantID) ([]audit.Entry, error) {
	return nil, nil
}

// A sink failure must never surface to the operation being audited.
func TestPublisher_SinkFailureIsSwallowed(t *testing.T) {
	store := &failingStore{}
	pub := audit.NewPublisher(store)
	defer pub.Close()

	err := pub.Emit(context.Background(), audit.Entry{
		Action:   audit.ActionIncidentReported,
		TenantID: id.NewTenantID(),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.calls)
}

func TestFanout_MirrorFailureDoesNotAffectPrimary(t *testing.T) {
	primary := memory.NewInMemoryStore()
	fanout := audit.NewFanout(primary, nil, &failingStore{})

	tenantID := id.NewTenantID()
	err := fanout.Append(context.Background(), audit.Entry{
		Action:   audit.ActionIncidentEscalated,
		TenantID: tenantID,
	})
	require.NoError(t, err)

	entries, err := fanout.ListByTenant(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

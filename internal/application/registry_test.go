package application

import (
	"testing"
	"time"

	"github.com/bnema/tpx/internal/domain"
	"github.com/bnema/tpx/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRequest(id string, requester, recipient domain.ActorID, clock ports.Clock) domain.PendingRequest {
	now := clock.Now()
	return domain.PendingRequest{
		ID:        id,
		Requester: requester,
		Recipient: recipient,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Minute),
	}
}

func TestRequestRegistryCreateAndRemove(t *testing.T) {
	t.Parallel()

	clock := newManualClock()
	registry := NewRequestRegistry()
	req := newTestRequest("r-1", "alice", "bob", clock)

	replaced, err := registry.Create(req, domain.ConflictOverwrite, func() ports.Timer {
		return clock.AfterFunc(time.Minute, func() {})
	})
	require.NoError(t, err)
	assert.Nil(t, replaced)
	assert.Equal(t, 1, registry.Len())

	got, ok := registry.Get("bob")
	require.True(t, ok)
	assert.Equal(t, req, got)

	removed, ok := registry.Remove("bob")
	require.True(t, ok)
	assert.Equal(t, req, removed)
	assert.Equal(t, 0, registry.Len())
	assert.Equal(t, 0, clock.pending(), "removal stops the expiry timer")

	_, ok = registry.Remove("bob")
	assert.False(t, ok)
}

func TestRequestRegistryRejectsDuplicateFromSameRequester(t *testing.T) {
	t.Parallel()

	clock := newManualClock()
	registry := NewRequestRegistry()
	_, err := registry.Create(newTestRequest("r-1", "alice", "bob", clock), domain.ConflictOverwrite, nil)
	require.NoError(t, err)

	armed := false
	_, err = registry.Create(newTestRequest("r-2", "alice", "bob", clock), domain.ConflictOverwrite, func() ports.Timer {
		armed = true
		return nil
	})
	require.ErrorIs(t, err, domain.ErrDuplicateRequest)
	assert.False(t, armed)

	got, _ := registry.Get("bob")
	assert.Equal(t, "r-1", got.ID)
}

func TestRequestRegistryConflictPolicies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		policy     domain.ConflictPolicy
		wantErr    error
		wantHolder string
	}{
		{name: "overwrite replaces", policy: domain.ConflictOverwrite, wantHolder: "r-2"},
		{name: "reject keeps existing", policy: domain.ConflictReject, wantErr: domain.ErrRecipientBusy, wantHolder: "r-1"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			clock := newManualClock()
			registry := NewRequestRegistry()
			arm := func() ports.Timer { return clock.AfterFunc(time.Minute, func() {}) }

			_, err := registry.Create(newTestRequest("r-1", "alice", "bob", clock), tc.policy, arm)
			require.NoError(t, err)

			replaced, err := registry.Create(newTestRequest("r-2", "carol", "bob", clock), tc.policy, arm)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, replaced)
			} else {
				require.NoError(t, err)
				require.NotNil(t, replaced)
				assert.Equal(t, "r-1", replaced.ID)
			}

			got, ok := registry.Get("bob")
			require.True(t, ok)
			assert.Equal(t, tc.wantHolder, got.ID)
			assert.Equal(t, 1, registry.Len())
			assert.Equal(t, 1, clock.pending(), "exactly one live expiry timer per recipient")
		})
	}
}

func TestRequestRegistryRemoveIfMatchesInstance(t *testing.T) {
	t.Parallel()

	clock := newManualClock()
	registry := NewRequestRegistry()
	_, err := registry.Create(newTestRequest("r-new", "alice", "bob", clock), domain.ConflictOverwrite, nil)
	require.NoError(t, err)

	_, ok := registry.RemoveIf("bob", "r-old")
	assert.False(t, ok)
	assert.Equal(t, 1, registry.Len())

	removed, ok := registry.RemoveIf("bob", "r-new")
	require.True(t, ok)
	assert.Equal(t, "r-new", removed.ID)
	assert.Equal(t, 0, registry.Len())
}

func TestRequestRegistryClearAllStopsTimers(t *testing.T) {
	t.Parallel()

	clock := newManualClock()
	registry := NewRequestRegistry()
	arm := func() ports.Timer { return clock.AfterFunc(time.Minute, func() {}) }

	for i, recipient := range []domain.ActorID{"bob", "carol", "dave"} {
		_, err := registry.Create(newTestRequest(string(rune('a'+i)), "alice", recipient, clock), domain.ConflictOverwrite, arm)
		require.NoError(t, err)
	}
	require.Equal(t, 3, clock.pending())

	assert.Equal(t, 3, registry.ClearAll())
	assert.Equal(t, 0, registry.Len())
	assert.Equal(t, 0, clock.pending())
	assert.Empty(t, registry.List())
}

func TestRequestRegistryListOrdersByExpiry(t *testing.T) {
	t.Parallel()

	clock := newManualClock()
	registry := NewRequestRegistry()

	_, err := registry.Create(newTestRequest("r-1", "alice", "carol", clock), domain.ConflictOverwrite, nil)
	require.NoError(t, err)
	clock.Advance(time.Second)
	_, err = registry.Create(newTestRequest("r-2", "alice", "bob", clock), domain.ConflictOverwrite, nil)
	require.NoError(t, err)

	list := registry.List()
	require.Len(t, list, 2)
	assert.Equal(t, "r-1", list[0].ID)
	assert.Equal(t, "r-2", list[1].ID)
}

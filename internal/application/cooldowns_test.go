package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCooldownTrackerUnknownActorIsNotOnCooldown(t *testing.T) {
	t.Parallel()

	tracker := NewCooldownTracker(newManualClock())

	assert.False(t, tracker.IsOnCooldown("alice"))
	assert.Equal(t, 0, tracker.RemainingSeconds("alice"))
	assert.Empty(t, tracker.Active())
}

func TestCooldownTrackerRemainingDecreasesToZero(t *testing.T) {
	t.Parallel()

	clock := newManualClock()
	tracker := NewCooldownTracker(clock)
	tracker.Arm("alice", 30*time.Second)

	previous := tracker.RemainingSeconds("alice")
	assert.Equal(t, 30, previous)
	for i := 0; i < 29; i++ {
		clock.Advance(time.Second)
		remaining := tracker.RemainingSeconds("alice")
		assert.Less(t, remaining, previous)
		assert.True(t, tracker.IsOnCooldown("alice"))
		previous = remaining
	}

	clock.Advance(500 * time.Millisecond)
	assert.Equal(t, 1, tracker.RemainingSeconds("alice"))
	assert.True(t, tracker.IsOnCooldown("alice"))

	clock.Advance(500 * time.Millisecond)
	assert.Equal(t, 0, tracker.RemainingSeconds("alice"))
	assert.False(t, tracker.IsOnCooldown("alice"))

	clock.Advance(time.Hour)
	assert.Equal(t, 0, tracker.RemainingSeconds("alice"))
}

func TestCooldownTrackerArmOverwritesFromNow(t *testing.T) {
	t.Parallel()

	clock := newManualClock()
	tracker := NewCooldownTracker(clock)
	tracker.Arm("alice", 30*time.Second)

	clock.Advance(10 * time.Second)
	tracker.Arm("alice", 5*time.Second)

	assert.Equal(t, 5, tracker.RemainingSeconds("alice"))
}

func TestCooldownTrackerZeroDurationNeverThrottles(t *testing.T) {
	t.Parallel()

	tracker := NewCooldownTracker(newManualClock())
	tracker.Arm("alice", 0)

	assert.False(t, tracker.IsOnCooldown("alice"))
	assert.Equal(t, 0, tracker.RemainingSeconds("alice"))
}

func TestCooldownTrackerActiveListsOnlyFutureEntries(t *testing.T) {
	t.Parallel()

	clock := newManualClock()
	tracker := NewCooldownTracker(clock)
	tracker.Arm("carol", 5*time.Second)
	tracker.Arm("alice", 30*time.Second)
	tracker.Arm("bob", 60*time.Second)

	clock.Advance(10 * time.Second)

	active := tracker.Active()
	if assert.Len(t, active, 2) {
		assert.Equal(t, "alice", string(active[0].Actor))
		assert.Equal(t, 20, active[0].Remaining)
		assert.Equal(t, "bob", string(active[1].Actor))
		assert.Equal(t, 50, active[1].Remaining)
	}
}

package application

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/bnema/tpx/internal/domain"
	"github.com/bnema/tpx/internal/ports"
)

type Cooldown struct {
	Actor     domain.ActorID
	Until     time.Time
	Remaining int
}

// CooldownTracker records, per actor, the instant after which a new request
// may be sent. Entries in the past are never pruned; they read as expired.
type CooldownTracker struct {
	clock ports.Clock
	mu    sync.RWMutex
	until map[domain.ActorID]time.Time
}

func NewCooldownTracker(clock ports.Clock) *CooldownTracker {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &CooldownTracker{clock: clock, until: make(map[domain.ActorID]time.Time)}
}

func (t *CooldownTracker) IsOnCooldown(actor domain.ActorID) bool {
	t.mu.RLock()
	until, ok := t.until[actor]
	t.mu.RUnlock()

	return ok && until.After(t.clock.Now())
}

// RemainingSeconds rounds up so that it only reaches zero once IsOnCooldown
// reports false.
func (t *CooldownTracker) RemainingSeconds(actor domain.ActorID) int {
	t.mu.RLock()
	until, ok := t.until[actor]
	t.mu.RUnlock()
	if !ok {
		return 0
	}

	return remainingSeconds(until.Sub(t.clock.Now()))
}

func (t *CooldownTracker) Arm(actor domain.ActorID, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.until[actor] = t.clock.Now().Add(d)
}

func (t *CooldownTracker) Active() []Cooldown {
	now := t.clock.Now()

	t.mu.RLock()
	active := make([]Cooldown, 0, len(t.until))
	for actor, until := range t.until {
		if !until.After(now) {
			continue
		}
		active = append(active, Cooldown{Actor: actor, Until: until, Remaining: remainingSeconds(until.Sub(now))})
	}
	t.mu.RUnlock()

	sort.Slice(active, func(i, j int) bool {
		return active[i].Actor < active[j].Actor
	})

	return active
}

func remainingSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}

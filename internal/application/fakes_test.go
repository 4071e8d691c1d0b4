package application

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bnema/tpx/internal/domain"
	"github.com/bnema/tpx/internal/ports"
)

type manualTimer struct {
	clock   *manualClock
	at      time.Time
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// manualClock only moves when Advance is called; due timers fire in order
// on the calling goroutine.
type manualClock struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*manualTimer
}

var _ ports.Clock = (*manualClock)(nil)

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) ports.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	t := &manualTimer{clock: c, at: c.now.Add(d), seq: c.seq, fn: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.nextDueLocked(target)
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = next.at
		next.fired = true
		c.mu.Unlock()

		next.fn()
	}
}

func (c *manualClock) nextDueLocked(target time.Time) *manualTimer {
	var due []*manualTimer
	for _, t := range c.timers {
		if t.stopped || t.fired || t.at.After(target) {
			continue
		}
		due = append(due, t)
	}
	if len(due) == 0 {
		return nil
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].at.Equal(due[j].at) {
			return due[i].seq < due[j].seq
		}
		return due[i].at.Before(due[j].at)
	})
	return due[0]
}

// forceFireStopped runs the callbacks of cancelled timers, the way a callback
// dispatched just before cancellation would still run.
func (c *manualClock) forceFireStopped() {
	c.mu.Lock()
	var timers []*manualTimer
	for _, t := range c.timers {
		if t.stopped {
			timers = append(timers, t)
		}
	}
	c.mu.Unlock()

	for _, t := range timers {
		t.fn()
	}
}

func (c *manualClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			count++
		}
	}
	return count
}

type sentNotification struct {
	To           domain.ActorID
	Notification domain.Notification
	At           time.Time
}

type recordingNotifier struct {
	mu    sync.Mutex
	clock ports.Clock
	sent  []sentNotification
}

func (n *recordingNotifier) Notify(actor domain.ActorID, notification domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()

	var at time.Time
	if n.clock != nil {
		at = n.clock.Now()
	}
	n.sent = append(n.sent, sentNotification{To: actor, Notification: notification, At: at})
}

func (n *recordingNotifier) keysFor(actor domain.ActorID) []domain.MessageKey {
	n.mu.Lock()
	defer n.mu.Unlock()

	var keys []domain.MessageKey
	for _, s := range n.sent {
		if s.To == actor {
			keys = append(keys, s.Notification.Key)
		}
	}
	return keys
}

func (n *recordingNotifier) withKey(key domain.MessageKey) []sentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()

	var matched []sentNotification
	for _, s := range n.sent {
		if s.Notification.Key == key {
			matched = append(matched, s)
		}
	}
	return matched
}

func (n *recordingNotifier) last(actor domain.ActorID) (domain.Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i := len(n.sent) - 1; i >= 0; i-- {
		if n.sent[i].To == actor {
			return n.sent[i].Notification, true
		}
	}
	return domain.Notification{}, false
}

type teleportCall struct {
	Mover  domain.ActorID
	Anchor domain.ActorID
	At     time.Time
}

// fakeWorld is both the actor directory and the action executor.
type fakeWorld struct {
	mu        sync.Mutex
	clock     ports.Clock
	names     map[domain.ActorID]string
	online    map[domain.ActorID]bool
	session   map[domain.ActorID]uint64
	joins     uint64
	teleports []teleportCall
}

func newFakeWorld(clock ports.Clock, names ...string) *fakeWorld {
	w := &fakeWorld{
		clock:  clock,
		names:   make(map[domain.ActorID]string),
		online:  make(map[domain.ActorID]bool),
		session: make(map[domain.ActorID]uint64),
	}
	for _, name := range names {
		w.join(name)
	}
	return w
}

func (w *fakeWorld) join(name string) domain.ActorID {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := domain.ActorID("id-" + name)
	w.joins++
	w.names[id] = name
	w.online[id] = true
	w.session[id] = w.joins
	return id
}

func (w *fakeWorld) leave(id domain.ActorID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.online[id] = false
}

// quit forgets id entirely, the way the in-memory world drops a member.
func (w *fakeWorld) quit(id domain.ActorID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.names, id)
	delete(w.online, id)
	delete(w.session, id)
}

// back makes id reachable again within the same session, like a connection
// that stalled without the actor logging out.
func (w *fakeWorld) back(id domain.ActorID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.online[id] = true
}

func (w *fakeWorld) Resolve(id domain.ActorID) (domain.Actor, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	name, ok := w.names[id]
	if !ok {
		return domain.Actor{}, false
	}
	return domain.Actor{ID: id, Name: name, Session: w.session[id]}, true
}

func (w *fakeWorld) IsReachable(id domain.ActorID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.online[id]
}

func (w *fakeWorld) Teleport(mover, anchor domain.ActorID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var at time.Time
	if w.clock != nil {
		at = w.clock.Now()
	}
	w.teleports = append(w.teleports, teleportCall{Mover: mover, Anchor: anchor, At: at})
}

func (w *fakeWorld) teleportCalls() []teleportCall {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]teleportCall(nil), w.teleports...)
}

type recordingEvents struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (r *recordingEvents) Publish(_ context.Context, event domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
	return r.err
}

func (r *recordingEvents) types() []domain.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()

	types := make([]domain.EventType, 0, len(r.events))
	for _, e := range r.events {
		types = append(types, e.Type)
	}
	return types
}

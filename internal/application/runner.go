package application

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/bnema/tpx/internal/domain"
	"github.com/bnema/tpx/internal/ports"
	"go.uber.org/zap"
)

const countdownInterval = time.Second

type countdown struct {
	id        uint64
	mover     domain.Actor
	anchor    domain.Actor
	remaining int
	timer     ports.Timer
}

// DelayedActionRunner performs the teleport that follows an accepted request,
// optionally after a per-second countdown. Both actors are captured when the
// countdown starts and checked at every step; a step whose actors are gone is
// skipped, and a final step whose actors are gone drops the teleport. An actor
// that left and joined again counts as gone.
type DelayedActionRunner struct {
	directory ports.ActorDirectory
	notifier  ports.Notifier
	executor  ports.ActionExecutor
	opts      options

	mu         sync.Mutex
	countdowns map[uint64]*countdown
	nextID     uint64
	closed     bool
}

func NewDelayedActionRunner(directory ports.ActorDirectory, notifier ports.Notifier, executor ports.ActionExecutor, opts ...Option) *DelayedActionRunner {
	return &DelayedActionRunner{
		directory:  directory,
		notifier:   notifier,
		executor:   executor,
		opts:       buildOptions(opts),
		countdowns: make(map[uint64]*countdown),
	}
}

// Run starts the teleport of mover onto anchor. It fails with
// ErrServiceClosed once CancelAll has run.
func (r *DelayedActionRunner) Run(ctx context.Context, mover, anchor domain.ActorID, delaySeconds int) error {
	c := &countdown{
		mover:     r.capture(mover),
		anchor:    r.capture(anchor),
		remaining: delaySeconds,
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		r.opts.logger.Debug("teleport refused, runner closed",
			zap.String("mover", string(mover)),
			zap.String("anchor", string(anchor)))
		return domain.ErrServiceClosed
	}
	if delaySeconds <= 0 {
		r.mu.Unlock()
		r.teleport(ctx, mover, anchor)
		return nil
	}
	r.nextID++
	c.id = r.nextID
	r.countdowns[c.id] = c
	r.mu.Unlock()

	r.opts.logger.Debug("teleport countdown started",
		zap.String("mover", string(mover)),
		zap.String("anchor", string(anchor)),
		zap.Int("delay_seconds", delaySeconds))

	r.step(context.WithoutCancel(ctx), c)
	return nil
}

func (r *DelayedActionRunner) capture(id domain.ActorID) domain.Actor {
	actor, ok := r.directory.Resolve(id)
	if !ok {
		return domain.Actor{ID: id}
	}
	return actor
}

func (r *DelayedActionRunner) step(ctx context.Context, c *countdown) {
	r.mu.Lock()
	if _, ok := r.countdowns[c.id]; !ok {
		r.mu.Unlock()
		return
	}

	remaining := c.remaining
	if remaining == 0 {
		delete(r.countdowns, c.id)
		r.mu.Unlock()

		if !r.live(c) {
			r.opts.logger.Info("teleport dropped, actor left",
				zap.String("mover", string(c.mover.ID)),
				zap.String("anchor", string(c.anchor.ID)))
			r.opts.publish(ctx, domain.Event{
				Type:      domain.EventTeleportDropped,
				Requester: c.mover.ID,
				Recipient: c.anchor.ID,
				At:        r.opts.clock.Now(),
			})
			return
		}
		r.teleport(ctx, c.mover.ID, c.anchor.ID)
		return
	}

	c.remaining--
	c.timer = r.opts.clock.AfterFunc(countdownInterval, func() {
		r.step(ctx, c)
	})
	r.mu.Unlock()

	if r.live(c) {
		r.notifier.Notify(c.mover.ID, domain.NewNotification(domain.MsgTeleportCountdown, domain.VarTime, strconv.Itoa(remaining)))
	}
}

func (r *DelayedActionRunner) teleport(ctx context.Context, mover, anchor domain.ActorID) {
	r.executor.Teleport(mover, anchor)
	r.notifier.Notify(mover, domain.NewNotification(domain.MsgTeleportSuccess))
	r.opts.publish(ctx, domain.Event{
		Type:      domain.EventTeleportCompleted,
		Requester: mover,
		Recipient: anchor,
		At:        r.opts.clock.Now(),
	})
}

func (r *DelayedActionRunner) live(c *countdown) bool {
	return r.present(c.mover) && r.present(c.anchor)
}

func (r *DelayedActionRunner) present(captured domain.Actor) bool {
	if !r.directory.IsReachable(captured.ID) {
		return false
	}
	current, ok := r.directory.Resolve(captured.ID)
	return ok && captured.SameSession(current)
}

// CancelAll stops every running countdown and closes the runner; later calls
// to Run are refused. Callbacks that were already dispatched find their
// countdown gone and return without acting.
func (r *DelayedActionRunner) CancelAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	cancelled := len(r.countdowns)
	for id, c := range r.countdowns {
		stopTimer(c.timer)
		delete(r.countdowns, id)
	}

	return cancelled
}

func (r *DelayedActionRunner) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.countdowns)
}

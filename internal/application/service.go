package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/bnema/tpx/internal/domain"
	"github.com/bnema/tpx/internal/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestService drives the request lifecycle: send, accept, reject and
// timer-driven expiry. Every outcome, failures included, is reported to the
// affected actors through the notifier before it is returned.
type RequestService struct {
	registry  *RequestRegistry
	cooldowns *CooldownTracker
	runner    *DelayedActionRunner
	directory ports.ActorDirectory
	notifier  ports.Notifier
	settings  ports.SettingsProvider
	opts      options
	closed    atomic.Bool
}

func NewRequestService(directory ports.ActorDirectory, notifier ports.Notifier, executor ports.ActionExecutor, settings ports.SettingsProvider, opts ...Option) *RequestService {
	o := buildOptions(opts)
	if settings == nil {
		settings = ports.StaticSettings(domain.DefaultSettings())
	}

	return &RequestService{
		registry:  NewRequestRegistry(),
		cooldowns: NewCooldownTracker(o.clock),
		runner:    NewDelayedActionRunner(directory, notifier, executor, opts...),
		directory: directory,
		notifier:  notifier,
		settings:  settings,
		opts:      o,
	}
}

func (s *RequestService) Send(ctx context.Context, requester, recipient domain.ActorID) (domain.PendingRequest, error) {
	if s.closed.Load() {
		return domain.PendingRequest{}, domain.ErrServiceClosed
	}

	cfg := s.settings.Settings()

	if requester == recipient {
		s.notify(requester, domain.NewNotification(domain.MsgSelfTeleport))
		return domain.PendingRequest{}, domain.ErrSelfTarget
	}

	if s.cooldowns.IsOnCooldown(requester) {
		remaining := s.cooldowns.RemainingSeconds(requester)
		s.notify(requester, domain.NewNotification(domain.MsgCooldownActive, domain.VarTime, strconv.Itoa(remaining)))
		return domain.PendingRequest{}, &domain.CooldownError{Remaining: remaining}
	}

	now := s.opts.clock.Now()
	req := domain.PendingRequest{
		ID:            uuid.NewString(),
		Requester:     requester,
		Recipient:     recipient,
		RequesterName: s.displayName(requester),
		RecipientName: s.displayName(recipient),
		CreatedAt:     now,
		ExpiresAt:     now.Add(cfg.RequestTimeout()),
	}
	if err := req.Validate(); err != nil {
		return domain.PendingRequest{}, fmt.Errorf("send request: %w", err)
	}

	replaced, err := s.registry.Create(req, cfg.ConflictPolicy, func() ports.Timer {
		return s.opts.clock.AfterFunc(cfg.RequestTimeout(), func() {
			s.expire(req)
		})
	})
	switch {
	case errors.Is(err, domain.ErrDuplicateRequest):
		s.notify(requester, domain.NewNotification(domain.MsgAlreadySentRequest, domain.VarPlayer, req.RecipientDisplayName()))
		return domain.PendingRequest{}, err
	case errors.Is(err, domain.ErrRecipientBusy):
		s.notify(requester, domain.NewNotification(domain.MsgRecipientBusy, domain.VarPlayer, req.RecipientDisplayName()))
		return domain.PendingRequest{}, err
	case err != nil:
		return domain.PendingRequest{}, err
	}

	s.cooldowns.Arm(requester, cfg.RequestCooldown())

	if replaced != nil {
		s.opts.logger.Info("pending request replaced",
			zap.String("recipient", string(recipient)),
			zap.String("previous_requester", string(replaced.Requester)),
			zap.String("requester", string(requester)))
		s.opts.publish(ctx, domain.RequestEvent(domain.EventRequestReplaced, *replaced, now))
	}

	s.notify(requester, domain.NewNotification(domain.MsgRequestSent, domain.VarPlayer, req.RecipientDisplayName()))
	received := domain.NewNotification(domain.MsgRequestReceived, domain.VarPlayer, req.RequesterDisplayName())
	received.Prompt = true
	s.notify(recipient, received)

	s.opts.logger.Debug("request sent",
		zap.String("request_id", req.ID),
		zap.String("requester", string(requester)),
		zap.String("recipient", string(recipient)),
		zap.Int("timeout_seconds", cfg.RequestTimeoutSeconds))
	s.opts.publish(ctx, domain.RequestEvent(domain.EventRequestSent, req, now))

	return req, nil
}

func (s *RequestService) Accept(ctx context.Context, recipient domain.ActorID) (domain.PendingRequest, error) {
	if s.closed.Load() {
		return domain.PendingRequest{}, domain.ErrServiceClosed
	}

	req, ok := s.registry.Remove(recipient)
	if !ok {
		s.notify(recipient, domain.NewNotification(domain.MsgNoPendingRequests))
		return domain.PendingRequest{}, domain.ErrNoPendingRequest
	}

	now := s.opts.clock.Now()
	if !s.directory.IsReachable(req.Requester) {
		s.notify(recipient, domain.NewNotification(domain.MsgPlayerOffline, domain.VarPlayer, req.RequesterDisplayName()))
		s.opts.publish(ctx, domain.RequestEvent(domain.EventRequestAbandoned, req, now))
		return req, domain.ErrRequesterUnavailable
	}

	s.notify(recipient, domain.NewNotification(domain.MsgRequestReceivedAccepted, domain.VarPlayer, req.RequesterDisplayName()))
	s.notify(req.Requester, domain.NewNotification(domain.MsgRequestSentAccepted, domain.VarPlayer, req.RecipientDisplayName()))
	s.opts.publish(ctx, domain.RequestEvent(domain.EventRequestAccepted, req, now))

	if err := s.runner.Run(ctx, req.Requester, req.Recipient, s.settings.Settings().TeleportDelaySeconds); err != nil {
		s.opts.logger.Info("accepted request not carried out, service shut down",
			zap.String("request_id", req.ID))
		return req, err
	}

	return req, nil
}

func (s *RequestService) Reject(ctx context.Context, recipient domain.ActorID) (domain.PendingRequest, error) {
	if s.closed.Load() {
		return domain.PendingRequest{}, domain.ErrServiceClosed
	}

	req, ok := s.registry.Remove(recipient)
	if !ok {
		s.notify(recipient, domain.NewNotification(domain.MsgNoPendingRequests))
		return domain.PendingRequest{}, domain.ErrNoPendingRequest
	}

	s.notify(recipient, domain.NewNotification(domain.MsgRequestReceivedRejected, domain.VarPlayer, req.RequesterDisplayName()))
	if s.directory.IsReachable(req.Requester) {
		s.notify(req.Requester, domain.NewNotification(domain.MsgRequestSentRejected, domain.VarPlayer, req.RecipientDisplayName()))
	}
	s.opts.publish(ctx, domain.RequestEvent(domain.EventRequestRejected, req, s.opts.clock.Now()))

	return req, nil
}

// Shutdown drops every pending request and cancels running countdowns.
// Subsequent sends, answers and teleports fail with ErrServiceClosed.
func (s *RequestService) Shutdown() {
	if s.closed.Swap(true) {
		return
	}

	cleared := s.registry.ClearAll()
	cancelled := s.runner.CancelAll()
	s.opts.logger.Info("request service shut down",
		zap.Int("cleared_requests", cleared),
		zap.Int("cancelled_teleports", cancelled))
}

func (s *RequestService) Pending(recipient domain.ActorID) (domain.PendingRequest, bool) {
	return s.registry.Get(recipient)
}

func (s *RequestService) expire(req domain.PendingRequest) {
	if s.closed.Load() {
		return
	}
	if _, ok := s.registry.RemoveIf(req.Recipient, req.ID); !ok {
		return
	}

	if s.directory.IsReachable(req.Requester) {
		s.notify(req.Requester, domain.NewNotification(domain.MsgRequestSentExpired, domain.VarPlayer, req.RecipientDisplayName()))
	}
	if s.directory.IsReachable(req.Recipient) {
		s.notify(req.Recipient, domain.NewNotification(domain.MsgRequestReceivedExpired, domain.VarPlayer, req.RequesterDisplayName()))
	}

	s.opts.logger.Debug("request expired", zap.String("request_id", req.ID))
	s.opts.publish(context.Background(), domain.RequestEvent(domain.EventRequestExpired, req, s.opts.clock.Now()))
}

func (s *RequestService) notify(actor domain.ActorID, n domain.Notification) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(actor, n)
}

func (s *RequestService) displayName(id domain.ActorID) string {
	actor, ok := s.directory.Resolve(id)
	if !ok {
		return string(id)
	}
	return actor.DisplayName()
}

package application

import (
	"context"

	"github.com/bnema/tpx/internal/domain"
	"github.com/bnema/tpx/internal/ports"
	"go.uber.org/zap"
)

type options struct {
	clock  ports.Clock
	events ports.EventPublisher
	logger *zap.Logger
}

type Option func(*options)

func WithClock(clock ports.Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

func WithEvents(events ports.EventPublisher) Option {
	return func(o *options) {
		o.events = events
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		clock:  ports.SystemClock{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) publish(ctx context.Context, event domain.Event) {
	if o.events == nil {
		return
	}
	if err := o.events.Publish(ctx, event); err != nil {
		o.logger.Warn("publish lifecycle event",
			zap.String("type", string(event.Type)),
			zap.String("request_id", event.RequestID),
			zap.Error(err))
	}
}

package watermill

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/bnema/tpx/internal/domain"
	"github.com/bnema/tpx/internal/ports"
	"go.uber.org/zap"
)

const (
	Topic = "tpx.requests"

	eventTypeKey  = "event_type"
	channelBuffer = 64
)

// Bus publishes request lifecycle events on an in-process watermill channel.
// Events published while nobody is subscribed are dropped.
type Bus struct {
	pubSub *gochannel.GoChannel
	logger *zap.Logger
}

var _ ports.EventPublisher = (*Bus)(nil)

func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("events")

	return &Bus{
		pubSub: gochannel.NewGoChannel(
			gochannel.Config{
				OutputChannelBuffer:            channelBuffer,
				BlockPublishUntilSubscriberAck: false,
			},
			NewLoggerAdapter(logger),
		),
		logger: logger,
	}
}

func (b *Bus) Publish(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(eventTypeKey, string(event.Type))
	msg.SetContext(ctx)

	if err := b.pubSub.Publish(Topic, msg); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Subscribe streams decoded events until ctx is done or the bus is closed.
// Undecodable payloads are logged and skipped.
func (b *Bus) Subscribe(ctx context.Context) (<-chan domain.Event, error) {
	messages, err := b.pubSub.Subscribe(ctx, Topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe events: %w", err)
	}

	out := make(chan domain.Event)
	go func() {
		defer close(out)

		for msg := range messages {
			var event domain.Event
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				b.logger.Warn("drop undecodable event", zap.String("message_uuid", msg.UUID), zap.Error(err))
				msg.Ack()
				continue
			}

			select {
			case out <- event:
				msg.Ack()
			case <-ctx.Done():
				msg.Nack()
				return
			}
		}
	}()

	return out, nil
}

func (b *Bus) Close() error {
	if err := b.pubSub.Close(); err != nil {
		return fmt.Errorf("close event bus: %w", err)
	}
	return nil
}

package ports

import (
	"context"

	"github.com/bnema/tpx/internal/domain"
)

type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

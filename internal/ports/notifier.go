package ports

import "github.com/bnema/tpx/internal/domain"

// Notifier delivers a templated message to an actor. Delivery is best effort
// and never reports failure back to the caller.
type Notifier interface {
	Notify(actor domain.ActorID, n domain.Notification)
}

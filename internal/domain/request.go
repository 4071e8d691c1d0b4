package domain

import (
	"fmt"
	"strings"
	"time"
)

// PendingRequest is a directed request keyed by its recipient. The names are
// captured when the request is sent so later messages can still name an
// actor that has gone offline.
type PendingRequest struct {
	ID            string
	Requester     ActorID
	Recipient     ActorID
	RequesterName string
	RecipientName string
	CreatedAt     time.Time
	ExpiresAt     time.Time
}

func (r PendingRequest) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidRequest)
	}
	if r.Requester == "" {
		return fmt.Errorf("%w: requester is required", ErrInvalidRequest)
	}
	if r.Recipient == "" {
		return fmt.Errorf("%w: recipient is required", ErrInvalidRequest)
	}
	if r.Requester == r.Recipient {
		return ErrSelfTarget
	}
	if !r.ExpiresAt.After(r.CreatedAt) {
		return fmt.Errorf("%w: expiry must be after creation", ErrInvalidRequest)
	}

	return nil
}

func (r PendingRequest) Remaining(now time.Time) time.Duration {
	if now.After(r.ExpiresAt) {
		return 0
	}
	return r.ExpiresAt.Sub(now)
}

func (r PendingRequest) RequesterDisplayName() string {
	return Actor{ID: r.Requester, Name: r.RequesterName}.DisplayName()
}

func (r PendingRequest) RecipientDisplayName() string {
	return Actor{ID: r.Recipient, Name: r.RecipientName}.DisplayName()
}

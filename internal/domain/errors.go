package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSelfTarget           = errors.New("cannot send a request to yourself")
	ErrCooldownActive       = errors.New("request cooldown active")
	ErrDuplicateRequest     = errors.New("request already pending for this recipient")
	ErrRecipientBusy        = errors.New("recipient already has a pending request")
	ErrNoPendingRequest     = errors.New("no pending request")
	ErrRequesterUnavailable = errors.New("requester is no longer online")
	ErrServiceClosed        = errors.New("request service is shut down")
	ErrActorNotFound        = errors.New("actor not found")
	ErrInvalidSettings      = errors.New("invalid settings")
	ErrInvalidRequest       = errors.New("invalid request")
)

type CooldownError struct {
	Remaining int
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s: %ds remaining", ErrCooldownActive, e.Remaining)
}

func (e *CooldownError) Is(target error) bool {
	return target == ErrCooldownActive
}

package application

import (
	"sort"
	"sync"

	"github.com/bnema/tpx/internal/domain"
	"github.com/bnema/tpx/internal/ports"
)

type registryEntry struct {
	request domain.PendingRequest
	timer   ports.Timer
}

// RequestRegistry holds at most one pending request per recipient together
// with the timer that expires it. The request and its timer are only ever
// mutated together under mu.
type RequestRegistry struct {
	mu      sync.Mutex
	entries map[domain.ActorID]registryEntry
}

func NewRequestRegistry() *RequestRegistry {
	return &RequestRegistry{entries: make(map[domain.ActorID]registryEntry)}
}

// Create registers req for its recipient. arm is invoked while the entry is
// being inserted and its timer is stored alongside the request. When a
// different requester already holds the recipient, policy decides between
// replacing that request (returned as replaced, its timer stopped) and
// failing with ErrRecipientBusy.
func (r *RequestRegistry) Create(req domain.PendingRequest, policy domain.ConflictPolicy, arm func() ports.Timer) (*domain.PendingRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var replaced *domain.PendingRequest
	if existing, ok := r.entries[req.Recipient]; ok {
		if existing.request.Requester == req.Requester {
			return nil, domain.ErrDuplicateRequest
		}
		if policy == domain.ConflictReject {
			return nil, domain.ErrRecipientBusy
		}

		stopTimer(existing.timer)
		previous := existing.request
		replaced = &previous
	}

	entry := registryEntry{request: req}
	if arm != nil {
		entry.timer = arm()
	}
	r.entries[req.Recipient] = entry

	return replaced, nil
}

func (r *RequestRegistry) Get(recipient domain.ActorID) (domain.PendingRequest, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[recipient]
	return entry.request, ok
}

func (r *RequestRegistry) Remove(recipient domain.ActorID) (domain.PendingRequest, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[recipient]
	if !ok {
		return domain.PendingRequest{}, false
	}

	delete(r.entries, recipient)
	stopTimer(entry.timer)

	return entry.request, true
}

// RemoveIf removes the recipient's entry only while it still holds the
// request identified by requestID.
func (r *RequestRegistry) RemoveIf(recipient domain.ActorID, requestID string) (domain.PendingRequest, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[recipient]
	if !ok || entry.request.ID != requestID {
		return domain.PendingRequest{}, false
	}

	delete(r.entries, recipient)
	stopTimer(entry.timer)

	return entry.request, true
}

func (r *RequestRegistry) ClearAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cleared := len(r.entries)
	for recipient, entry := range r.entries {
		stopTimer(entry.timer)
		delete(r.entries, recipient)
	}

	return cleared
}

func (r *RequestRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}

func (r *RequestRegistry) List() []domain.PendingRequest {
	r.mu.Lock()
	requests := make([]domain.PendingRequest, 0, len(r.entries))
	for _, entry := range r.entries {
		requests = append(requests, entry.request)
	}
	r.mu.Unlock()

	sort.Slice(requests, func(i, j int) bool {
		if requests[i].ExpiresAt.Equal(requests[j].ExpiresAt) {
			return requests[i].Recipient < requests[j].Recipient
		}
		return requests[i].ExpiresAt.Before(requests[j].ExpiresAt)
	})

	return requests
}

func stopTimer(timer ports.Timer) {
	if timer != nil {
		timer.Stop()
	}
}

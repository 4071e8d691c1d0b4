package application

import (
	"time"

	"github.com/bnema/tpx/internal/domain"
)

type RequestStatus struct {
	Request       domain.PendingRequest
	RequesterName string
	RecipientName string
}

type CooldownStatus struct {
	Cooldown
	ActorName string
}

type Snapshot struct {
	Now                time.Time
	Requests           []RequestStatus
	Cooldowns          []CooldownStatus
	TeleportsScheduled int
}

func (s *RequestService) Snapshot() Snapshot {
	requests := s.registry.List()
	statuses := make([]RequestStatus, 0, len(requests))
	for _, req := range requests {
		statuses = append(statuses, RequestStatus{
			Request:       req,
			RequesterName: req.RequesterDisplayName(),
			RecipientName: req.RecipientDisplayName(),
		})
	}

	active := s.cooldowns.Active()
	cooldowns := make([]CooldownStatus, 0, len(active))
	for _, c := range active {
		cooldowns = append(cooldowns, CooldownStatus{Cooldown: c, ActorName: s.displayName(c.Actor)})
	}

	return Snapshot{
		Now:                s.opts.clock.Now(),
		Requests:           statuses,
		Cooldowns:          cooldowns,
		TeleportsScheduled: s.runner.Active(),
	}
}

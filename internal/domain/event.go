package domain

import "time"

type EventType string

const (
	EventRequestSent       EventType = "request.sent"
	EventRequestReplaced   EventType = "request.replaced"
	EventRequestAccepted   EventType = "request.accepted"
	EventRequestRejected   EventType = "request.rejected"
	EventRequestExpired    EventType = "request.expired"
	EventRequestAbandoned  EventType = "request.abandoned"
	EventTeleportCompleted EventType = "teleport.completed"
	EventTeleportDropped   EventType = "teleport.dropped"
)

type Event struct {
	Type      EventType `json:"type"`
	RequestID string    `json:"request_id,omitempty"`
	Requester ActorID   `json:"requester,omitempty"`
	Recipient ActorID   `json:"recipient,omitempty"`
	At        time.Time `json:"at"`
	Detail    string    `json:"detail,omitempty"`
}

func RequestEvent(t EventType, req PendingRequest, at time.Time) Event {
	return Event{
		Type:      t,
		RequestID: req.ID,
		Requester: req.Requester,
		Recipient: req.Recipient,
		At:        at,
	}
}

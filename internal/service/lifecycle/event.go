package lifecycle

import (
	"strings"

	"courierflow/internal/domain"
)

// EventType names an inbound lifecycle command.
type EventType string

const (
	EventPickup  EventType = "PICKUP"
	EventDepart  EventType = "DEPART"
	EventDeliver EventType = "DELIVER"
	EventCancel  EventType = "CANCEL"
	EventReturn  EventType = "RETURN"
)

var eventTargets = map[EventType]domain.DeliveryState{
	EventPickup:  domain.StatePickedUp,
	EventDepart:  domain.StateInTransit,
	EventDeliver: domain.StateDelivered,
	EventCancel:  domain.StateCancelled,
	EventReturn:  domain.StateReturned,
}

// Valid reports whether the event type is one of the known commands.
func (e EventType) Valid() bool {
	_, ok := eventTargets[e]
	return ok
}

// Target returns the delivery state the event drives toward.
func (e EventType) Target() (domain.DeliveryState, bool) {
	s, ok := eventTargets[e]
	return s, ok
}

// Event is a lifecycle command with its optional payload. Proof fields are
// consulted only for DELIVER, Reason only for CANCEL and RETURN.
type Event struct {
	Type          EventType
	Reason        string
	RecipientName string
	Signature     string
	PhotoProof    string
	// ByAuthor marks a CANCEL issued by the request author; the request is
	// closed instead of reopened for other couriers.
	ByAuthor bool
}

func (e Event) hasProof() bool {
	return strings.TrimSpace(e.RecipientName) != "" &&
		(strings.TrimSpace(e.Signature) != "" || strings.TrimSpace(e.PhotoProof) != "")
}

package domain

import (
	"time"

	"courierflow/internal/types"
)

// Delivery - the stateful record of one claimed request's fulfilment progress.
// Created exclusively by a successful claim; mutated only through lifecycle
// transitions, each of which increments Version.
type Delivery struct {
	ID          string
	RequestID   string
	CourierID   string
	State       DeliveryState
	Version     int64
	CreatedAt   time.Time
	ScheduledAt time.Time
	CancelledAt *time.Time
	Fee         *types.Money
}

// Terminal reports whether the delivery has reached an immutable state.
func (d *Delivery) Terminal() bool {
	return d.State.Terminal()
}

// TrackingEvent is an immutable, timestamped log entry describing one
// delivery state change. Events are append-only; corrections are modelled as
// new events.
type TrackingEvent struct {
	ID             string
	DeliveryID     string
	Status         DeliveryState
	PreviousStatus DeliveryState
	Description    string
	RecordedAt     time.Time
}

// CancellationOutcome is the fee/refund computation persisted alongside a
// cancelled delivery's terminal record. The payment subsystem consumes it;
// this core never moves money itself.
type CancellationOutcome struct {
	DeliveryID  string
	Fee         types.Money
	FeeBasisPct int
	Refund      types.Money
	ComputedAt  time.Time
}

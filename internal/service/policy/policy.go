// Package policy computes cancellation fees and refund splits. It is pure:
// the clock is an argument, never read, so the schedule can be table-tested
// independent of the state machine's persistence concerns.
package policy

import (
	"time"

	"courierflow/internal/domain"
	"courierflow/internal/types"
)

// Schedule is the fee policy. Percentages are configuration, not hard
// business truth.
type Schedule struct {
	// LateThreshold separates free cancellation from the late fee while
	// the delivery is still ASSIGNED.
	LateThreshold    time.Duration
	EarlyFeePct      int
	LateFeePct       int
	InProgressFeePct int
}

// DefaultSchedule returns the canonical fee schedule: free more than 24h
// ahead, 25% inside 24h, 50% once work started.
func DefaultSchedule() Schedule {
	return Schedule{
		LateThreshold:    24 * time.Hour,
		EarlyFeePct:      0,
		LateFeePct:       25,
		InProgressFeePct: 50,
	}
}

// Outcome is the computed fee/refund split.
type Outcome struct {
	Fee         types.Money
	FeeBasisPct int
	Refund      types.Money
}

// ComputeFee returns the cancellation fee owed for a delivery in the given
// state, cancelled at now against its scheduled time, and the refund due to
// the requester. Deterministic given its inputs.
func ComputeFee(sch Schedule, state domain.DeliveryState, scheduledAt, now time.Time, price types.Money) Outcome {
	pct := sch.InProgressFeePct
	if state == domain.StateAssigned {
		if scheduledAt.Sub(now) >= sch.LateThreshold {
			pct = sch.EarlyFeePct
		} else {
			pct = sch.LateFeePct
		}
	}

	fee := price.Percent(pct)
	return Outcome{
		Fee:         fee,
		FeeBasisPct: pct,
		Refund:      price.Sub(fee),
	}
}

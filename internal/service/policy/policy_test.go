package policy_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"courierflow/internal/domain"
	"courierflow/internal/service/policy"
	"courierflow/internal/types"
)

func TestComputeFee_Schedule(t *testing.T) {
	t.Parallel()

	sch := policy.DefaultSchedule()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	price := types.Money(10_000) // 100.00

	tests := []struct {
		name        string
		state       domain.DeliveryState
		scheduledAt time.Time
		wantFee     types.Money
		wantPct     int
		wantRefund  types.Money
	}{
		{
			name:        "assigned more than 24h ahead is free",
			state:       domain.StateAssigned,
			scheduledAt: now.Add(48 * time.Hour),
			wantFee:     0,
			wantPct:     0,
			wantRefund:  10_000,
		},
		{
			name:        "assigned exactly at the threshold is free",
			state:       domain.StateAssigned,
			scheduledAt: now.Add(24 * time.Hour),
			wantFee:     0,
			wantPct:     0,
			wantRefund:  10_000,
		},
		{
			name:        "assigned inside 24h charges 25%",
			state:       domain.StateAssigned,
			scheduledAt: now.Add(6 * time.Hour),
			wantFee:     2_500,
			wantPct:     25,
			wantRefund:  7_500,
		},
		{
			name:        "picked up charges 50%",
			state:       domain.StatePickedUp,
			scheduledAt: now.Add(48 * time.Hour),
			wantFee:     5_000,
			wantPct:     50,
			wantRefund:  5_000,
		},
		{
			name:        "in transit charges 50%",
			state:       domain.StateInTransit,
			scheduledAt: now.Add(time.Hour),
			wantFee:     5_000,
			wantPct:     50,
			wantRefund:  5_000,
		},
		{
			name:        "already past scheduled time still counts as late",
			state:       domain.StateAssigned,
			scheduledAt: now.Add(-time.Hour),
			wantFee:     2_500,
			wantPct:     25,
			wantRefund:  7_500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := policy.ComputeFee(sch, tt.state, tt.scheduledAt, now, price)
			require.Equal(t, tt.wantFee, got.Fee)
			require.Equal(t, tt.wantPct, got.FeeBasisPct)
			require.Equal(t, tt.wantRefund, got.Refund)
		})
	}
}

func TestComputeFee_RefundNeverNegative(t *testing.T) {
	t.Parallel()

	sch := policy.Schedule{LateThreshold: 24 * time.Hour, InProgressFeePct: 100}
	now := time.Now()

	got := policy.ComputeFee(sch, domain.StateInTransit, now, now, types.Money(999))
	require.Equal(t, types.Money(999), got.Fee)
	require.Equal(t, types.Money(0), got.Refund)
}

func TestComputeFee_Deterministic(t *testing.T) {
	t.Parallel()

	sch := policy.DefaultSchedule()
	scheduled := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	now := scheduled.Add(-3 * time.Hour)

	a := policy.ComputeFee(sch, domain.StateAssigned, scheduled, now, 4_200)
	b := policy.ComputeFee(sch, domain.StateAssigned, scheduled, now, 4_200)
	require.Equal(t, a, b)
}

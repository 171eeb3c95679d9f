//go:build integration

package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"courierflow/internal/apperr"
	"courierflow/internal/domain"
	"courierflow/internal/ports/enginetx"
	"courierflow/internal/repository"
	"courierflow/internal/types"
)

type DeliveryRepositorySuite struct {
	suite.Suite
	pool *pgxpool.Pool
	repo *repository.EngineRepo
}

func (s *DeliveryRepositorySuite) SetupSuite() {
	s.Require().NotNil(tcPool, "tcPool must be initialized in TestMain")

	s.pool = tcPool
	s.repo = repository.NewEngineRepo(tcPool)
}

func (s *DeliveryRepositorySuite) SetupTest() {
	ctx := context.Background()
	_, err := s.pool.Exec(ctx, `TRUNCATE delivery_request CASCADE`)
	s.Require().NoError(err)
}

func (s *DeliveryRepositorySuite) seedClaimedRequest(id string) {
	ctx := context.Background()
	req := makeRequest(id, openWindow(time.Now().UTC()))
	s.Require().NoError(s.repo.InsertRequest(ctx, req))

	err := s.repo.WithTx(ctx, func(tx enginetx.Repository) error {
		claimed, err := tx.MarkRequestClaimed(ctx, id, time.Now().UTC())
		s.Require().NoError(err)
		s.Require().True(claimed)
		return nil
	})
	s.Require().NoError(err)
}

func (s *DeliveryRepositorySuite) insertDelivery(id, requestID string) *domain.Delivery {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	d := &domain.Delivery{
		ID:          id,
		RequestID:   requestID,
		CourierID:   "courier-1",
		State:       domain.StateAssigned,
		Version:     1,
		CreatedAt:   now,
		ScheduledAt: now.Add(time.Hour),
	}
	err := s.repo.WithTx(ctx, func(tx enginetx.Repository) error {
		return tx.InsertDelivery(ctx, d)
	})
	s.Require().NoError(err)
	return d
}

func (s *DeliveryRepositorySuite) TestMarkRequestClaimed_OnlyOnce() {
	ctx := context.Background()
	req := makeRequest("req-1", openWindow(time.Now().UTC()))
	s.Require().NoError(s.repo.InsertRequest(ctx, req))

	err := s.repo.WithTx(ctx, func(tx enginetx.Repository) error {
		claimed, err := tx.MarkRequestClaimed(ctx, "req-1", time.Now().UTC())
		s.Require().NoError(err)
		s.True(claimed)

		claimed, err = tx.MarkRequestClaimed(ctx, "req-1", time.Now().UTC())
		s.Require().NoError(err)
		s.False(claimed, "second claim must lose")
		return nil
	})
	s.Require().NoError(err)
}

func (s *DeliveryRepositorySuite) TestMarkRequestClaimed_PastWindowNeverClaims() {
	ctx := context.Background()
	now := time.Now().UTC()
	req := makeRequest("req-past", domain.TimeWindow{
		Earliest: now.Add(-4 * time.Hour),
		Latest:   now.Add(-time.Hour),
	})
	s.Require().NoError(s.repo.InsertRequest(ctx, req))

	err := s.repo.WithTx(ctx, func(tx enginetx.Repository) error {
		claimed, err := tx.MarkRequestClaimed(ctx, "req-past", now)
		s.Require().NoError(err)
		s.False(claimed)
		return nil
	})
	s.Require().NoError(err)
}

func (s *DeliveryRepositorySuite) TestInsertDeliveryAndGet() {
	ctx := context.Background()
	s.seedClaimedRequest("req-1")

	d := s.insertDelivery("del-1", "req-1")

	got, err := s.repo.GetDelivery(ctx, "del-1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(d.ID, got.ID)
	s.Equal("req-1", got.RequestID)
	s.Equal("courier-1", got.CourierID)
	s.Equal(domain.StateAssigned, got.State)
	s.Equal(int64(1), got.Version)
	s.Nil(got.CancelledAt)
	s.Nil(got.Fee)
}

func (s *DeliveryRepositorySuite) TestInsertDelivery_DuplicateIsConflict() {
	ctx := context.Background()
	s.seedClaimedRequest("req-1")
	d := s.insertDelivery("del-1", "req-1")

	err := s.repo.WithTx(ctx, func(tx enginetx.Repository) error {
		return tx.InsertDelivery(ctx, d)
	})
	s.Require().ErrorIs(err, apperr.ErrConflict)
}

func (s *DeliveryRepositorySuite) TestInsertCancellationOutcome_DuplicateIsConflict() {
	ctx := context.Background()
	s.seedClaimedRequest("req-1")
	s.insertDelivery("del-1", "req-1")

	outcome := &domain.CancellationOutcome{
		DeliveryID:  "del-1",
		Fee:         types.Money(2_500),
		FeeBasisPct: 25,
		Refund:      types.Money(7_500),
		ComputedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}
	err := s.repo.WithTx(ctx, func(tx enginetx.Repository) error {
		return tx.InsertCancellationOutcome(ctx, outcome)
	})
	s.Require().NoError(err)

	err = s.repo.WithTx(ctx, func(tx enginetx.Repository) error {
		return tx.InsertCancellationOutcome(ctx, outcome)
	})
	s.Require().ErrorIs(err, apperr.ErrConflict)
}

func (s *DeliveryRepositorySuite) TestApplyDeliveryTransition_CAS() {
	ctx := context.Background()
	s.seedClaimedRequest("req-1")
	s.insertDelivery("del-1", "req-1")

	err := s.repo.WithTx(ctx, func(tx enginetx.Repository) error {
		d, err := tx.GetDeliveryForUpdate(ctx, "del-1")
		s.Require().NoError(err)
		s.Require().NotNil(d)

		d.State = domain.StatePickedUp
		applied, err := tx.ApplyDeliveryTransition(ctx, d, 1)
		s.Require().NoError(err)
		s.True(applied)
		s.Equal(int64(2), d.Version)

		// stale expected version must not apply
		d.State = domain.StateInTransit
		applied, err = tx.ApplyDeliveryTransition(ctx, d, 1)
		s.Require().NoError(err)
		s.False(applied)
		return nil
	})
	s.Require().NoError(err)

	got, err := s.repo.GetDelivery(ctx, "del-1")
	s.Require().NoError(err)
	s.Equal(domain.StatePickedUp, got.State)
	s.Equal(int64(2), got.Version)
}

func (s *DeliveryRepositorySuite) TestApplyDeliveryTransition_PersistsCancellationFields() {
	ctx := context.Background()
	s.seedClaimedRequest("req-1")
	s.insertDelivery("del-1", "req-1")

	cancelledAt := time.Now().UTC().Truncate(time.Microsecond)
	fee := types.Money(1_250)

	err := s.repo.WithTx(ctx, func(tx enginetx.Repository) error {
		d, err := tx.GetDeliveryForUpdate(ctx, "del-1")
		s.Require().NoError(err)

		d.State = domain.StateCancelled
		d.CancelledAt = &cancelledAt
		d.Fee = &fee
		applied, err := tx.ApplyDeliveryTransition(ctx, d, 1)
		s.Require().NoError(err)
		s.True(applied)
		return nil
	})
	s.Require().NoError(err)

	got, err := s.repo.GetDelivery(ctx, "del-1")
	s.Require().NoError(err)
	s.Equal(domain.StateCancelled, got.State)
	s.Require().NotNil(got.CancelledAt)
	s.True(got.CancelledAt.Equal(cancelledAt))
	s.Require().NotNil(got.Fee)
	s.Equal(fee, *got.Fee)
}

func (s *DeliveryRepositorySuite) TestAppendAndListTrackingEvents() {
	ctx := context.Background()
	s.seedClaimedRequest("req-1")
	s.insertDelivery("del-1", "req-1")

	base := time.Now().UTC().Truncate(time.Microsecond)
	states := []domain.DeliveryState{
		domain.StateAssigned,
		domain.StatePickedUp,
		domain.StateInTransit,
	}

	err := s.repo.WithTx(ctx, func(tx enginetx.Repository) error {
		prev := domain.DeliveryState("")
		for i, state := range states {
			ev := &domain.TrackingEvent{
				ID:             uuid.NewString(),
				DeliveryID:     "del-1",
				Status:         state,
				PreviousStatus: prev,
				Description:    "step",
				RecordedAt:     base.Add(time.Duration(i) * time.Second),
			}
			if err := tx.AppendTrackingEvent(ctx, ev); err != nil {
				return err
			}
			prev = state
		}
		return nil
	})
	s.Require().NoError(err)

	events, err := s.repo.ListTrackingEvents(ctx, "del-1")
	s.Require().NoError(err)
	s.Require().Len(events, 3)
	for i, state := range states {
		s.Equal(state, events[i].Status)
	}
	s.Equal(domain.StatePickedUp, events[2].PreviousStatus)
}

func (s *DeliveryRepositorySuite) TestCancellationOutcomeRoundTrip() {
	ctx := context.Background()
	s.seedClaimedRequest("req-1")
	s.insertDelivery("del-1", "req-1")

	computedAt := time.Now().UTC().Truncate(time.Microsecond)

	err := s.repo.WithTx(ctx, func(tx enginetx.Repository) error {
		return tx.InsertCancellationOutcome(ctx, &domain.CancellationOutcome{
			DeliveryID:  "del-1",
			Fee:         types.Money(2_500),
			FeeBasisPct: 25,
			Refund:      types.Money(7_500),
			ComputedAt:  computedAt,
		})
	})
	s.Require().NoError(err)

	got, err := s.repo.GetCancellationOutcome(ctx, "del-1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(types.Money(2_500), got.Fee)
	s.Equal(25, got.FeeBasisPct)
	s.Equal(types.Money(7_500), got.Refund)
	s.True(got.ComputedAt.Equal(computedAt))
}

func (s *DeliveryRepositorySuite) TestGetCancellationOutcome_AbsentReturnsNil() {
	got, err := s.repo.GetCancellationOutcome(context.Background(), "missing")
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *DeliveryRepositorySuite) TestReopenRequest_BumpsEpoch() {
	ctx := context.Background()
	s.seedClaimedRequest("req-1")

	err := s.repo.WithTx(ctx, func(tx enginetx.Repository) error {
		return tx.ReopenRequest(ctx, "req-1")
	})
	s.Require().NoError(err)

	got, err := s.repo.GetRequest(ctx, "req-1")
	s.Require().NoError(err)
	s.Equal(domain.RequestOpen, got.Status)
	s.Equal(2, got.Epoch)
}

func (s *DeliveryRepositorySuite) TestWithTx_RollsBackOnError() {
	ctx := context.Background()
	s.seedClaimedRequest("req-1")

	sentinel := errors.New("abort")
	err := s.repo.WithTx(ctx, func(tx enginetx.Repository) error {
		now := time.Now().UTC()
		if err := tx.InsertDelivery(ctx, &domain.Delivery{
			ID:          "del-rollback",
			RequestID:   "req-1",
			CourierID:   "courier-1",
			State:       domain.StateAssigned,
			Version:     1,
			CreatedAt:   now,
			ScheduledAt: now.Add(time.Hour),
		}); err != nil {
			return err
		}
		return sentinel
	})
	s.Require().ErrorIs(err, sentinel)

	got, err := s.repo.GetDelivery(ctx, "del-rollback")
	s.Require().NoError(err)
	s.Nil(got, "rolled back insert must not be visible")
}

func TestDeliveryRepositorySuite(t *testing.T) {
	suite.Run(t, new(DeliveryRepositorySuite))
}

package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"courierflow/internal/apperr"
	"courierflow/internal/domain"
	"courierflow/internal/logx"
	"courierflow/internal/ports/enginetx"
	"courierflow/internal/service/policy"
)

// Service drives deliveries through their state machine. Every transition is
// guarded by an optimistic version check and recorded as a tracking event in
// the same transaction.
type Service struct {
	repo             TxRunner
	notifier         Notifier
	schedule         policy.Schedule
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
	newID            func() string
	transitions      counter
}

func NewService(repo TxRunner, notifier Notifier, schedule policy.Schedule, operationTimeout time.Duration, logger logx.Logger) *Service {
	return &Service{
		repo:             repo,
		notifier:         notifier,
		schedule:         schedule,
		operationTimeout: operationTimeout,
		logger:           logger,
		now:              time.Now,
		newID:            uuid.NewString,
		transitions:      nopCounter{},
	}
}

// WithCounter wires the transitions counter. Without it the service counts
// into the void.
func (s *Service) WithCounter(transitions counter) *Service {
	s.transitions = transitions
	return s
}

// Transition applies one lifecycle event to a delivery. expectedVersion must
// match the version the caller last observed; a mismatch leaves the delivery
// untouched and reports a conflict so the caller can re-read and retry.
func (s *Service) Transition(ctx context.Context, deliveryID string, expectedVersion int64, event Event) (*domain.Delivery, error) {
	deliveryID = strings.TrimSpace(deliveryID)
	if deliveryID == "" {
		return nil, fmt.Errorf("%w: empty delivery id", apperr.ErrInvalid)
	}
	target, ok := event.Type.Target()
	if !ok {
		return nil, fmt.Errorf("%w: unknown event type %q", apperr.ErrInvalid, event.Type)
	}

	ctx, cancel := context.WithTimeout(ctx, s.operationTimeout)
	defer cancel()

	var (
		updated   domain.Delivery
		recorded  *domain.TrackingEvent
		requestID string
	)
	err := s.repo.WithTx(ctx, func(tx enginetx.Repository) error {
		d, err := tx.GetDeliveryForUpdate(ctx, deliveryID)
		if err != nil {
			return fmt.Errorf("get delivery: %w", err)
		}
		if d == nil {
			return apperr.ErrDeliveryNotFound
		}
		if d.Version != expectedVersion {
			return fmt.Errorf("%w: delivery %s is at version %d", apperr.ErrStaleVersion, d.ID, d.Version)
		}
		if !d.State.CanTransition(target) {
			return fmt.Errorf("%w: %s -> %s", apperr.ErrInvalidTransition, d.State, target)
		}
		if err := validatePayload(d.State, event); err != nil {
			return err
		}

		now := s.now().UTC()
		prev := d.State
		updated = *d
		updated.State = target
		if event.Type == EventCancel {
			updated.CancelledAt = &now
		}

		if event.Type == EventCancel {
			req, err := tx.GetRequestForUpdate(ctx, d.RequestID)
			if err != nil {
				return fmt.Errorf("get request: %w", err)
			}
			if req == nil {
				return apperr.ErrRequestNotFound
			}
			outcome := policy.ComputeFee(s.schedule, prev, d.ScheduledAt, now, req.Price)
			fee := outcome.Fee
			updated.Fee = &fee
			if err := tx.InsertCancellationOutcome(ctx, &domain.CancellationOutcome{
				DeliveryID:  d.ID,
				Fee:         outcome.Fee,
				FeeBasisPct: outcome.FeeBasisPct,
				Refund:      outcome.Refund,
				ComputedAt:  now,
			}); err != nil {
				return fmt.Errorf("insert cancellation outcome: %w", err)
			}
		}

		applied, err := tx.ApplyDeliveryTransition(ctx, &updated, expectedVersion)
		if err != nil {
			return fmt.Errorf("apply transition: %w", err)
		}
		if !applied {
			return fmt.Errorf("%w: delivery %s was updated concurrently", apperr.ErrStaleVersion, d.ID)
		}

		ev := &domain.TrackingEvent{
			ID:             s.newID(),
			DeliveryID:     d.ID,
			Status:         target,
			PreviousStatus: prev,
			Description:    description(event),
			RecordedAt:     now,
		}
		if err := tx.AppendTrackingEvent(ctx, ev); err != nil {
			return fmt.Errorf("append tracking event: %w", err)
		}

		if err := s.applyRequestEffect(ctx, tx, d.RequestID, event); err != nil {
			return err
		}

		recorded = ev
		requestID = d.RequestID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.transitions.Inc()
	if recorded != nil {
		s.publish(ctx, *recorded)
	}
	s.logger.Info("delivery transitioned",
		logx.String("delivery_id", updated.ID),
		logx.String("request_id", requestID),
		logx.String("state", string(updated.State)),
		logx.Int64("version", updated.Version),
	)
	return &updated, nil
}

// applyRequestEffect keeps the parent request in step with its delivery.
func (s *Service) applyRequestEffect(ctx context.Context, tx enginetx.Repository, requestID string, event Event) error {
	switch event.Type {
	case EventPickup:
		if err := tx.SetRequestStatus(ctx, requestID, domain.RequestInProgress); err != nil {
			return fmt.Errorf("set request status: %w", err)
		}
	case EventDeliver:
		if err := tx.SetRequestStatus(ctx, requestID, domain.RequestFulfilled); err != nil {
			return fmt.Errorf("set request status: %w", err)
		}
	case EventCancel:
		if event.ByAuthor {
			if err := tx.SetRequestStatus(ctx, requestID, domain.RequestCancelled); err != nil {
				return fmt.Errorf("set request status: %w", err)
			}
			return nil
		}
		if err := tx.ReopenRequest(ctx, requestID); err != nil {
			return fmt.Errorf("reopen request: %w", err)
		}
	case EventReturn:
		if err := tx.ReopenRequest(ctx, requestID); err != nil {
			return fmt.Errorf("reopen request: %w", err)
		}
	}
	return nil
}

func (s *Service) publish(ctx context.Context, ev domain.TrackingEvent) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishTrackingEvent(ctx, ev); err != nil {
		s.logger.Warn("tracking event publish failed",
			logx.String("delivery_id", ev.DeliveryID),
			logx.Err(err),
		)
	}
}

func validatePayload(prev domain.DeliveryState, event Event) error {
	switch event.Type {
	case EventDeliver:
		if !event.hasProof() {
			return fmt.Errorf("%w: delivery proof requires recipient name and a signature or photo", apperr.ErrMissingProof)
		}
	case EventCancel:
		// an abort mid-route is exceptional and must say why
		if prev == domain.StateInTransit && strings.TrimSpace(event.Reason) == "" {
			return fmt.Errorf("%w: cancelling in transit requires a reason", apperr.ErrInvalid)
		}
	case EventReturn:
		if strings.TrimSpace(event.Reason) == "" {
			return fmt.Errorf("%w: return requires a reason", apperr.ErrInvalid)
		}
	}
	return nil
}

func description(event Event) string {
	if r := strings.TrimSpace(event.Reason); r != "" {
		return r
	}
	switch event.Type {
	case EventPickup:
		return "package picked up"
	case EventDepart:
		return "courier en route to dropoff"
	case EventDeliver:
		return "delivered to " + event.RecipientName
	case EventCancel:
		return "delivery cancelled"
	case EventReturn:
		return "package returned"
	default:
		return ""
	}
}

type nopCounter struct{}

func (nopCounter) Inc() {}

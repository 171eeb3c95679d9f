package assignment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"courierflow/internal/apperr"
	"courierflow/internal/domain"
	"courierflow/internal/logx"
	"courierflow/internal/ports/enginetx"
)

// Service is the assignment ledger: the single writer of the
// OPEN→CLAIMED transition. Claims are linearizable per request; when two
// race, exactly one succeeds and the other observes a conflict.
type Service struct {
	repo             TxRunner
	notifier         Notifier
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
	newID            func() string

	claims    counter
	conflicts counter
}

// NewService creates an assignment Service.
func NewService(repo TxRunner, notifier Notifier, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{
		repo:             repo,
		notifier:         notifier,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
		newID:            uuid.NewString,
	}
}

// WithCounters attaches claim metrics. Either counter may be nil.
func (s *Service) WithCounters(claims, conflicts counter) *Service {
	s.claims = claims
	s.conflicts = conflicts
	return s
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Claim atomically binds the courier to an open request, creating the
// delivery at version 1 together with its first tracking event. Expired or
// past-window requests are treated as never open.
func (s *Service) Claim(ctx context.Context, requestID, courierID string) (*domain.Delivery, error) {
	requestID = strings.TrimSpace(requestID)
	courierID = strings.TrimSpace(courierID)
	if requestID == "" || courierID == "" {
		return nil, apperr.ErrInvalid
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	now := s.now()
	var (
		created domain.Delivery
		first   domain.TrackingEvent
	)

	err := s.repo.WithTx(ctx, func(tx enginetx.Repository) error {
		req, err := tx.GetRequestForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return apperr.ErrRequestNotFound
		}
		if req.AuthorID == courierID {
			return apperr.ErrInvalid
		}
		if !req.Claimable(now) {
			return apperr.ErrAlreadyClaimed
		}

		ok, err := tx.MarkRequestClaimed(ctx, requestID, now)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.ErrAlreadyClaimed
		}

		created = domain.Delivery{
			ID:          s.newID(),
			RequestID:   requestID,
			CourierID:   courierID,
			State:       domain.StateAssigned,
			Version:     1,
			CreatedAt:   now,
			ScheduledAt: req.Window.Earliest,
		}
		if err := tx.InsertDelivery(ctx, &created); err != nil {
			return err
		}

		first = domain.TrackingEvent{
			ID:          s.newID(),
			DeliveryID:  created.ID,
			Status:      domain.StateAssigned,
			Description: "courier assigned",
			RecordedAt:  now,
		}
		return tx.AppendTrackingEvent(ctx, &first)
	})
	if err != nil {
		if s.conflicts != nil && errors.Is(err, apperr.ErrConflict) {
			s.conflicts.Inc()
		}
		return nil, err
	}

	if s.claims != nil {
		s.claims.Inc()
	}
	s.publish(ctx, first)

	s.logger.Info("request claimed",
		logx.String("event", "request_claimed"),
		logx.String("request_id", requestID),
		logx.String("courier_id", courierID),
		logx.String("delivery_id", created.ID),
	)

	return &created, nil
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

package tracking

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
)

// Service exposes the append-only tracking log. State changes append their
// own events inside the claim and transition flows; this service covers
// free-form progress notes and the read side.
type Service struct {
	store            EventStore
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
	newID            func() string
}

func NewService(store EventStore, operationTimeout time.Duration, logger logx.Logger) *Service {
	return &Service{
		store:            store,
		operationTimeout: operationTimeout,
		logger:           logger,
		now:              time.Now,
		newID:            uuid.NewString,
	}
}

// Append records a progress note against a delivery. The event carries the
// delivery's current state; it never changes that state.
func (s *Service) Append(ctx context.Context, deliveryID, note string) (*domain.TrackingEvent, error) {
	deliveryID = strings.TrimSpace(deliveryID)
	note = strings.TrimSpace(note)
	if deliveryID == "" {
		return nil, fmt.Errorf("%w: empty delivery id", apperr.ErrInvalid)
	}
	if note == "" {
		return nil, fmt.Errorf("%w: empty note", apperr.ErrInvalid)
	}

	ctx, cancel := context.WithTimeout(ctx, s.operationTimeout)
	defer cancel()

	var ev *domain.TrackingEvent
	err := s.store.WithTx(ctx, func(tx enginetx.Repository) error {
		d, err := tx.GetDeliveryForUpdate(ctx, deliveryID)
		if err != nil {
			return fmt.Errorf("get delivery: %w", err)
		}
		if d == nil {
			return apperr.ErrDeliveryNotFound
		}

		ev = &domain.TrackingEvent{
			ID:             s.newID(),
			DeliveryID:     d.ID,
			Status:         d.State,
			PreviousStatus: d.State,
			Description:    note,
			RecordedAt:     s.now().UTC(),
		}
		if err := tx.AppendTrackingEvent(ctx, ev); err != nil {
			return fmt.Errorf("append tracking event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("tracking note appended",
		logx.String("delivery_id", deliveryID),
		logx.String("event_id", ev.ID),
	)
	return ev, nil
}

// ListFor returns the full event history of a delivery in recording order.
// The returned slice is an independent copy; callers may range over it as
// many times as they like.
func (s *Service) ListFor(ctx context.Context, deliveryID string) ([]domain.TrackingEvent, error) {
	deliveryID = strings.TrimSpace(deliveryID)
	if deliveryID == "" {
		return nil, fmt.Errorf("%w: empty delivery id", apperr.ErrInvalid)
	}

	ctx, cancel := context.WithTimeout(ctx, s.operationTimeout)
	defer cancel()

	d, err := s.store.GetDelivery(ctx, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("get delivery: %w", err)
	}
	if d == nil {
		return nil, apperr.ErrDeliveryNotFound
	}

	events, err := s.store.ListTrackingEvents(ctx, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("list tracking events: %w", err)
	}
	return events, nil
}

package announce

import (
	"context"
	"fmt"
	"time"

	"courierflow/internal/apperr"
	"courierflow/internal/domain"
	"courierflow/internal/logx"
	"courierflow/internal/types"
)

// Processor processes announcement events from the marketplace feed,
// materialising OPEN requests the matching engine can serve.
type Processor struct {
	store   RequestStore
	logger  logx.Logger
	factory *actionFactory
	now     func() time.Time
}

// NewProcessor creates a new announce.Processor.
func NewProcessor(store RequestStore, logger logx.Logger) *Processor {
	p := &Processor{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	p.factory = newActionFactory(p.onPublished, p.onCancelled)
	return p
}

// Handle processes a single announcement event. Events with unknown statuses
// are skipped.
func (p *Processor) Handle(ctx context.Context, e Event) error {
	if p.factory == nil {
		return nil
	}
	fn, ok := p.factory.get(e.Status)
	if !ok {
		p.logger.Debug("announcement status skipped",
			logx.String("request_id", e.RequestID),
			logx.String("status", e.Status),
		)
		return nil
	}
	return fn(ctx, e)
}

func (p *Processor) onPublished(ctx context.Context, e Event) error {
	req, err := requestFromEvent(e, p.now().UTC())
	if err != nil {
		return err
	}
	if err := p.store.InsertRequest(ctx, req); err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	p.logger.Info("request ingested",
		logx.String("request_id", req.ID),
		logx.String("service_type", req.ServiceType),
	)
	return nil
}

func (p *Processor) onCancelled(ctx context.Context, e Event) error {
	cancelled, err := p.store.CancelRequestByAuthor(ctx, e.RequestID)
	if err != nil {
		return fmt.Errorf("cancel request: %w", err)
	}
	// Already claimed, expired or never seen. The courier-facing cancel path
	// owns those; nothing to do here.
	if !cancelled {
		p.logger.Debug("cancellation skipped", logx.String("request_id", e.RequestID))
	}
	return nil
}

func requestFromEvent(e Event, now time.Time) (*domain.DeliveryRequest, error) {
	if e.RequestID == "" || e.AuthorID == "" {
		return nil, fmt.Errorf("%w: announcement missing ids", apperr.ErrInvalid)
	}
	w := domain.TimeWindow{Earliest: e.WindowEarliest, Latest: e.WindowLatest}
	if !w.Valid() {
		return nil, fmt.Errorf("%w: announcement window is inverted or empty", apperr.ErrInvalid)
	}
	if e.PriceCents < 0 {
		return nil, fmt.Errorf("%w: negative price", apperr.ErrInvalid)
	}
	return &domain.DeliveryRequest{
		ID:          e.RequestID,
		AuthorID:    e.AuthorID,
		Pickup:      domain.Coordinate{Lat: e.PickupLat, Lng: e.PickupLng},
		Dropoff:     domain.Coordinate{Lat: e.DropoffLat, Lng: e.DropoffLng},
		Window:      w,
		Price:       types.Money(e.PriceCents),
		ServiceType: e.ServiceType,
		Status:      domain.RequestOpen,
		Epoch:       1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

package tracking

//go:generate mockgen -source=contracts.go -destination=tracking_mocks_test.go -package=tracking_test

import (
	"context"

	"courierflow/internal/domain"
	"courierflow/internal/ports/enginetx"
)

// EventStore is the slice of the storage layer the tracking log needs: the
// transactional append path plus the read side.
type EventStore interface {
	WithTx(ctx context.Context, fn func(tx enginetx.Repository) error) error
	GetDelivery(ctx context.Context, id string) (*domain.Delivery, error)
	ListTrackingEvents(ctx context.Context, deliveryID string) ([]domain.TrackingEvent, error)
}

package enginetx

import (
	"context"
	"time"

	"courierflow/internal/domain"
)

// Repository is the transactional view used by claim and lifecycle
// transitions. Every mutation of DeliveryRequest.Status and
// Delivery.State/Version in the system goes through these methods inside a
// single transaction; no other writer exists.
type Repository interface {
	// GetRequestForUpdate loads a request and locks it for the duration of
	// the transaction. Returns nil when the request does not exist.
	GetRequestForUpdate(ctx context.Context, id string) (*domain.DeliveryRequest, error)

	// MarkRequestClaimed performs the conditional OPEN→CLAIMED transition.
	// Returns false when the request was not open (or past its window) at
	// the moment of the update.
	MarkRequestClaimed(ctx context.Context, id string, now time.Time) (bool, error)

	// SetRequestStatus overwrites the request status.
	SetRequestStatus(ctx context.Context, id string, status domain.RequestStatus) error

	// ReopenRequest returns a request to the open pool and starts a new
	// assignment epoch.
	ReopenRequest(ctx context.Context, id string) error

	// InsertDelivery persists a freshly created delivery.
	InsertDelivery(ctx context.Context, d *domain.Delivery) error

	// GetDeliveryForUpdate loads a delivery and locks it for the duration
	// of the transaction. Returns nil when the delivery does not exist.
	GetDeliveryForUpdate(ctx context.Context, id string) (*domain.Delivery, error)

	// ApplyDeliveryTransition stores the delivery's new state, cancelled-at
	// and fee, compare-and-swapped on expectedVersion. Returns false when
	// the stored version no longer matches.
	ApplyDeliveryTransition(ctx context.Context, d *domain.Delivery, expectedVersion int64) (bool, error)

	// AppendTrackingEvent appends one immutable event to the delivery's log.
	AppendTrackingEvent(ctx context.Context, ev *domain.TrackingEvent) error

	// InsertCancellationOutcome persists the fee/refund computation of a
	// cancelled delivery. Insert-only.
	InsertCancellationOutcome(ctx context.Context, o *domain.CancellationOutcome) error
}

// Runner opens a transaction and executes fn within it.
type Runner interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}

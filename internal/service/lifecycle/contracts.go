package lifecycle

//go:generate mockgen -source=contracts.go -destination=lifecycle_mocks_test.go -package=lifecycle_test

import (
	"context"

	"courierflow/internal/domain"
	"courierflow/internal/ports/enginetx"
)

// TxRunner opens the transaction a transition runs inside.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx enginetx.Repository) error) error
}

// Notifier pushes freshly committed tracking events to the notification
// subsystem. Best-effort: publish failures never fail the transition.
type Notifier interface {
	PublishTrackingEvent(ctx context.Context, ev domain.TrackingEvent) error
}

type counter interface {
	Inc()
}

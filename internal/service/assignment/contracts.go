//go:generate mockgen -source=contracts.go -destination=assignment_mocks_test.go -package=assignment_test

package assignment

import (
	"context"

	"courierflow/internal/domain"
	"courierflow/internal/ports/enginetx"
)

// TxRunner opens the transaction a claim runs inside.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx enginetx.Repository) error) error
}

// Notifier pushes freshly committed tracking events to the notification
// subsystem. Best-effort: publish failures never fail the claim.
type Notifier interface {
	PublishTrackingEvent(ctx context.Context, ev domain.TrackingEvent) error
}

type counter interface {
	Inc()
}

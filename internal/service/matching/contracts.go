package matching

import (
	"context"
	"time"

	"courierflow/internal/domain"
)

// openRequestSource is the read-only projection over the current OPEN pool.
type openRequestSource interface {
	ListOpenRequests(ctx context.Context, f domain.MatchFilter, now time.Time) ([]domain.DeliveryRequest, error)
}

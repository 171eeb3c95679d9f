package announce

//go:generate mockgen -source=contracts.go -destination=announce_mocks_test.go -package=announce_test

import (
	"context"

	"courierflow/internal/domain"
)

// RequestStore abstracts the subset of request storage the announcement
// feed needs.
type RequestStore interface {
	InsertRequest(ctx context.Context, req *domain.DeliveryRequest) error
	CancelRequestByAuthor(ctx context.Context, id string) (bool, error)
}

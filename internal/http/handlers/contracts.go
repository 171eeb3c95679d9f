package handlers

import (
	"context"
	"iter"

	"courierflow/internal/domain"
	"courierflow/internal/service/assignment"
	"courierflow/internal/service/lifecycle"
	"courierflow/internal/service/matching"
	"courierflow/internal/service/tracking"
)

type matchUsecase interface {
	FindCandidates(ctx context.Context, route domain.CourierRoute, maxDistanceKm float64, f domain.MatchFilter) (iter.Seq[matching.Candidate], error)
}

// NewMatchUsecase wires a matching.Service into a matchUsecase.
func NewMatchUsecase(svc *matching.Service) matchUsecase {
	return svc
}

type claimUsecase interface {
	Claim(ctx context.Context, requestID, courierID string) (*domain.Delivery, error)
}

// NewClaimUsecase wires an assignment.Service into a claimUsecase.
func NewClaimUsecase(svc *assignment.Service) claimUsecase {
	return svc
}

type transitionUsecase interface {
	Transition(ctx context.Context, deliveryID string, expectedVersion int64, event lifecycle.Event) (*domain.Delivery, error)
}

// NewTransitionUsecase wires a lifecycle.Service into a transitionUsecase.
func NewTransitionUsecase(svc *lifecycle.Service) transitionUsecase {
	return svc
}

type trackingUsecase interface {
	Append(ctx context.Context, deliveryID, note string) (*domain.TrackingEvent, error)
	ListFor(ctx context.Context, deliveryID string) ([]domain.TrackingEvent, error)
}

// NewTrackingUsecase wires a tracking.Service into a trackingUsecase.
func NewTrackingUsecase(svc *tracking.Service) trackingUsecase {
	return svc
}

// Package memory provides a mutex-guarded in-memory implementation of the
// engine's storage ports with the same compare-and-swap semantics as the
// PostgreSQL repository. It backs unit and race tests and small embedded
// deployments.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"courierflow/internal/domain"
	"courierflow/internal/ports/enginetx"
)

// Store holds all engine state in process memory.
type Store struct {
	mu         sync.Mutex
	requests   map[string]domain.DeliveryRequest
	deliveries map[string]domain.Delivery
	events     map[string][]domain.TrackingEvent
	outcomes   map[string]domain.CancellationOutcome
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		requests:   make(map[string]domain.DeliveryRequest),
		deliveries: make(map[string]domain.Delivery),
		events:     make(map[string][]domain.TrackingEvent),
		outcomes:   make(map[string]domain.CancellationOutcome),
	}
}

// WithTx executes fn under the store mutex. All effects are rolled back when
// fn returns an error, mirroring the SQL transaction semantics.
func (s *Store) WithTx(ctx context.Context, fn func(tx enginetx.Repository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(&txView{s: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type storeSnapshot struct {
	requests   map[string]domain.DeliveryRequest
	deliveries map[string]domain.Delivery
	events     map[string][]domain.TrackingEvent
	outcomes   map[string]domain.CancellationOutcome
}

func (s *Store) snapshot() storeSnapshot {
	snap := storeSnapshot{
		requests:   make(map[string]domain.DeliveryRequest, len(s.requests)),
		deliveries: make(map[string]domain.Delivery, len(s.deliveries)),
		events:     make(map[string][]domain.TrackingEvent, len(s.events)),
		outcomes:   make(map[string]domain.CancellationOutcome, len(s.outcomes)),
	}
	for k, v := range s.requests {
		snap.requests[k] = v
	}
	for k, v := range s.deliveries {
		snap.deliveries[k] = copyDelivery(v)
	}
	for k, v := range s.events {
		evs := make([]domain.TrackingEvent, len(v))
		copy(evs, v)
		snap.events[k] = evs
	}
	for k, v := range s.outcomes {
		snap.outcomes[k] = v
	}
	return snap
}

func (s *Store) restore(snap storeSnapshot) {
	s.requests = snap.requests
	s.deliveries = snap.deliveries
	s.events = snap.events
	s.outcomes = snap.outcomes
}

func copyDelivery(d domain.Delivery) domain.Delivery {
	if d.CancelledAt != nil {
		at := *d.CancelledAt
		d.CancelledAt = &at
	}
	if d.Fee != nil {
		fee := *d.Fee
		d.Fee = &fee
	}
	return d
}

// ListOpenRequests returns claimable requests passing the filter, ordered by
// earliest window then id.
func (s *Store) ListOpenRequests(_ context.Context, f domain.MatchFilter, now time.Time) ([]domain.DeliveryRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.DeliveryRequest
	for _, req := range s.requests {
		if !req.Claimable(now) {
			continue
		}
		if !f.Matches(&req, now) {
			continue
		}
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Window.Earliest.Equal(out[j].Window.Earliest) {
			return out[i].Window.Earliest.Before(out[j].Window.Earliest)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// GetRequest fetches a request by ID. Returns nil when absent.
func (s *Store) GetRequest(_ context.Context, id string) (*domain.DeliveryRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, nil
	}
	return &req, nil
}

// InsertRequest persists a new request; replayed inserts are ignored.
func (s *Store) InsertRequest(_ context.Context, req *domain.DeliveryRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.requests[req.ID]; ok {
		return nil
	}
	s.requests[req.ID] = *req
	return nil
}

// CancelRequestByAuthor marks an OPEN request cancelled by its author.
func (s *Store) CancelRequestByAuthor(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok || req.Status != domain.RequestOpen {
		return false, nil
	}
	req.Status = domain.RequestCancelled
	s.requests[id] = req
	return true, nil
}

// ExpireOverdue marks OPEN requests past their latest window EXPIRED.
func (s *Store) ExpireOverdue(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, req := range s.requests {
		if req.Status == domain.RequestOpen && !now.Before(req.Window.Latest) {
			req.Status = domain.RequestExpired
			s.requests[id] = req
			n++
		}
	}
	return n, nil
}

// GetDelivery fetches a delivery by ID. Returns nil when absent.
func (s *Store) GetDelivery(_ context.Context, id string) (*domain.Delivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.deliveries[id]
	if !ok {
		return nil, nil
	}
	d = copyDelivery(d)
	return &d, nil
}

// ListTrackingEvents returns the delivery's event history in append order.
func (s *Store) ListTrackingEvents(_ context.Context, deliveryID string) ([]domain.TrackingEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	evs := s.events[deliveryID]
	out := make([]domain.TrackingEvent, len(evs))
	copy(out, evs)
	return out, nil
}

// GetCancellationOutcome fetches the persisted outcome. Returns nil when none
// exists.
func (s *Store) GetCancellationOutcome(_ context.Context, deliveryID string) (*domain.CancellationOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.outcomes[deliveryID]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

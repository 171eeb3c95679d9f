package memory

import (
	"context"
	"fmt"
	"time"

	"courierflow/internal/domain"
	"courierflow/internal/ports/enginetx"
)

// txView implements the transactional repository over an already-locked Store.
type txView struct {
	s *Store
}

var _ enginetx.Repository = (*txView)(nil)

func (t *txView) GetRequestForUpdate(_ context.Context, id string) (*domain.DeliveryRequest, error) {
	req, ok := t.s.requests[id]
	if !ok {
		return nil, nil
	}
	return &req, nil
}

func (t *txView) MarkRequestClaimed(_ context.Context, id string, now time.Time) (bool, error) {
	req, ok := t.s.requests[id]
	if !ok || !req.Claimable(now) {
		return false, nil
	}
	req.Status = domain.RequestClaimed
	req.UpdatedAt = now
	t.s.requests[id] = req
	return true, nil
}

func (t *txView) SetRequestStatus(_ context.Context, id string, status domain.RequestStatus) error {
	req, ok := t.s.requests[id]
	if !ok {
		return fmt.Errorf("request %q not found", id)
	}
	req.Status = status
	t.s.requests[id] = req
	return nil
}

func (t *txView) ReopenRequest(_ context.Context, id string) error {
	req, ok := t.s.requests[id]
	if !ok {
		return fmt.Errorf("request %q not found", id)
	}
	req.Status = domain.RequestOpen
	req.Epoch++
	t.s.requests[id] = req
	return nil
}

func (t *txView) InsertDelivery(_ context.Context, d *domain.Delivery) error {
	if _, ok := t.s.deliveries[d.ID]; ok {
		return fmt.Errorf("delivery %q already exists", d.ID)
	}
	t.s.deliveries[d.ID] = copyDelivery(*d)
	return nil
}

func (t *txView) GetDeliveryForUpdate(_ context.Context, id string) (*domain.Delivery, error) {
	d, ok := t.s.deliveries[id]
	if !ok {
		return nil, nil
	}
	d = copyDelivery(d)
	return &d, nil
}

func (t *txView) ApplyDeliveryTransition(_ context.Context, d *domain.Delivery, expectedVersion int64) (bool, error) {
	stored, ok := t.s.deliveries[d.ID]
	if !ok || stored.Version != expectedVersion {
		return false, nil
	}
	stored.State = d.State
	stored.Version = expectedVersion + 1
	stored.CancelledAt = d.CancelledAt
	stored.Fee = d.Fee
	t.s.deliveries[d.ID] = copyDelivery(stored)
	d.Version = stored.Version
	return true, nil
}

func (t *txView) AppendTrackingEvent(_ context.Context, ev *domain.TrackingEvent) error {
	t.s.events[ev.DeliveryID] = append(t.s.events[ev.DeliveryID], *ev)
	return nil
}

func (t *txView) InsertCancellationOutcome(_ context.Context, o *domain.CancellationOutcome) error {
	if _, ok := t.s.outcomes[o.DeliveryID]; ok {
		return fmt.Errorf("cancellation outcome for %q already exists", o.DeliveryID)
	}
	t.s.outcomes[o.DeliveryID] = *o
	return nil
}

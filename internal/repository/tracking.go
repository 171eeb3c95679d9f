package repository

import (
	"context"
	"fmt"

	"courierflow/internal/domain"
)

// ListTrackingEvents returns the full event history of a delivery in
// chronological order. The log has no update or delete statements anywhere in
// this package; corrections are appended as new events.
func (r *EngineRepo) ListTrackingEvents(ctx context.Context, deliveryID string) ([]domain.TrackingEvent, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, delivery_id, status, previous_status, description, recorded_at
        FROM tracking_event
        WHERE delivery_id = $1
        ORDER BY recorded_at ASC, id ASC
    `, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("list tracking events %q: %w", deliveryID, err)
	}
	defer rows.Close()

	var out []domain.TrackingEvent
	for rows.Next() {
		var (
			ev       domain.TrackingEvent
			status   string
			previous string
		)
		if err := rows.Scan(&ev.ID, &ev.DeliveryID, &status, &previous, &ev.Description, &ev.RecordedAt); err != nil {
			return nil, fmt.Errorf("list tracking events %q: %w", deliveryID, err)
		}
		ev.Status = domain.DeliveryState(status)
		ev.PreviousStatus = domain.DeliveryState(previous)
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tracking events %q: %w", deliveryID, err)
	}
	return out, nil
}

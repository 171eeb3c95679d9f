package repository

import (
	"context"
	"fmt"
	"time"

	"courierflow/internal/domain"
	"courierflow/internal/types"
)

// ListOpenRequests returns requests still claimable at the given instant,
// optionally narrowed by the filter. Read-only; never blocks writers.
func (r *EngineRepo) ListOpenRequests(ctx context.Context, f domain.MatchFilter, now time.Time) ([]domain.DeliveryRequest, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+requestColumns+`
        FROM delivery_request
        WHERE status = $1 AND window_latest > $2
        ORDER BY window_earliest ASC, id ASC
    `, string(domain.RequestOpen), now)
	if err != nil {
		return nil, fmt.Errorf("list open requests: %w", err)
	}
	defer rows.Close()

	var out []domain.DeliveryRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("list open requests: %w", err)
		}
		if !f.Matches(req, now) {
			continue
		}
		out = append(out, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list open requests: %w", err)
	}
	return out, nil
}

// GetRequest fetches a request by ID. Returns nil when absent.
func (r *EngineRepo) GetRequest(ctx context.Context, id string) (*domain.DeliveryRequest, error) {
	row := r.db.QueryRow(ctx, `
        SELECT `+requestColumns+`
        FROM delivery_request
        WHERE id = $1
    `, id)

	req, err := scanRequest(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get request %q: %w", id, err)
	}
	return req, nil
}

// InsertRequest persists a new open request, ignoring duplicates so that
// replayed announcement events stay idempotent.
func (r *EngineRepo) InsertRequest(ctx context.Context, req *domain.DeliveryRequest) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO delivery_request (
            id, author_id, pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
            window_earliest, window_latest, price_cents, service_type, status,
            epoch, created_at, updated_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        ON CONFLICT (id) DO NOTHING
    `,
		req.ID, req.AuthorID,
		req.Pickup.Lat, req.Pickup.Lng,
		req.Dropoff.Lat, req.Dropoff.Lng,
		req.Window.Earliest, req.Window.Latest,
		int64(req.Price), req.ServiceType, string(req.Status),
		req.Epoch, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

// CancelRequestByAuthor marks a request cancelled by its author. This is the
// terminal path outside the delivery state machine; it only applies while no
// delivery is in flight. Returns false when the request was not cancellable.
func (r *EngineRepo) CancelRequestByAuthor(ctx context.Context, id string) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE delivery_request
        SET status = $2, updated_at = now()
        WHERE id = $1 AND status = $3
    `, id, string(domain.RequestCancelled), string(domain.RequestOpen))
	if err != nil {
		return false, fmt.Errorf("cancel request by author %q: %w", id, err)
	}
	return ct.RowsAffected() == 1, nil
}

// ExpireOverdue marks OPEN requests past their latest window EXPIRED and
// returns how many rows changed.
func (r *EngineRepo) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE delivery_request
        SET status = $1, updated_at = now()
        WHERE status = $2 AND window_latest <= $3
    `, string(domain.RequestExpired), string(domain.RequestOpen), now)
	if err != nil {
		return 0, fmt.Errorf("expire overdue requests: %w", err)
	}
	return ct.RowsAffected(), nil
}

// GetDelivery fetches a delivery by ID. Returns nil when absent.
func (r *EngineRepo) GetDelivery(ctx context.Context, id string) (*domain.Delivery, error) {
	row := r.db.QueryRow(ctx, `
        SELECT `+deliveryColumns+`
        FROM delivery
        WHERE id = $1
    `, id)

	d, err := scanDelivery(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery %q: %w", id, err)
	}
	return d, nil
}

// GetCancellationOutcome fetches the persisted outcome for a delivery.
// Returns nil when none exists.
func (r *EngineRepo) GetCancellationOutcome(ctx context.Context, deliveryID string) (*domain.CancellationOutcome, error) {
	row := r.db.QueryRow(ctx, `
        SELECT delivery_id, fee_cents, fee_basis_pct, refund_cents, computed_at
        FROM cancellation_outcome
        WHERE delivery_id = $1
    `, deliveryID)

	var (
		o           domain.CancellationOutcome
		feeCents    int64
		refundCents int64
	)
	err := row.Scan(&o.DeliveryID, &feeCents, &o.FeeBasisPct, &refundCents, &o.ComputedAt)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cancellation outcome %q: %w", deliveryID, err)
	}
	o.Fee = types.Money(feeCents)
	o.Refund = types.Money(refundCents)
	return &o, nil
}

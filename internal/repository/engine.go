package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"courierflow/internal/apperr"
	"courierflow/internal/domain"
	"courierflow/internal/ports/enginetx"
	"courierflow/internal/types"
)

// EngineRepo persists delivery requests, deliveries and tracking events.
type EngineRepo struct {
	db *pgxpool.Pool
}

// NewEngineRepo creates a new EngineRepo.
func NewEngineRepo(db *pgxpool.Pool) *EngineRepo {
	return &EngineRepo{db: db}
}

// WithTx opens a transaction and executes fn within it.
func (r *EngineRepo) WithTx(ctx context.Context, fn func(tx enginetx.Repository) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			err = tx.Rollback(ctx)
			if err != nil {
				panic(err)
			}
			panic(p)
		}
	}()

	wrapped := &TxRepo{tx: tx}

	if err := fn(wrapped); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// TxRepo is the transactional repository view.
type TxRepo struct {
	tx pgx.Tx
}

var _ enginetx.Repository = (*TxRepo)(nil)

const requestColumns = `
	id, author_id, pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
	window_earliest, window_latest, price_cents, service_type, status,
	epoch, created_at, updated_at`

func scanRequest(row pgx.Row) (*domain.DeliveryRequest, error) {
	var (
		req        domain.DeliveryRequest
		priceCents int64
		status     string
	)
	err := row.Scan(
		&req.ID, &req.AuthorID,
		&req.Pickup.Lat, &req.Pickup.Lng,
		&req.Dropoff.Lat, &req.Dropoff.Lng,
		&req.Window.Earliest, &req.Window.Latest,
		&priceCents, &req.ServiceType, &status,
		&req.Epoch, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	req.Price = types.Money(priceCents)
	req.Status = domain.RequestStatus(status)
	return &req, nil
}

// GetRequestForUpdate - load a request and lock its row for this transaction.
func (r *TxRepo) GetRequestForUpdate(ctx context.Context, id string) (*domain.DeliveryRequest, error) {
	row := r.tx.QueryRow(ctx, `
        SELECT `+requestColumns+`
        FROM delivery_request
        WHERE id = $1
        FOR UPDATE
    `, id)

	req, err := scanRequest(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get request for update %q: %w", id, err)
	}
	return req, nil
}

// MarkRequestClaimed - conditional OPEN→CLAIMED transition.
func (r *TxRepo) MarkRequestClaimed(ctx context.Context, id string, now time.Time) (bool, error) {
	ct, err := r.tx.Exec(ctx, `
        UPDATE delivery_request
        SET status = $2, updated_at = now()
        WHERE id = $1 AND status = $3 AND window_latest > $4
    `, id, string(domain.RequestClaimed), string(domain.RequestOpen), now)
	if err != nil {
		return false, fmt.Errorf("mark request claimed %q: %w", id, err)
	}
	return ct.RowsAffected() == 1, nil
}

// SetRequestStatus - overwrite the request status.
func (r *TxRepo) SetRequestStatus(ctx context.Context, id string, status domain.RequestStatus) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE delivery_request
        SET status = $2, updated_at = now()
        WHERE id = $1
    `, id, string(status))
	if err != nil {
		return fmt.Errorf("set request status %q: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("request %q not found", id)
	}
	return nil
}

// ReopenRequest - return a request to the open pool with a fresh epoch.
func (r *TxRepo) ReopenRequest(ctx context.Context, id string) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE delivery_request
        SET status = $2, epoch = epoch + 1, updated_at = now()
        WHERE id = $1
    `, id, string(domain.RequestOpen))
	if err != nil {
		return fmt.Errorf("reopen request %q: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("request %q not found", id)
	}
	return nil
}

// InsertDelivery - insert a new delivery.
func (r *TxRepo) InsertDelivery(ctx context.Context, d *domain.Delivery) error {
	_, err := r.tx.Exec(ctx, `
        INSERT INTO delivery (id, request_id, courier_id, state, version, created_at, scheduled_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, d.ID, d.RequestID, d.CourierID, string(d.State), d.Version, d.CreatedAt, d.ScheduledAt)
	if err != nil {
		if IsDuplicate(err) {
			return fmt.Errorf("%w: delivery %q already exists", apperr.ErrConflict, d.ID)
		}
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

func scanDelivery(row pgx.Row) (*domain.Delivery, error) {
	var (
		d        domain.Delivery
		state    string
		feeCents *int64
	)
	err := row.Scan(
		&d.ID, &d.RequestID, &d.CourierID, &state, &d.Version,
		&d.CreatedAt, &d.ScheduledAt, &d.CancelledAt, &feeCents,
	)
	if err != nil {
		return nil, err
	}
	d.State = domain.DeliveryState(state)
	if feeCents != nil {
		fee := types.Money(*feeCents)
		d.Fee = &fee
	}
	return &d, nil
}

const deliveryColumns = `
	id, request_id, courier_id, state, version,
	created_at, scheduled_at, cancelled_at, fee_cents`

// GetDeliveryForUpdate - load a delivery and lock its row for this transaction.
func (r *TxRepo) GetDeliveryForUpdate(ctx context.Context, id string) (*domain.Delivery, error) {
	row := r.tx.QueryRow(ctx, `
        SELECT `+deliveryColumns+`
        FROM delivery
        WHERE id = $1
        FOR UPDATE
    `, id)

	d, err := scanDelivery(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery for update %q: %w", id, err)
	}
	return d, nil
}

// ApplyDeliveryTransition - compare-and-swap the delivery row on version.
func (r *TxRepo) ApplyDeliveryTransition(ctx context.Context, d *domain.Delivery, expectedVersion int64) (bool, error) {
	var feeCents *int64
	if d.Fee != nil {
		v := int64(*d.Fee)
		feeCents = &v
	}
	ct, err := r.tx.Exec(ctx, `
        UPDATE delivery
        SET state = $2, version = version + 1, cancelled_at = $3, fee_cents = $4
        WHERE id = $1 AND version = $5
    `, d.ID, string(d.State), d.CancelledAt, feeCents, expectedVersion)
	if err != nil {
		return false, fmt.Errorf("apply delivery transition %q: %w", d.ID, err)
	}
	if ct.RowsAffected() == 0 {
		return false, nil
	}
	d.Version = expectedVersion + 1
	return true, nil
}

// AppendTrackingEvent - append one immutable tracking event.
func (r *TxRepo) AppendTrackingEvent(ctx context.Context, ev *domain.TrackingEvent) error {
	_, err := r.tx.Exec(ctx, `
        INSERT INTO tracking_event (id, delivery_id, status, previous_status, description, recorded_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, ev.ID, ev.DeliveryID, string(ev.Status), string(ev.PreviousStatus), ev.Description, ev.RecordedAt)
	if err != nil {
		return fmt.Errorf("append tracking event: %w", err)
	}
	return nil
}

// InsertCancellationOutcome - persist the fee/refund computation. Insert-only.
func (r *TxRepo) InsertCancellationOutcome(ctx context.Context, o *domain.CancellationOutcome) error {
	_, err := r.tx.Exec(ctx, `
        INSERT INTO cancellation_outcome (delivery_id, fee_cents, fee_basis_pct, refund_cents, computed_at)
        VALUES ($1, $2, $3, $4, $5)
    `, o.DeliveryID, int64(o.Fee), o.FeeBasisPct, int64(o.Refund), o.ComputedAt)
	if err != nil {
		if IsDuplicate(err) {
			return fmt.Errorf("%w: cancellation outcome for delivery %q already exists", apperr.ErrConflict, o.DeliveryID)
		}
		return fmt.Errorf("insert cancellation outcome: %w", err)
	}
	return nil
}

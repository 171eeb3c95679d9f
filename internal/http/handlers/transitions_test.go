package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courierflow/internal/apperr"
	"courierflow/internal/domain"
	"courierflow/internal/logx"
	"courierflow/internal/service/lifecycle"
	"courierflow/internal/types"
)

type stubTransitionUsecase struct {
	transitionFn func(ctx context.Context, deliveryID string, expectedVersion int64, event lifecycle.Event) (*domain.Delivery, error)
}

func (s *stubTransitionUsecase) Transition(ctx context.Context, deliveryID string, expectedVersion int64, event lifecycle.Event) (*domain.Delivery, error) {
	if s.transitionFn == nil {
		panic("Transition not expected in this test")
	}
	return s.transitionFn(ctx, deliveryID, expectedVersion, event)
}

func postTransition(t *testing.T, uc transitionUsecase, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/deliveries/del-1/transitions", strings.NewReader(body))
	req = withURLParam(req, "deliveryID", "del-1")
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	NewTransitionHandler(logx.Nop(), uc).Transition(rr, req)
	return rr
}

func TestTransitionHandler_Pickup_OK(t *testing.T) {
	t.Parallel()

	scheduledAt := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	uc := &stubTransitionUsecase{
		transitionFn: func(_ context.Context, deliveryID string, expectedVersion int64, event lifecycle.Event) (*domain.Delivery, error) {
			require.Equal(t, "del-1", deliveryID)
			require.Equal(t, int64(1), expectedVersion)
			require.Equal(t, lifecycle.EventPickup, event.Type)
			return &domain.Delivery{
				ID:          deliveryID,
				RequestID:   "req-1",
				CourierID:   "courier-7",
				State:       domain.StatePickedUp,
				Version:     2,
				ScheduledAt: scheduledAt,
			}, nil
		},
	}

	rr := postTransition(t, uc, `{"event":"PICKUP","expected_version":1}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	expectedJSON := `{
        "id": "del-1",
        "request_id": "req-1",
        "courier_id": "courier-7",
        "state": "PICKED_UP",
        "version": 2,
        "scheduled_at": "2025-01-02T03:04:05Z"
    }`
	assert.JSONEq(t, expectedJSON, rr.Body.String())
}

func TestTransitionHandler_Cancel_ReturnsFee(t *testing.T) {
	t.Parallel()

	cancelledAt := time.Date(2025, 1, 2, 4, 0, 0, 0, time.UTC)
	fee := types.Money(2_500)

	uc := &stubTransitionUsecase{
		transitionFn: func(_ context.Context, deliveryID string, _ int64, event lifecycle.Event) (*domain.Delivery, error) {
			require.Equal(t, lifecycle.EventCancel, event.Type)
			require.Equal(t, "recipient unreachable", event.Reason)
			return &domain.Delivery{
				ID:          deliveryID,
				RequestID:   "req-1",
				CourierID:   "courier-7",
				State:       domain.StateCancelled,
				Version:     2,
				ScheduledAt: cancelledAt.Add(-time.Hour),
				CancelledAt: &cancelledAt,
				Fee:         &fee,
			}, nil
		},
	}

	rr := postTransition(t, uc, `{"event":"CANCEL","expected_version":1,"reason":"recipient unreachable"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"fee_cents":2500`)
	assert.Contains(t, rr.Body.String(), `"cancelled_at"`)
}

func TestTransitionHandler_Deliver_PassesProofPayload(t *testing.T) {
	t.Parallel()

	uc := &stubTransitionUsecase{
		transitionFn: func(_ context.Context, deliveryID string, _ int64, event lifecycle.Event) (*domain.Delivery, error) {
			require.Equal(t, lifecycle.EventDeliver, event.Type)
			require.Equal(t, "Alice", event.RecipientName)
			require.Equal(t, "sig-data", event.Signature)
			return &domain.Delivery{ID: deliveryID, State: domain.StateDelivered, Version: 4}, nil
		},
	}

	rr := postTransition(t, uc, `{"event":"DELIVER","expected_version":3,"recipient_name":"Alice","signature":"sig-data"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestTransitionHandler_ErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"missing proof", apperr.ErrMissingProof, http.StatusUnprocessableEntity, "delivery proof required"},
		{"invalid transition", apperr.ErrInvalidTransition, http.StatusUnprocessableEntity, "transition not allowed"},
		{"stale version", apperr.ErrStaleVersion, http.StatusConflict, "stale version"},
		{"not found", apperr.ErrNotFound, http.StatusNotFound, "delivery not found"},
		{"invalid input", apperr.ErrInvalid, http.StatusBadRequest, "invalid input"},
		{"internal", errors.New("db down"), http.StatusInternalServerError, "internal error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			uc := &stubTransitionUsecase{
				transitionFn: func(context.Context, string, int64, lifecycle.Event) (*domain.Delivery, error) {
					return nil, tc.err
				},
			}

			rr := postTransition(t, uc, `{"event":"DELIVER","expected_version":1}`)

			assert.Equal(t, tc.wantStatus, rr.Code)
			assert.JSONEq(t, `{"error":"`+tc.wantMsg+`"}`, rr.Body.String())
		})
	}
}

func TestTransitionHandler_BadJSON(t *testing.T) {
	t.Parallel()

	rr := postTransition(t, &stubTransitionUsecase{}, `{"event":`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

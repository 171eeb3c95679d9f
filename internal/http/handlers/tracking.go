package handlers

import (
	"errors"
	"net/http"

	"courierflow/internal/apperr"
	"courierflow/internal/logx"
)

// TrackingHandler handles HTTP requests for the tracking log.
type TrackingHandler struct {
	usecase trackingUsecase
	logger  logx.Logger
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(logger logx.Logger, uc trackingUsecase) *TrackingHandler {
	return &TrackingHandler{usecase: uc, logger: logger}
}

// Append handles POST /deliveries/{deliveryID}/tracking.
func (h *TrackingHandler) Append(w http.ResponseWriter, r *http.Request) {
	deliveryID := idFromURL(r, "deliveryID")

	var req appendTrackingRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	ev, err := h.usecase.Append(r.Context(), deliveryID, req.Note)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusCreated, trackingEventToResponse(*ev))
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "delivery not found")
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// History handles GET /deliveries/{deliveryID}/tracking.
func (h *TrackingHandler) History(w http.ResponseWriter, r *http.Request) {
	deliveryID := idFromURL(r, "deliveryID")

	events, err := h.usecase.ListFor(r.Context(), deliveryID)
	switch {
	case err == nil:
		resp := trackingHistoryResponse{Events: make([]trackingEventResponse, 0, len(events))}
		for _, ev := range events {
			resp.Events = append(resp.Events, trackingEventToResponse(ev))
		}
		writeJSON(h.logger, w, r, http.StatusOK, resp)
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "delivery not found")
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

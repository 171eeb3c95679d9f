package handlers

import (
	"errors"
	"net/http"

	"courierflow/internal/apperr"
	"courierflow/internal/logx"
)

// TransitionHandler handles HTTP requests for delivery lifecycle transitions.
type TransitionHandler struct {
	usecase transitionUsecase
	logger  logx.Logger
}

// NewTransitionHandler creates a new TransitionHandler.
func NewTransitionHandler(logger logx.Logger, uc transitionUsecase) *TransitionHandler {
	return &TransitionHandler{usecase: uc, logger: logger}
}

// Transition handles POST /deliveries/{deliveryID}/transitions.
func (h *TransitionHandler) Transition(w http.ResponseWriter, r *http.Request) {
	deliveryID := idFromURL(r, "deliveryID")

	var req transitionRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	d, err := h.usecase.Transition(r.Context(), deliveryID, req.ExpectedVersion, eventFromRequest(req))
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, deliveryToResponse(d))
	case errors.Is(err, apperr.ErrMissingProof):
		writeError(h.logger, w, r, http.StatusUnprocessableEntity, "delivery proof required")
	case errors.Is(err, apperr.ErrInvalidTransition):
		writeError(h.logger, w, r, http.StatusUnprocessableEntity, "transition not allowed")
	case errors.Is(err, apperr.ErrStaleVersion):
		writeError(h.logger, w, r, http.StatusConflict, "stale version")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "delivery not found")
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

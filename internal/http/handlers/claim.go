package handlers

import (
	"errors"
	"net/http"

	"courierflow/internal/apperr"
	"courierflow/internal/logx"
)

// ClaimHandler handles HTTP requests for claiming open requests.
type ClaimHandler struct {
	usecase claimUsecase
	logger  logx.Logger
}

// NewClaimHandler creates a new ClaimHandler.
func NewClaimHandler(logger logx.Logger, uc claimUsecase) *ClaimHandler {
	return &ClaimHandler{usecase: uc, logger: logger}
}

// Claim handles POST /requests/{requestID}/claim.
func (h *ClaimHandler) Claim(w http.ResponseWriter, r *http.Request) {
	requestID := idFromURL(r, "requestID")

	var req claimRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	d, err := h.usecase.Claim(r.Context(), requestID, req.CourierID)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusCreated, deliveryToResponse(d))
	case errors.Is(err, apperr.ErrAlreadyClaimed):
		writeError(h.logger, w, r, http.StatusConflict, "request already claimed")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "request not found")
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

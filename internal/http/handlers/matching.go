package handlers

import (
	"errors"
	"net/http"

	"courierflow/internal/apperr"
	"courierflow/internal/logx"
)

// MatchHandler handles HTTP requests for candidate matching.
type MatchHandler struct {
	usecase matchUsecase
	logger  logx.Logger
}

// NewMatchHandler creates a new MatchHandler.
func NewMatchHandler(logger logx.Logger, uc matchUsecase) *MatchHandler {
	return &MatchHandler{usecase: uc, logger: logger}
}

// FindCandidates handles POST /couriers/{courierID}/candidates. The ranked
// sequence is drained here; over the wire a plain array is the only sensible
// shape.
func (h *MatchHandler) FindCandidates(w http.ResponseWriter, r *http.Request) {
	courierID := idFromURL(r, "courierID")
	if courierID == "" {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid courier id")
		return
	}

	var req findCandidatesRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	seq, err := h.usecase.FindCandidates(r.Context(), routeFromRequest(courierID, req), req.MaxDistanceKm, filterFromRequest(req))
	switch {
	case err == nil:
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
		return
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}

	resp := findCandidatesResponse{Candidates: []candidateResponse{}}
	for c := range seq {
		resp.Candidates = append(resp.Candidates, candidateToResponse(c))
	}
	writeJSON(h.logger, w, r, http.StatusOK, resp)
}

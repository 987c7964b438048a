package api

import (
	"errors"
	"net/http"

	"github.com/socrates-learning/socrates-api/internal/api/shared"
	"github.com/socrates-learning/socrates-api/internal/planning"
	"github.com/socrates-learning/socrates-api/internal/store"
)

// errInvalidID flags an unparseable or non-positive ID path parameter.
var errInvalidID = errors.New("invalid ID parameter")

// handleServiceError maps service-layer errors onto HTTP responses with
// sanitized messages. The full error is logged with the trace ID.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case store.IsNotFoundError(err):
		shared.RespondWithErrorAndLog(w, r, http.StatusNotFound, "resource not found", err)
	case errors.Is(err, store.ErrInvalidEntity):
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "invalid request", err)
	case errors.Is(err, planning.ErrPlanningFailed):
		shared.RespondWithErrorAndLog(w, r, http.StatusBadGateway, "planning capability unavailable", err)
	default:
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "internal server error", err)
	}
}

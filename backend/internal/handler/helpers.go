package handler

import (
	"net/http"

	"github.com/clientspot/clientspot/shared/errors"
	"github.com/clientspot/clientspot/shared/middleware/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// parseUUIDParam reads a chi URL parameter as a uuid.
func parseUUIDParam(r *http.Request, param, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, errors.Validation("Invalid " + what)
	}
	return id, nil
}

func recordOutcome(event string, err error) {
	if err != nil {
		metrics.RecordAuthEvent(event, metrics.OutcomeFailure)
		return
	}
	metrics.RecordAuthEvent(event, metrics.OutcomeSuccess)
}

func (h *Handler) sessionMaxAge() int {
	return int(h.cfg.JwtTTL().Seconds())
}

package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/412449-PICCO/generadorDiplos/internal/api/response"
	"github.com/412449-PICCO/generadorDiplos/internal/core"
)

// writeServiceError maps core errors onto HTTP statuses. Upstream failures
// are logged server-side and reported with a generic message so internals
// never leak to clients.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		response.WriteError(w, http.StatusNotFound, "certificate not found")
	case errors.Is(err, core.ErrInvalidInput):
		response.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		response.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}

package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"brancoapp/internal/core"
	"brancoapp/internal/services"
	"brancoapp/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps service errors onto HTTP statuses. Store failures
// always come back as a JSON payload, never a crash.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrInvalidCategoria),
		errors.Is(err, core.ErrEmptyNome),
		errors.Is(err, core.ErrInvalidImporto),
		errors.Is(err, core.ErrMissingAnticipante),
		errors.Is(err, core.ErrEmptyTitle),
		errors.Is(err, core.ErrEndBeforeStart),
		errors.Is(err, core.ErrUnknownMonth),
		errors.Is(err, core.ErrInvalidMetodo):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrNoCurrentMonth),
		errors.Is(err, services.ErrNothingToPay):
		writeError(w, http.StatusConflict, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

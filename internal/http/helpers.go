package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"takatrack/internal/backendapi"
	"takatrack/internal/core"
	"takatrack/internal/goals"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors to status codes: expired sessions become
// 401 so the caller can re-authenticate, backend failures become 502 since
// this service is a proxy for them, validation failures 400, missing goals
// 404. Anything else is a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	var apiErr *backendapi.APIError
	switch {
	case errors.Is(err, backendapi.ErrSessionExpired):
		status = http.StatusUnauthorized
	case errors.As(err, &apiErr):
		status = http.StatusBadGateway
	case errors.Is(err, goals.ErrGoalNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrInvalidPriority),
		errors.Is(err, core.ErrInvalidDeadline):
		status = http.StatusBadRequest
	}

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed",
			"path", r.URL.Path, "status", status, "error", err)
	} else {
		slog.WarnContext(r.Context(), "Request rejected",
			"path", r.URL.Path, "status", status, "error", err)
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// decodeBody reads a JSON request body into v, rejecting unknown fields so
// typos surface as errors instead of silent zero values.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

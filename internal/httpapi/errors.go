package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"jobboard-engine/internal/domain"
	"jobboard-engine/internal/listing"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNoDataset       = errors.New("dataset not loaded")
)

type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

// writeErr maps a domain error onto the API envelope.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		WriteError(w, r, http.StatusNotFound, "session_not_found", err.Error())
	case errors.Is(err, ErrNoDataset):
		WriteError(w, r, http.StatusServiceUnavailable, "dataset_unavailable", err.Error())
	case errors.Is(err, listing.ErrInvalidRange):
		WriteError(w, r, http.StatusBadRequest, "invalid_range", err.Error())
	case errors.Is(err, domain.ErrUnknownJobType),
		errors.Is(err, domain.ErrUnknownExperience),
		errors.Is(err, domain.ErrUnknownSortMode),
		errors.Is(err, domain.ErrUnknownViewMode):
		WriteError(w, r, http.StatusBadRequest, "unknown_value", err.Error())
	case errors.Is(err, errBadRequest):
		WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

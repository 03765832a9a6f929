package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/medbook-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// AuthEnvelope wraps login and OTP-validation responses.
type AuthEnvelope struct {
	Bearer string       `json:"Bearer,omitempty"`
	User   *domain.User `json:"user,omitempty"`
}

// AvailabilityEnvelope wraps availability-check responses.
type AvailabilityEnvelope struct {
	Available bool `json:"available"`
}

// PaginatedUsersEnvelope wraps the admin user listing.
type PaginatedUsersEnvelope struct {
	Data       []domain.User `json:"data"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps domain sentinel errors to HTTP status codes. Anything not
// wrapping a sentinel is a store or infrastructure fault and surfaces as 500.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

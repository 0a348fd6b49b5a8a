package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// userHeader identifies the acting user on per-user routes. Session handling
// lives in front of this service; by the time a request lands here the header
// is assumed trustworthy.
const userHeader = "X-User-ID"

var ErrMissingUser = errors.New("missing or invalid " + userHeader + " header")

// JSON writes v as a JSON response body with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response body", "error", err)
	}
}

// Detail writes the standard error body {"detail": msg}.
func Detail(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"detail": msg})
}

// Decode reads the request body as JSON into v.
func Decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// UserID extracts the acting user's id from the request headers.
func UserID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.Header.Get(userHeader))
	if err != nil {
		return uuid.Nil, ErrMissingUser
	}
	return id, nil
}

// Recover is a catch-all middleware: a panicking handler produces a generic
// 500 without leaking internals.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("Panic while serving request", "panic", rec, "path", r.URL.Path)
				Detail(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

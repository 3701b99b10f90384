package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mr-saberi/siite/internal/i18n"
)

// ValidationError is a malformed or incomplete request (400).
type ValidationError struct {
	Key   i18n.Key
	Field string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "validation failed: " + e.Field
	}
	return "validation failed"
}

// AuthError means no valid session or bad credentials (401). The message
// never says which part of a login was wrong.
type AuthError struct {
	Key i18n.Key
}

func (e *AuthError) Error() string { return "unauthenticated" }

// AuthorizationError is an authenticated caller without the admin role (403).
type AuthorizationError struct{}

func (e *AuthorizationError) Error() string { return "forbidden" }

type NotFoundError struct {
	Key i18n.Key
}

func (e *NotFoundError) Error() string { return "not found" }

// InternalError wraps an unexpected failure (500). Err is logged, never sent.
type InternalError struct {
	Key i18n.Key
	Err error
}

func (e *InternalError) Error() string { return "internal error: " + e.Err.Error() }

func (e *InternalError) Unwrap() error { return e.Err }

func invalid(key i18n.Key, field string) error {
	return &ValidationError{Key: key, Field: field}
}

func notFound(key i18n.Key) error {
	return &NotFoundError{Key: key}
}

func internal(key i18n.Key, err error) error {
	return &InternalError{Key: key, Err: err}
}

// writeError maps err to its status and writes a localized {message} body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation *ValidationError
		authn      *AuthError
		authz      *AuthorizationError
		missing    *NotFoundError
		failure    *InternalError
	)
	switch {
	case errors.As(err, &validation):
		writeMessage(w, r, http.StatusBadRequest, validation.Key)
	case errors.As(err, &authn):
		writeMessage(w, r, http.StatusUnauthorized, authn.Key)
	case errors.As(err, &authz):
		writeMessage(w, r, http.StatusForbidden, i18n.Forbidden)
	case errors.As(err, &missing):
		writeMessage(w, r, http.StatusNotFound, missing.Key)
	case errors.As(err, &failure):
		slog.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", failure.Err)
		writeMessage(w, r, http.StatusInternalServerError, failure.Key)
	default:
		slog.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeMessage(w, r, http.StatusInternalServerError, i18n.InternalError)
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeMessage(w http.ResponseWriter, r *http.Request, status int, key i18n.Key) {
	writeJSON(w, status, messageResponse{Message: i18n.T(i18n.FromRequest(r), key)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

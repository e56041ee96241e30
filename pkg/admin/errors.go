// Error handling utilities for the admin API.

package admin

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/waspceptor/waspceptor/pkg/endpoint"
	"github.com/waspceptor/waspceptor/pkg/httputil"
	"github.com/waspceptor/waspceptor/pkg/registry"
)

// Error codes and client-safe messages.
const (
	ErrCodeValidation  = "validation_failed"
	ErrCodeInvalidJSON = "invalid_json"
	ErrCodeBadBackup   = "invalid_backup"
	ErrCodeTooLarge    = "body_too_large"
	ErrCodeInternal    = "internal_error"

	ErrMsgNotFound        = "not found"
	ErrMsgInvalidJSON     = "Invalid JSON in request body"
	ErrMsgOperationFailed = "Operation failed"
)

// sanitizeError logs the full error server-side and returns a generic
// message that is safe to send to clients.
func sanitizeError(err error, log *slog.Logger, operation string, details ...any) string {
	if log != nil {
		args := []any{"operation", operation, "error", err}
		args = append(args, details...)
		log.Error("operation failed", args...)
	}
	return ErrMsgOperationFailed
}

// sanitizeJSONError logs a decode failure at debug level.
func sanitizeJSONError(err error, log *slog.Logger) string {
	if log != nil {
		log.Debug("JSON parsing failed", "error", err)
	}
	return ErrMsgInvalidJSON
}

// writeBodyError answers 413 when the body hit the size limit and 400 with
// code otherwise.
func (a *API) writeBodyError(w http.ResponseWriter, err error, code string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		a.log.Debug("request body too large", "limit", tooLarge.Limit)
		httputil.WriteError(w, http.StatusRequestEntityTooLarge, ErrCodeTooLarge,
			fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		return
	}
	httputil.WriteError(w, http.StatusBadRequest, code, sanitizeJSONError(err, a.log))
}

// writeDomainError maps registry and validation errors to responses.
func (a *API) writeDomainError(w http.ResponseWriter, err error, operation string, details ...any) {
	var vErr *endpoint.ValidationError
	switch {
	case errors.As(err, &vErr):
		a.log.Debug("validation failed", "operation", operation, "field", vErr.Field, "error", vErr.Message)
		httputil.WriteFieldError(w, ErrCodeValidation, vErr.Field, vErr.Message)
	case errors.Is(err, registry.ErrNotFound):
		httputil.WriteMessage(w, http.StatusNotFound, ErrMsgNotFound)
	default:
		httputil.WriteError(w, http.StatusInternalServerError, ErrCodeInternal, sanitizeError(err, a.log, operation, details...))
	}
}

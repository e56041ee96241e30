package endpoint

import (
	"fmt"
	"slices"
)

// ValidationError represents a missing or malformed field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on %s: %s", e.Field, e.Message)
}

func validateMethod(m string) error {
	if !slices.Contains(Methods, NormalizeMethod(m)) {
		return &ValidationError{Field: "method", Message: fmt.Sprintf("unsupported method: %s", m)}
	}
	return nil
}

// Informational (1xx) codes are rejected: net/http treats them as interim
// responses and would follow them with an implicit 200.
func validateStatus(code int) error {
	if code < 200 || code > 599 {
		return &ValidationError{Field: "statusCode", Message: fmt.Sprintf("status code must be between 200 and 599, got %d", code)}
	}
	return nil
}

func validateContentType(ct string) error {
	if !slices.Contains(ContentTypes, ct) {
		return &ValidationError{Field: "contentType", Message: fmt.Sprintf("unsupported content type: %s", ct)}
	}
	return nil
}

func validateDelay(ms int) error {
	if ms < 0 {
		return &ValidationError{Field: "delayMs", Message: "delay must be >= 0"}
	}
	return nil
}

package godev

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Meta is attached by the backend to every response.
type Meta struct {
	Timestamp  string `json:"timestamp"`
	DurationMs int64  `json:"durationMs"`
}

type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message *string         `json:"message"`
	Meta    Meta            `json:"meta"`
	Errors  []ErrorDetail   `json:"errors"`
}

// APIError is a non-2xx response or a success=false envelope.
type APIError struct {
	Status  int
	Message string
	Errors  []ErrorDetail
}

func newAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{Status: status}

	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil {
		apiErr.Message = stringValue(env.Message)
		apiErr.Errors = env.Errors
	}

	return apiErr
}

func (e *APIError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("api error: status %d", e.Status))
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	for _, d := range e.Errors {
		sb.WriteString("; ")
		if d.Field != "" {
			sb.WriteString(d.Field)
			sb.WriteString(": ")
		}
		sb.WriteString(d.Message)
	}
	return sb.String()
}

func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// ValidationError is raised before any network call when a payload is incomplete.
type ValidationError struct {
	Fields []ErrorDetail
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Message turns err into text fit for a person. Server-provided messages win;
// everything else (transport failures, decoding errors) yields fallback.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if len(apiErr.Errors) > 0 && apiErr.Errors[0].Message != "" {
			return apiErr.Errors[0].Message
		}
	}
	return fallback
}

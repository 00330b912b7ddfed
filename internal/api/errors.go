package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Sentinel errors mapped from well-known response codes.
var (
	ErrUnauthorized = errors.New("unauthorized: invalid or missing credentials")
	ErrNotFound     = errors.New("resource not found")

	// ErrUnsupportedVersion is returned when the backend reports an
	// API version outside the range this client understands.
	ErrUnsupportedVersion = errors.New("unsupported backend API version")
)

// APIError is a structured error decoded from the backend's JSON error
// body.
//
//nolint:revive // APIError is the canonical name for this exported type.
type APIError struct {
	// StatusCode is the HTTP status of the failed response.
	StatusCode int `json:"-"`

	// Code is the backend's machine-readable error code.
	Code string `json:"code"`

	// Message is the human-readable description.
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps well-known status codes onto sentinel errors so callers
// can match with errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return nil
	}
}

// decodeError turns a non-2xx response into an *APIError, falling back
// to the raw body when it isn't the backend's JSON error shape.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil || len(body) == 0 {
		apiErr.Message = http.StatusText(resp.StatusCode)
		return apiErr
	}

	if unmarshalErr := json.Unmarshal(body, apiErr); unmarshalErr != nil || apiErr.Message == "" {
		apiErr.Message = string(body)
	}
	return apiErr
}

// maxErrorBodyBytes bounds how much of an error body is read.
const maxErrorBodyBytes = 4096

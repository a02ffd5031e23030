package genai

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrEmptyResponse is returned when the model answered without any text.
var ErrEmptyResponse = errors.New("genai: response contained no text")

// APIError is a non-2xx answer from the Generative Language API.
type APIError struct {
	StatusCode int
	// Status is the canonical status name from the error body, e.g. UNAVAILABLE.
	Status  string
	Message string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("genai: %d %s: %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("genai: %d: %s", e.StatusCode, e.Message)
}

// Overloaded reports whether the service asked us to come back later.
func (e *APIError) Overloaded() bool {
	return e.StatusCode == http.StatusServiceUnavailable || e.Status == "UNAVAILABLE"
}

// IsOverloaded reports whether err is an overload signal from the API.
func IsOverloaded(err error) bool {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Overloaded()
	}
	return false
}

func newAPIError(status int, body []byte) *APIError {
	ae := &APIError{StatusCode: status}
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error.Message != "" {
		ae.Status = env.Error.Status
		ae.Message = env.Error.Message
		return ae
	}
	ae.Message = strings.TrimSpace(string(body))
	if ae.Message == "" {
		ae.Message = http.StatusText(status)
	}
	return ae
}

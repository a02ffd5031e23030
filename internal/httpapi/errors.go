package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"smartderm/internal/common/imgutil"
	"smartderm/internal/derm"
	"smartderm/internal/feedback"
	"smartderm/internal/parse"
	"smartderm/internal/pipeline"
	"smartderm/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// MsgSuperseded is returned when a newer request of the same screen replaced this one.
const MsgSuperseded = "Request superseded by a newer one."

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.ErrorResponse{Error: msg, Code: status})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps service errors to a status code and the user-facing message.
func statusFor(err error) (int, string) {
	switch {
	case pipeline.IsAllOverloaded(err):
		return http.StatusServiceUnavailable, derm.MsgAllOverloaded
	case errors.Is(err, parse.ErrUnparseable):
		return http.StatusUnprocessableEntity, derm.MsgUnparseable
	case errors.Is(err, derm.ErrNoResult):
		return http.StatusUnprocessableEntity, derm.MsgNoResult
	case pipeline.IsUpstream(err):
		return http.StatusBadGateway, err.Error()
	case derm.IsInvalidInput(err), errors.Is(err, feedback.ErrInvalid), errors.Is(err, imgutil.ErrNotImage):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, imgutil.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "upstream request timed out"
	}
	var he HTTPError
	if errors.As(err, &he) {
		return he.StatusCode(), he.Error()
	}
	return http.StatusInternalServerError, err.Error()
}

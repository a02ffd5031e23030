package pipeline

import (
	"errors"
	"strings"
)

// ErrNoModels is returned when Run is called with an empty candidate list.
var ErrNoModels = errors.New("pipeline: no candidate models")

// allOverloadedError is terminal: every candidate exhausted its retries on overload.
type allOverloadedError struct {
	models []string
	last   error
}

func (e allOverloadedError) Error() string {
	return "all models overloaded: " + strings.Join(e.models, ", ")
}

func (e allOverloadedError) Unwrap() error { return e.last }

// ErrAllOverloaded constructs the terminal overload error for models.
func ErrAllOverloaded(models []string, last error) error {
	return allOverloadedError{models: append([]string(nil), models...), last: last}
}

// IsAllOverloaded reports whether err means every candidate model was overloaded.
func IsAllOverloaded(err error) bool {
	var e allOverloadedError
	return errors.As(err, &e)
}

// upstreamError carries a non-overload failure from one model call.
type upstreamError struct {
	model string
	err   error
}

func (e upstreamError) Error() string { return "model " + e.model + ": " + e.err.Error() }

func (e upstreamError) Unwrap() error { return e.err }

// ErrUpstream wraps err as a non-retryable failure of model.
func ErrUpstream(model string, err error) error { return upstreamError{model: model, err: err} }

// IsUpstream reports whether err is a non-overload upstream failure.
func IsUpstream(err error) bool {
	var e upstreamError
	return errors.As(err, &e)
}

// UpstreamModel returns the model that produced an upstream error, if any.
func UpstreamModel(err error) (string, bool) {
	var e upstreamError
	if errors.As(err, &e) {
		return e.model, true
	}
	return "", false
}

package derm

import (
	"errors"
	"net/http"
)

// User-facing messages for terminal outcomes.
const (
	MsgAllOverloaded = "All models are currently overloaded. Please try again in a few minutes."
	MsgUnparseable   = "Could not parse the response. Please try again."
	MsgNoResult      = "No result found. Please try again."
)

// ErrNoResult means the model answered without any text.
var ErrNoResult = errors.New("no result found")

// invalidInputError signals a caller mistake (400).
type invalidInputError struct{ msg string }

func (e invalidInputError) Error() string { return e.msg }

func (e invalidInputError) StatusCode() int { return http.StatusBadRequest }

// ErrInvalidInput constructs an invalidInputError.
func ErrInvalidInput(msg string) error { return invalidInputError{msg: msg} }

// IsInvalidInput reports whether err is a caller mistake.
func IsInvalidInput(err error) bool {
	var e invalidInputError
	return errors.As(err, &e)
}

// GeolocationFailure is the reason a client could not supply coordinates.
type GeolocationFailure string

const (
	GeolocationUnsupported GeolocationFailure = "unsupported"
	GeolocationDenied      GeolocationFailure = "denied"
)

// geolocationError carries the static message shown in place of the map.
type geolocationError struct{ reason GeolocationFailure }

func (e geolocationError) Error() string {
	if e.reason == GeolocationUnsupported {
		return "Geolocation is not supported by your browser."
	}
	return "Unable to retrieve your location. Please enable location services."
}

func (e geolocationError) StatusCode() int { return http.StatusUnprocessableEntity }

// ErrGeolocation constructs the error for a failed geolocation read.
func ErrGeolocation(reason GeolocationFailure) error { return geolocationError{reason: reason} }

// IsGeolocation reports whether err is a geolocation failure.
func IsGeolocation(err error) bool {
	var e geolocationError
	return errors.As(err, &e)
}

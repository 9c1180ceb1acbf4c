package sentry

import (
	"errors"
	"fmt"
)

// ErrorKind buckets API failures into the categories the rest of the tool
// reacts to. Connectivity and auth failures on the initial project listing
// abort the run; everything else is contained to a single project.
type ErrorKind string

const (
	KindConnectivity ErrorKind = "connectivity"
	KindAuth         ErrorKind = "auth"
	KindNotFound     ErrorKind = "not-found"
	KindRateLimited  ErrorKind = "rate-limited"
	KindRemote       ErrorKind = "remote"
	KindValidation   ErrorKind = "validation"
)

// APIError is the error type every client method returns on failure.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Endpoint   string
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("sentry: %s (%d) on %s: %s", e.Kind, e.StatusCode, e.Endpoint, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("sentry: %s on %s: %v", e.Kind, e.Endpoint, e.Err)
	default:
		return fmt.Sprintf("sentry: %s on %s: %s", e.Kind, e.Endpoint, e.Message)
	}
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// KindOf reports the error kind for any error produced by this package;
// wrapped errors are unwrapped, anything else counts as connectivity.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindConnectivity
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// IsFatal reports whether an error should abort the whole run when it occurs
// before any per-project work has started.
func IsFatal(err error) bool {
	kind := KindOf(err)
	return kind == KindConnectivity || kind == KindAuth || kind == KindValidation
}

// kindForStatus maps a non-2xx response to its error kind.
func kindForStatus(status int) ErrorKind {
	switch {
	case status == 401 || status == 403:
		return KindAuth
	case status == 404:
		return KindNotFound
	case status == 429:
		return KindRateLimited
	default:
		return KindRemote
	}
}

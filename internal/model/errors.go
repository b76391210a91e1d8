package model

import (
	"errors"
	"fmt"
	"net/http"
)

// RequestIDHeader is the response header carrying the server request id.
const RequestIDHeader = "X-Request-Id"

var (
	// ErrMissingPackageName is returned when a submission has no package name.
	ErrMissingPackageName = errors.New("package name is required")

	// ErrTransport marks failures where no response was received
	// (DNS, connection refused, timeouts, cancelled contexts).
	ErrTransport = errors.New("transport failure")

	// ErrUnexpectedStatus marks responses whose status is outside the set
	// expected for the call.
	ErrUnexpectedStatus = errors.New("unexpected status")

	// ErrMalformedScan is returned when a scan was accepted but the response
	// body does not carry a usable scan id.
	ErrMalformedScan = errors.New("malformed scan response")
)

// Failure is the error returned by a failed report-service call.
// StatusCode is 0 when no response was received.
type Failure struct {
	// StatusCode is the HTTP status of the failed response.
	StatusCode int

	// RequestID is the x-request-id of the failed response, if any.
	RequestID string

	// Err is the underlying cause.
	Err error
}

// NewTransportFailure wraps an error raised before any response arrived.
func NewTransportFailure(err error) *Failure {
	return &Failure{Err: fmt.Errorf("%w: %w", ErrTransport, err)}
}

// NewStatusFailure builds a Failure for an unexpected response status.
func NewStatusFailure(uri string, statusCode int, header http.Header) *Failure {
	return &Failure{
		StatusCode: statusCode,
		RequestID:  header.Get(RequestIDHeader),
		Err:        fmt.Errorf("%w: %d from %s", ErrUnexpectedStatus, statusCode, uri),
	}
}

// Error implements error.
func (f *Failure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("request failed with status %d", f.StatusCode)
	}
	return f.Err.Error()
}

// Unwrap returns the underlying cause.
func (f *Failure) Unwrap() error {
	return f.Err
}

// AsFailure converts any error into a Failure. Errors that are not already
// a Failure are treated as transport failures.
func AsFailure(err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return NewTransportFailure(err)
}

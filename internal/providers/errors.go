package providers

import (
	"errors"
	"fmt"
	"time"
)

// ErrProviderUnavailable is returned when no upstream provider is configured.
var ErrProviderUnavailable = errors.New("provider unavailable")

// TimeoutError reports that an upstream call exceeded its time bound.
type TimeoutError struct {
	Provider string
	Op       string
	Timeout  time.Duration
	Err      error
}

func (e *TimeoutError) Error() string {
	if e.Timeout > 0 {
		return fmt.Sprintf("%s: %s timed out after %s", e.Provider, e.Op, e.Timeout)
	}
	return fmt.Sprintf("%s: %s timed out", e.Provider, e.Op)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// TransportError covers network failures and non-success HTTP statuses.
// StatusCode is zero when no response was received.
type TransportError struct {
	Provider   string
	Op         string
	StatusCode int
	RetryAfter time.Duration
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = "transport failure"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s: %s (status=%d)", e.Provider, e.Op, msg, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Op, msg)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RateLimited reports whether the upstream rejected the call for quota reasons.
func (e *TransportError) RateLimited() bool {
	return e.StatusCode == 429
}

// SchemaError reports a response body that does not match the expected shape.
type SchemaError struct {
	Provider string
	Op       string
	Field    string
	Reason   string
	Err      error
}

func (e *SchemaError) Error() string {
	reason := e.Reason
	if reason == "" && e.Err != nil {
		reason = e.Err.Error()
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: malformed response at %s: %s", e.Provider, e.Op, e.Field, reason)
	}
	return fmt.Sprintf("%s: %s: malformed response: %s", e.Provider, e.Op, reason)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// AsTimeoutError attempts to unwrap an error into a TimeoutError.
func AsTimeoutError(err error) (*TimeoutError, bool) {
	var target *TimeoutError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// AsTransportError attempts to unwrap an error into a TransportError.
func AsTransportError(err error) (*TransportError, bool) {
	var target *TransportError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// AsSchemaError attempts to unwrap an error into a SchemaError.
func AsSchemaError(err error) (*SchemaError, bool) {
	var target *SchemaError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

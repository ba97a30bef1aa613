// Package errs defines the error kinds shared by the source registry, the
// resolvable pool and the manager facade.
//
// Callers classify failures with errors.Is against the sentinels and
// errors.As against *PartialError. Every error returned by the core packages
// wraps exactly one of the sentinels below, or is a *PartialError.
package errs

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a source id or resolvable name is unknown
	ErrNotFound = errors.New("not found")
	// ErrScan is returned when media is unreachable or carries no product descriptor
	ErrScan = errors.New("scan failed")
	// ErrIO is returned when persisting or restoring source definitions fails
	ErrIO = errors.New("i/o failure")
	// ErrUnknownFilter is returned as a warning when a query uses an unrecognized status filter
	ErrUnknownFilter = errors.New("unknown status filter")
)

// Failure records one failed item of a batch operation.
type Failure struct {
	// Item identifies the failed element (a source id, product dir, ...)
	Item string `json:"item"`
	// Err is the cause
	Err error `json:"-"`
}

// Message returns the error text of the failure, used for JSON rendering.
func (f Failure) Message() string {
	if f.Err == nil {
		return ""
	}
	return f.Err.Error()
}

// PartialError is returned by best-effort batch operations when some items
// failed. The successful subset is returned next to it by the operation.
type PartialError struct {
	Op       string
	Failures []Failure
}

// Add records a failure for item.
func (e *PartialError) Add(item string, err error) {
	e.Failures = append(e.Failures, Failure{Item: item, Err: err})
}

// OrNil returns e if it holds failures and nil otherwise.
func (e *PartialError) OrNil() error {
	if e == nil || len(e.Failures) == 0 {
		return nil
	}
	return e
}

func (e *PartialError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Item, f.Err))
	}
	return fmt.Sprintf("%s: %d item(s) failed: %s", e.Op, len(e.Failures), strings.Join(parts, "; "))
}

// Unwrap exposes the individual causes to errors.Is and errors.As.
func (e *PartialError) Unwrap() []error {
	causes := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		causes = append(causes, f.Err)
	}
	return causes
}

// NotFoundf wraps ErrNotFound with a formatted message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// Scan wraps cause as a scan failure for the given location.
func Scan(location string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%s: %w", location, ErrScan)
	}
	return fmt.Errorf("%s: %w: %w", location, ErrScan, cause)
}

// IO wraps cause as a persistence failure.
func IO(op string, cause error) error {
	return fmt.Errorf("failed to %s: %w: %w", op, ErrIO, cause)
}

// Error kind names reported by Kind
const (
	KindNotFound      = "not_found"
	KindScan          = "scan"
	KindIO            = "io"
	KindUnknownFilter = "unknown_filter"
	KindPartial       = "partial"
	KindCanceled      = "canceled"
	KindInternal      = "internal"
)

// Kind names the error kind err belongs to, or "" for a nil error.
// A *PartialError is reported as partial whatever its causes are.
func Kind(err error) string {
	var partial *PartialError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &partial):
		return KindPartial
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrScan):
		return KindScan
	case errors.Is(err, ErrIO):
		return KindIO
	case errors.Is(err, ErrUnknownFilter):
		return KindUnknownFilter
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindInternal
	}
}

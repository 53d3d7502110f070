package gerr

import (
	"errors"
	"fmt"
)

var (
	// ErrNoValidRows marks a property whose upstream rows all failed
	// numeric parsing.
	ErrNoValidRows = errors.New("no valid rows")

	// ErrBatchCancelled is returned when the caller's context is cancelled
	// before the batch completes. No partial response is produced.
	ErrBatchCancelled = errors.New("report batch cancelled")

	// ErrUpstreamUnavailable is returned when every property query failed
	// at the transport level, i.e. the analytics service is unreachable.
	ErrUpstreamUnavailable = errors.New("analytics service unavailable")

	// ErrMailerDisabled is returned by a mailer constructed without an API
	// key.
	ErrMailerDisabled = errors.New("mailer disabled")
)

// ValidationError fails an entire request before any property query is
// dispatched.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// NewValidation creates a ValidationError for the given field.
func NewValidation(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// QueryErrorKind classifies a failed upstream query.
type QueryErrorKind string

const (
	KindAuth            QueryErrorKind = "auth"
	KindQuota           QueryErrorKind = "quota"
	KindInvalidProperty QueryErrorKind = "invalid_property"
	KindTimeout         QueryErrorKind = "timeout"
	KindTransport       QueryErrorKind = "transport"
	KindOther           QueryErrorKind = "other"
)

// QueryError is a failure of a single property query. It is isolated to
// that property and never aborts sibling queries.
type QueryError struct {
	Kind QueryErrorKind
	Msg  string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// NewQueryError creates a classified query error.
func NewQueryError(kind QueryErrorKind, format string, args ...any) *QueryError {
	return &QueryError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

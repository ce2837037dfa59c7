package core

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can react without string matching.
type Kind string

// Failure kinds surfaced by dbdeck operations.
const (
	// KindConnectivity means the store cannot be reached or authenticated to.
	KindConnectivity Kind = "connectivity"
	// KindReflection means schema or table metadata could not be resolved.
	KindReflection Kind = "reflection"
	// KindQuery means a read statement failed.
	KindQuery Kind = "query"
	// KindUpdate means a write statement failed inside a reconciliation;
	// the surrounding transaction has been rolled back in full.
	KindUpdate Kind = "update"
	// KindAmbiguousTarget means a reconciliation was refused because the
	// table has no primary key to target updates with.
	KindAmbiguousTarget Kind = "ambiguous_target"
	// KindInvalidInput means the caller supplied parameters outside the
	// operation's domain (negative page index, zero page size, ...).
	KindInvalidInput Kind = "invalid_input"
)

// Error is a classified failure. It wraps the underlying cause, if any.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds a classified error without an underlying cause.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds a classified error around cause. A nil cause yields nil.
func Wrap(kind Kind, cause error, format string, args ...any) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf extracts the kind of err, or "" if err carries no classification.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Diagnostic records a degraded-path failure that was absorbed rather than
// surfaced as an error, e.g. a table skipped during a schema export.
type Diagnostic struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// DiagnosticFrom flattens err into a Diagnostic.
func DiagnosticFrom(err error) Diagnostic {
	var e *Error
	if errors.As(err, &e) {
		msg := e.Message
		if e.Err != nil {
			msg = fmt.Sprintf("%s: %v", e.Message, e.Err)
		}
		return Diagnostic{Kind: e.Kind, Message: msg}
	}
	return Diagnostic{Kind: KindQuery, Message: err.Error()}
}

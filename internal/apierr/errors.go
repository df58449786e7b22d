package apierr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"google.golang.org/api/googleapi"
)

// Kind classifies a failed tool operation. Every error that crosses the
// dispatch boundary carries exactly one kind.
type Kind string

const (
	KindValidation       Kind = "validation_error"
	KindUnknownTool      Kind = "unknown_tool"
	KindNotFound         Kind = "not_found"
	KindPermissionDenied Kind = "permission_denied"
	KindQuotaExceeded    Kind = "quota_exceeded"
	KindInvalidArgument  Kind = "invalid_argument"
	KindTransient        Kind = "transient_network_error"
	KindRateLimited      Kind = "rate_limit_exceeded"
	KindUnknown          Kind = "unknown_error"
)

// Error is the taxonomy error type surfaced by service adapters and the
// dispatcher. Operation names the action that failed (e.g. "searching files").
type Error struct {
	Kind      Kind
	Operation string
	Message   string
	cause     error
}

func (e *Error) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("%s while %s: %s", e.Kind, e.Operation, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a taxonomy error without an underlying cause.
func New(kind Kind, operation, message string) *Error {
	return &Error{Kind: kind, Operation: operation, Message: message}
}

// Wrap attaches a kind and operation to an underlying error.
func Wrap(kind Kind, operation string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Operation: operation, Message: err.Error(), cause: err}
}

// KindOf extracts the kind from an error chain. Errors that never passed
// through this package classify as KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Retryable reports whether the error is eligible for the dispatcher's
// bounded retry policy. Only transient network failures are retried.
func Retryable(err error) bool {
	return KindOf(err) == KindTransient
}

// FromGoogle classifies an error returned by a google.golang.org/api client
// call. HTTP status codes map onto the taxonomy; timeouts and transport
// failures classify as transient.
func FromGoogle(operation string, err error) error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return err
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusNotFound:
			return Wrap(KindNotFound, operation, err)
		case http.StatusForbidden:
			return Wrap(KindPermissionDenied, operation, err)
		case http.StatusTooManyRequests:
			return Wrap(KindQuotaExceeded, operation, err)
		case http.StatusBadRequest:
			return Wrap(KindInvalidArgument, operation, err)
		case http.StatusUnauthorized:
			return Wrap(KindPermissionDenied, operation, err)
		}
		if gerr.Code >= 500 {
			return Wrap(KindTransient, operation, err)
		}
		return Wrap(KindUnknown, operation, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(KindTransient, operation, err)
	}

	var nerr net.Error
	if errors.As(err, &nerr) {
		return Wrap(KindTransient, operation, err)
	}

	return Wrap(KindUnknown, operation, err)
}

// Hint returns the remediation text appended to error responses for a kind.
// Empty when no actionable advice exists.
func Hint(kind Kind) string {
	switch kind {
	case KindNotFound:
		return "Verify the resource ID and that it is shared with this account."
	case KindPermissionDenied:
		return "Check that the account has the necessary permissions for this operation."
	case KindQuotaExceeded:
		return "The Google API quota was exhausted. Wait a moment and try again."
	case KindInvalidArgument:
		return "One of the request parameters was rejected by the API. Review the tool arguments."
	case KindTransient:
		return "A temporary network failure occurred. The request was retried; try again shortly."
	case KindRateLimited:
		return "Too many requests in a short period. Slow down and retry."
	case KindValidation:
		return "Fix the listed argument violations and call the tool again."
	case KindUnknownTool:
		return "Use the tool discovery listing to find the available tool names."
	default:
		return ""
	}
}

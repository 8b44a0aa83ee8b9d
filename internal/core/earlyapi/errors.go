package earlyapi

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind tags the closed set of failure classes the transport can produce.
// Handlers match on kind instead of probing status codes or messages.
type Kind string

const (
	// KindValidation is a local precondition failure raised before any
	// network call.
	KindValidation Kind = "validation"
	// KindAuth means credentials are missing or were rejected upstream.
	KindAuth Kind = "auth"
	// KindNotFound is an upstream 404. Meaningful (no active timer) for
	// tracking queries, a genuine failure for lookups by id.
	KindNotFound Kind = "not_found"
	// KindConflict is an upstream 409.
	KindConflict Kind = "conflict"
	// KindUpstream is any other non-2xx response.
	KindUpstream Kind = "upstream"
)

// APIError is the one error type crossing the transport boundary.
type APIError struct {
	Kind    Kind
	Status  int    // HTTP status, 0 for local errors
	Message string // upstream message verbatim, or the local precondition
	Detail  string // raw upstream response body, when available
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("early API error (%d): %s", e.Status, e.Message)
	}
	return e.Message
}

// ValidationError builds a local precondition failure.
func ValidationError(format string, args ...any) *APIError {
	return &APIError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// statusError classifies an upstream non-2xx response.
func statusError(status int, message, detail string) *APIError {
	kind := KindUpstream
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = KindAuth
	case http.StatusNotFound:
		kind = KindNotFound
	case http.StatusConflict:
		kind = KindConflict
	}
	return &APIError{Kind: kind, Status: status, Message: message, Detail: detail}
}

func isKind(err error, kind Kind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool { return isKind(err, KindNotFound) }

// IsAuth reports whether err is an authentication failure.
func IsAuth(err error) bool { return isKind(err, KindAuth) }

// IsConflict reports whether err is an upstream 409.
func IsConflict(err error) bool { return isKind(err, KindConflict) }

// IsValidation reports whether err is a local precondition failure.
func IsValidation(err error) bool { return isKind(err, KindValidation) }

// Where: internal/errs/errors.go
// What: Shared error taxonomy for the sync pipeline.
// Why: Let callers classify failures without string matching.
package errs

import (
	"errors"
	"fmt"
)

// Kind identifies the failure class of a pipeline error.
type Kind string

const (
	// KindConfiguration marks missing tokens, credentials, or target
	// coordinates. Raised before any network I/O and never retried.
	KindConfiguration Kind = "configuration"

	// KindAuthentication marks a 401 from the upstream API or the CDN.
	KindAuthentication Kind = "authentication"

	// KindAuthorization marks a 403 from the CDN: the token is valid but
	// lacks permission for the namespace.
	KindAuthorization Kind = "authorization"

	// KindUpstreamHTTP marks any other non-2xx status from the source API.
	KindUpstreamHTTP Kind = "upstream_http"

	// KindUpstreamProtocol marks a malformed JSON body from the source API.
	KindUpstreamProtocol Kind = "upstream_protocol"

	// KindNetwork marks connection, DNS, and timeout failures.
	KindNetwork Kind = "network"

	// KindFilesystem marks directory creation or write failures.
	KindFilesystem Kind = "filesystem"

	// KindRemoteRejection marks an explicit error response from the CDN
	// write API despite a successful HTTP exchange.
	KindRemoteRejection Kind = "remote_rejection"

	// KindNotFound marks a missing local source artifact. Correct stage
	// ordering makes this unreachable; it flags a sequencing bug.
	KindNotFound Kind = "not_found"
)

// Error is a classified pipeline error. Status is set for HTTP-derived
// kinds and zero otherwise.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a classified error around an underlying cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

// WithStatus creates a classified error carrying an HTTP status code.
func WithStatus(kind Kind, status int, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Status: status}
}

// KindOf returns the kind of err, or the empty Kind for unclassified errors.
func KindOf(err error) Kind {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// StatusOf returns the HTTP status carried by err, or zero.
func StatusOf(err error) int {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Status
	}
	return 0
}

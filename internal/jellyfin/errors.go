package jellyfin

import (
	"errors"
	"fmt"
)

// Kind classifies client failures so callers can react per class.
type Kind int

const (
	// KindTransport covers connection, DNS and TLS failures.
	KindTransport Kind = iota
	// KindHTTP covers non-2xx responses other than 401.
	KindHTTP
	// KindAuth is an HTTP 401 from the server.
	KindAuth
	// KindParse means the server was reachable but the payload did not
	// match the expected shape.
	KindParse
	// KindIO covers disk cache read/write failures.
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindHTTP:
		return "http"
	case KindAuth:
		return "authentication"
	case KindParse:
		return "parse"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// Error is a classified client failure.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindHTTP && e.Message != "":
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	case e.Kind == KindHTTP:
		return fmt.Sprintf("server returned %d", e.Status)
	case e.Kind == KindAuth:
		if e.Message != "" {
			return fmt.Sprintf("authentication failed: %s", e.Message)
		}
		return "authentication failed"
	case e.Err != nil:
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the failure class of err, if it carries one.
func KindOf(err error) (Kind, bool) {
	var clientErr *Error
	if errors.As(err, &clientErr) {
		return clientErr.Kind, true
	}
	return 0, false
}

// IsAuthFailed reports whether err is a 401 from the server.
func IsAuthFailed(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindAuth
}

func transportError(err error) *Error {
	return &Error{Kind: KindTransport, Err: err}
}

func httpError(status int, body string) *Error {
	if status == 401 {
		return &Error{Kind: KindAuth, Status: status, Message: body}
	}
	return &Error{Kind: KindHTTP, Status: status, Message: body}
}

func parseError(err error) *Error {
	return &Error{Kind: KindParse, Err: err}
}

func ioError(err error) *Error {
	return &Error{Kind: KindIO, Err: err}
}

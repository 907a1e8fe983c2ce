package suggest

import "errors"

// Kind classifies why a suggestion request did not produce suggestions.
type Kind int

const (
	// ConnectionFailure covers transport errors: refused, DNS, reset, timeout, cancel.
	ConnectionFailure Kind = iota + 1
	// HTTPError means the server answered with a non-2xx status.
	HTTPError
	// MalformedResponse means the body could not be decoded or had no suggestions.
	MalformedResponse
	// MissingArgument means fewer than three positional inputs were given.
	MissingArgument
	// InvalidArgument means an input cannot be sent without altering it (invalid UTF-8).
	InvalidArgument
)

func (k Kind) String() string {
	switch k {
	case ConnectionFailure:
		return "ConnectionFailure"
	case HTTPError:
		return "HTTPError"
	case MalformedResponse:
		return "MalformedResponse"
	case MissingArgument:
		return "MissingArgument"
	case InvalidArgument:
		return "InvalidArgument"
	default:
		return "Unknown"
	}
}

// Error is returned by every failing operation in this package.
// Its message is what ends up after the [ERROR] marker.
type Error struct {
	Kind       Kind
	StatusCode int // only set for HTTPError
	Msg        string
	Err        error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	if e.Msg == "" {
		return e.Err.Error()
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is (or wraps) an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind == k
	}
	return false
}

package registry

import "errors"

// FailureKind classifies a lookup failure.
type FailureKind string

const (
	// KindInvalidInput means the code failed the 14-digit precondition.
	// Detected before any network call.
	KindInvalidInput FailureKind = "invalid_input"
	// KindNotFound means the registry confirmed the code does not exist.
	KindNotFound FailureKind = "not_found"
	// KindRemoteError covers any non-200/404/429 status.
	KindRemoteError FailureKind = "remote_error"
	// KindConnectionError covers transport-level failures (DNS, timeout,
	// refused connection, TLS). Never retried automatically.
	KindConnectionError FailureKind = "connection_error"
)

// Failure is a classified, terminal lookup failure. Message is the
// user-facing text and is surfaced verbatim; there is no separate error
// channel in this tool.
type Failure struct {
	Kind    FailureKind
	Message string
}

func (f *Failure) Error() string { return f.Message }

// AsFailure unwraps err into a *Failure if it is one.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

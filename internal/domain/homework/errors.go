// internal/domain/homework/errors.go
package homework

import (
	"errors"
	"fmt"
)

// Kind classifies a failure raised anywhere in the polling pipeline.
type Kind string

const (
	KindConfig        Kind = "CONFIG"
	KindNetwork       Kind = "NETWORK"
	KindEndpoint      Kind = "ENDPOINT"
	KindFormat        Kind = "FORMAT"
	KindType          Kind = "TYPE"
	KindUnknownStatus Kind = "UNKNOWN_STATUS"
	KindDispatch      Kind = "DISPATCH"
)

// Pipeline stages recorded in Error.Op.
const (
	OpConfig    = "config"
	OpFetch     = "fetch"
	OpValidate  = "validate"
	OpInterpret = "interpret"
	OpDispatch  = "dispatch"
)

// Error is the single error type returned by the pipeline layers.
// Inner layers only classify; the poller decides what reaches the chat.
type Error struct {
	Kind Kind
	Op   string // one of the Op* stages
	Msg  string
	Err  error

	// Endpoint diagnostics
	StatusCode int
	Reason     string
	Body       string

	// Offending status code for KindUnknownStatus
	Status Status
}

func (e *Error) Error() string { return e.format(true) }

// Summary is Error without the endpoint response body. It is the text users see,
// so a body carrying request ids or timestamps does not defeat dedup.
func (e *Error) Summary() string { return e.format(false) }

func (e *Error) format(withBody bool) string {
	msg := e.Msg
	switch e.Kind {
	case KindEndpoint:
		msg = fmt.Sprintf("%s: status_code=%d, reason=%s", e.Msg, e.StatusCode, e.Reason)
		if withBody {
			msg = fmt.Sprintf("%s, body=%s", msg, e.Body)
		}
	case KindUnknownStatus:
		msg = fmt.Sprintf("%s: %q", e.Msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Op == "" {
		return msg
	}
	return e.Op + ": " + msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, or "" if err is not a pipeline error.
func KindOf(err error) Kind {
	var he *Error
	if errors.As(err, &he) {
		return he.Kind
	}
	return ""
}

// IsKind reports whether err is a pipeline error of kind k.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

func NewConfigError(msg string, err error) *Error {
	return &Error{Kind: KindConfig, Op: OpConfig, Msg: msg, Err: err}
}

func NewNetworkError(msg string, err error) *Error {
	return &Error{Kind: KindNetwork, Op: OpFetch, Msg: msg, Err: err}
}

func NewEndpointError(statusCode int, reason, body string) *Error {
	return &Error{
		Kind:       KindEndpoint,
		Op:         OpFetch,
		Msg:        "unexpected API response",
		StatusCode: statusCode,
		Reason:     reason,
		Body:       body,
	}
}

func newFormatError(op, msg string, err error) *Error {
	return &Error{Kind: KindFormat, Op: op, Msg: msg, Err: err}
}

func newTypeError(op, msg string) *Error {
	return &Error{Kind: KindType, Op: op, Msg: msg}
}

func newUnknownStatusError(status Status) *Error {
	return &Error{Kind: KindUnknownStatus, Op: OpInterpret, Msg: "unknown homework status", Status: status}
}

func NewDispatchError(err error) *Error {
	return &Error{Kind: KindDispatch, Op: OpDispatch, Msg: "failed to send message", Err: err}
}

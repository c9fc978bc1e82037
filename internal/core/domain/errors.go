package domain

import (
	"errors"
	"fmt"
)

// Domain errors classify failures of the native connector binding.
// These are distinct from transport errors in the proxy layer.
var (
	// ErrLoading indicates the native module could not be loaded or one of
	// its required entry points could not be resolved.
	ErrLoading = errors.New("module loading failed")

	// ErrInitialization indicates the native Initialize call failed.
	ErrInitialization = errors.New("connector initialization failed")

	// ErrInvalidCommand indicates the connector rejected a command or a
	// command precondition was violated.
	ErrInvalidCommand = errors.New("invalid command")

	// ErrInternal indicates a native exception or a violation of the
	// native protocol, e.g. an unexpected message shape.
	ErrInternal = errors.New("internal connector error")

	// ErrIO indicates a proxy transport failure.
	ErrIO = errors.New("io error")
)

// Error carries the context of a failed native call: the entry point that
// failed, the offending command text (if any) and the message text returned
// by the connector. It unwraps to one of the sentinel errors above.
type Error struct {
	// Kind is one of the sentinel errors.
	Kind error

	// Op is the native entry point, e.g. "SendCommand".
	Op string

	// Cmd is the command text that triggered the failure, empty when not
	// applicable.
	Cmd string

	// Message is the text returned by the connector.
	Message string
}

func (e *Error) Error() string {
	switch {
	case e.Op == "":
		return e.Message
	case e.Cmd == "":
		return fmt.Sprintf("txc.%s: %s", e.Op, e.Message)
	default:
		return fmt.Sprintf("txc.%s(%q): %s", e.Op, e.Cmd, e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NewError builds an Error of the given kind.
func NewError(kind error, op, cmd, message string) *Error {
	return &Error{Kind: kind, Op: op, Cmd: cmd, Message: message}
}

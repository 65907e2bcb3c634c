package core

import (
	"errors"
	"fmt"
)

// Exit codes returned by the CLI.
const (
	ExitOK             = 0
	ExitRuntime        = 1
	ExitUsage          = 2
	ExitNotFound       = 4
	ExitNotImplemented = 5
	ExitCapability     = 6
)

// Kind classifies core errors.
type Kind string

const (
	KindFormat          Kind = "FormatError"
	KindCapability      Kind = "CapabilityError"
	KindDeviceQuery     Kind = "DeviceQueryError"
	KindTransport       Kind = "TransportError"
	KindUnknownCommand  Kind = "UnknownCommandError"
	KindNotImplemented  Kind = "NotImplementedError"
	KindInvalidArgument Kind = "InvalidArgumentError"
	KindNotFound        Kind = "NotFoundError"
)

// Sentinels for errors.Is matching by kind.
var (
	ErrFormat          = &Error{Kind: KindFormat}
	ErrCapability      = &Error{Kind: KindCapability}
	ErrDeviceQuery     = &Error{Kind: KindDeviceQuery}
	ErrTransport       = &Error{Kind: KindTransport}
	ErrUnknownCommand  = &Error{Kind: KindUnknownCommand}
	ErrNotImplemented  = &Error{Kind: KindNotImplemented}
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument}
	ErrNotFound        = &Error{Kind: KindNotFound}
)

// Error is the error type returned by every core operation.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	prefix := string(e.Kind)
	if e.Op != "" {
		prefix = fmt.Sprintf("%s: %s", prefix, e.Op)
	}
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", prefix, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", prefix, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", prefix, e.Err)
	default:
		return prefix
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind Kind, op string, msg string, err error) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: err}
}

// Errorf builds an *Error of the given kind.
func Errorf(kind Kind, op string, format string, args ...any) *Error {
	return newError(kind, op, fmt.Sprintf(format, args...), nil)
}

// KindOf returns the kind of err, or "" when err is not a core error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// ExitCode returns the CLI exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch KindOf(err) {
	case KindUnknownCommand, KindInvalidArgument, KindFormat:
		return ExitUsage
	case KindNotFound:
		return ExitNotFound
	case KindNotImplemented:
		return ExitNotImplemented
	case KindCapability:
		return ExitCapability
	default:
		return ExitRuntime
	}
}

package fsenv

import (
	"errors"
	"fmt"
	"syscall"
)

// Code classifies the result of an environment operation.
type Code int

const (
	// CodeOK indicates success. It is never carried by a non-nil error;
	// successful operations return nil.
	CodeOK Code = iota
	// CodeIOError indicates a native I/O call failed.
	CodeIOError
	// CodeNotSupported indicates an operation that is recognized but
	// intentionally unimplemented by the environment.
	CodeNotSupported
)

// String returns a string representation of the Code.
func (c Code) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeIOError:
		return "io error"
	case CodeNotSupported:
		return "not supported"
	default:
		return "unknown"
	}
}

// Error is the portable status produced by every failing Env operation.
//
// Context identifies the resource or operation the failure originated
// from (usually the path) and is never empty, so the origin of a failure
// is always diagnosable. The original underlying error (if any) can be
// accessed via errors.Unwrap.
type Error struct {
	Code    Code
	Context string
	Message string
	cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Context, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// NewIOError translates a native failure into an IOError status.
// The message is the system-provided description of the failure,
// falling back to "unknown system error <code>" when the platform
// cannot supply one.
func NewIOError(context string, cause error) *Error {
	return &Error{
		Code:    CodeIOError,
		Context: nonEmptyContext(context),
		Message: sysErrorMessage(cause),
		cause:   cause,
	}
}

// NewNotSupported reports an operation that this environment recognizes
// but does not implement.
func NewNotSupported(context, message string) *Error {
	return &Error{
		Code:    CodeNotSupported,
		Context: nonEmptyContext(context),
		Message: message,
	}
}

// IsIOError reports whether err carries CodeIOError.
func IsIOError(err error) bool { return StatusCode(err) == CodeIOError }

// IsNotSupported reports whether err carries CodeNotSupported.
func IsNotSupported(err error) bool { return StatusCode(err) == CodeNotSupported }

// StatusCode extracts the Code from an error returned by an Env
// operation. nil maps to CodeOK; errors that did not originate from this
// package are treated as I/O failures.
func StatusCode(err error) Code {
	if err == nil {
		return CodeOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeIOError
}

func nonEmptyContext(context string) string {
	if context == "" {
		return "unknown"
	}
	return context
}

// sysErrorMessage produces a human-readable description of a native
// failure. For errno-backed errors the description is the system message
// plus the symbolic errno name where the platform provides one.
func sysErrorMessage(err error) string {
	if err == nil {
		return "unknown system error 0"
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		msg := errno.Error()
		if msg == "" {
			return fmt.Sprintf("unknown system error %d", uintptr(errno))
		}
		if name := errnoName(errno); name != "" {
			return fmt.Sprintf("%s (%s)", msg, name)
		}
		return msg
	}

	return err.Error()
}

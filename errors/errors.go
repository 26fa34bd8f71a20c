package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode identifies a class of composition failure.
// Codes are comparable with errors.Is against any *Error carrying them.
type ErrorCode string

const (
	// ErrInvalidRange indicates a code-unit range endpoint outside [0, 0xFFFF]
	// or a range whose left endpoint exceeds its right endpoint.
	ErrInvalidRange ErrorCode = "invalid-range"
	// ErrScannerCoverage indicates the scanner failed to classify part of its
	// input. It always signals a defect in the token grammar.
	ErrScannerCoverage ErrorCode = "scanner-coverage-violation"
	// ErrUnsupportedInterpolation indicates a value interpolated where its
	// meaning cannot be preserved, such as next to a range dash in a charset.
	ErrUnsupportedInterpolation ErrorCode = "unsupported-interpolation"
	// ErrArity indicates the literal and value counts do not line up.
	ErrArity ErrorCode = "template-arity"
	// ErrInvalidOptions indicates a composer option outside its valid domain.
	ErrInvalidOptions ErrorCode = "invalid-options"
)

// Error returns the code itself so a bare code can be used as a sentinel.
func (c ErrorCode) Error() string {
	return string(c)
}

// Error describes a composition failure with its code and the input that
// triggered it.
//
//nolint:errname // public API name mirrors the package.
type Error struct {
	Code    ErrorCode
	Message string
	// Input is the offending text: the residual unconsumed source for
	// scanner failures, the literal segment for interpolation failures.
	Input  string
	Offset int
}

// Error formats the error with its code, message, and context.
func (e *Error) Error() string {
	if e == nil {
		return "rxtemplate <nil>"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))
	if e.Offset > 0 {
		b.WriteString(fmt.Sprintf(" at offset %d", e.Offset))
	}
	if e.Input != "" {
		b.WriteString(fmt.Sprintf(" (input: %q)", e.Input))
	}
	return b.String()
}

// Is reports whether target is the code carried by e.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	code, ok := target.(ErrorCode)
	return ok && code == e.Code
}

// New builds an Error with a code and message.
func New(code ErrorCode, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Newf formats a message and builds an Error.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// WithInput returns a copy of e annotated with the offending input and offset.
func (e *Error) WithInput(input string, offset int) *Error {
	out := *e
	out.Input = input
	out.Offset = offset
	return &out
}

// CodeOf extracts the code from an error chain.
func CodeOf(err error) (ErrorCode, bool) {
	if err == nil {
		return "", false
	}
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e.Code, true
	}
	var code ErrorCode
	if errors.As(err, &code) {
		return code, true
	}
	return "", false
}

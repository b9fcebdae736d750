// Package errors provides coded error values for layout messages, config
// loading and the IPC surface.
//
// Layout messages never panic on bad input: they return an *Error whose Code
// tells the caller (CLI, server, preview) how to report it.
//
//	err := errors.New(errors.ErrCodeInvalidArgument, "bad ratio %q", arg)
//	if errors.Is(err, errors.ErrCodeInvalidArgument) {
//	    // show usage
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine readable error category.
type Code string

const (
	ErrCodeInvalidCommand  Code = "INVALID_COMMAND"
	ErrCodeInvalidArgument Code = "INVALID_ARGUMENT"
	ErrCodeNoTarget        Code = "NO_TARGET"
	ErrCodeUnknownStrategy Code = "UNKNOWN_STRATEGY"
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeConfig          Code = "CONFIG_ERROR"
	ErrCodeStore           Code = "STORE_ERROR"
	ErrCodeAssertion       Code = "ASSERTION_FAILED"
	ErrCodeInternal        Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code, or "" for foreign errors.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

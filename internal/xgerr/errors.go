// Package xgerr classifies the failures that can occur while expanding an
// XGen procedural into curve geometry.
package xgerr

import (
	"errors"
	"fmt"
)

// Class tells the caller what to do with a failure.
type Class int

const (
	// ClassAbort ends the current expansion. The host keeps running.
	ClassAbort Class = iota
	// ClassSkip drops the current flush call; traversal continues.
	ClassSkip
)

// String returns the string representation of Class.
func (c Class) String() string {
	switch c {
	case ClassAbort:
		return "abort"
	case ClassSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// Standard error variables for expansion failures.
var (
	ErrMissingParameter = errors.New("missing required parameter")
	ErrUnknownPrimitive = errors.New("unknown primitive type")
	ErrGeneratorInit    = errors.New("generator initialization failed")
	ErrFaceRendererInit = errors.New("face renderer initialization failed")
	ErrOutOfRange       = errors.New("index out of range")
	ErrMalformedCache   = errors.New("malformed primitive cache")
	ErrNotFound         = errors.New("not found")
)

// ClassifiedError wraps an error with its class and the operation that failed.
type ClassifiedError struct {
	Class Class
	Op    string
	Err   error
}

// Error implements the error interface.
func (ce *ClassifiedError) Error() string {
	if ce.Op == "" {
		return ce.Err.Error()
	}
	return ce.Op + ": " + ce.Err.Error()
}

// Unwrap returns the underlying error.
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// Abort wraps err as terminal to the current expansion.
func Abort(op string, err error) error {
	if err == nil {
		return nil
	}
	return &ClassifiedError{Class: ClassAbort, Op: op, Err: err}
}

// Skip wraps err as recoverable: the caller logs it and moves on.
func Skip(op string, err error) error {
	if err == nil {
		return nil
	}
	return &ClassifiedError{Class: ClassSkip, Op: op, Err: err}
}

// Abortf formats a message around a sentinel and marks it terminal.
func Abortf(op string, sentinel error, format string, args ...any) error {
	return Abort(op, fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...))
}

// IsSkip reports whether err may be skipped without ending the expansion.
func IsSkip(err error) bool {
	if err == nil {
		return false
	}
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ClassSkip
	}
	return errors.Is(err, ErrUnknownPrimitive)
}

// ClassOf returns the class of err. Unclassified errors are terminal.
func ClassOf(err error) Class {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class
	}
	if errors.Is(err, ErrUnknownPrimitive) {
		return ClassSkip
	}
	return ClassAbort
}

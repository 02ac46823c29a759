package parser

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is
var (
	// ErrInputNotFound indicates a missing input file or a missing required field
	ErrInputNotFound = errors.New("input not found")

	// ErrMalformedInput indicates an argument or document that cannot be parsed
	ErrMalformedInput = errors.New("malformed input")

	// ErrOutputWrite indicates an output directory or file could not be written
	ErrOutputWrite = errors.New("output write failed")
)

// NotFoundError reports an input file, or a field inside it, that is absent.
type NotFoundError struct {
	// Path is the file that was read
	Path string
	// Field is the missing field, empty when the file itself is missing
	Field string
	Cause error
}

func (e *NotFoundError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: field %q not found", e.Path, e.Field)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: not found: %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("%s: not found", e.Path)
}

func (e *NotFoundError) Unwrap() error { return e.Cause }

func (e *NotFoundError) Is(target error) bool { return target == ErrInputNotFound }

// MalformedInputError reports a rule argument or input document that does not parse.
type MalformedInputError struct {
	// Input is the offending argument or file path
	Input  string
	Reason string
	Cause  error
}

func (e *MalformedInputError) Error() string {
	msg := fmt.Sprintf("malformed input %q: %s", e.Input, e.Reason)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *MalformedInputError) Unwrap() error { return e.Cause }

func (e *MalformedInputError) Is(target error) bool { return target == ErrMalformedInput }

// OutputWriteError reports a failure to create an output directory or file.
type OutputWriteError struct {
	Path  string
	Cause error
}

func (e *OutputWriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Cause)
}

func (e *OutputWriteError) Unwrap() error { return e.Cause }

func (e *OutputWriteError) Is(target error) bool { return target == ErrOutputWrite }

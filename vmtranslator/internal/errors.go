package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrUnrecognizedCommand is returned for an unknown opcode or a line whose
	// shape doesn't match any vm command.
	ErrUnrecognizedCommand = errors.New("unrecognized command")
	// ErrInvalidOperand is returned when a numeric operand is missing, not a
	// number, or out of range, and when a symbol is malformed.
	ErrInvalidOperand = errors.New("invalid operand")
	ErrUnknownSegment = errors.New("unknown segment")
	// ErrSegmentBounds is returned when a pointer, temp or static index falls
	// outside its reserved window.
	ErrSegmentBounds = errors.New("segment index out of bounds")
	ErrMissingFrame  = errors.New("return outside of any function")
)

// SyntaxError reports the vm line a translation failed on.
type SyntaxError struct {
	Module string
	Line   int
	Text   string
	Err    error
}

func (e *SyntaxError) Error() string {
	if e.Module == "" {
		return fmt.Sprintf("SyntaxError: %v near %q at line %d", e.Err, e.Text, e.Line)
	}
	return fmt.Sprintf("SyntaxError: %v near %q at %s line %d", e.Err, e.Text, e.Module, e.Line)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func makeError(kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

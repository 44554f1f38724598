package fbi

import (
	"context"
	"errors"
	"fmt"

	"github.com/kolkov/fbi/internal/compiler"
	"github.com/kolkov/fbi/internal/source"
	"github.com/kolkov/fbi/internal/tape"
)

// CompileErrorKind classifies a compile failure.
type CompileErrorKind int

const (
	SourceUnreadable CompileErrorKind = iota // Source file could not be read
	CodeExhausted                            // Bytecode grew past its limit
	UnmatchedClose                           // ']' without a pending '['
	UnmatchedOpen                            // '[' still open at end of input
	ImageInvalid                             // Bytecode image is corrupt
)

// String returns a human-readable name for the kind.
func (k CompileErrorKind) String() string {
	switch k {
	case SourceUnreadable:
		return "source unreadable"
	case CodeExhausted:
		return "code exhausted"
	case UnmatchedClose:
		return "unmatched close"
	case UnmatchedOpen:
		return "unmatched open"
	case ImageInvalid:
		return "image invalid"
	default:
		return fmt.Sprintf("CompileErrorKind(%d)", k)
	}
}

// CompileError reports why a program could not be built.
// No partial program is ever returned alongside it.
type CompileError struct {
	Kind    CompileErrorKind
	Path    string // Source file, when compiled from one
	Offset  int    // Byte offset of the offending symbol, or -1
	Line    int    // 1-based line of Offset, 0 when Offset is -1
	Column  int    // 1-based column of Offset
	Message string // Error description
	Err     error  // Underlying cause
}

func (e *CompileError) Error() string {
	msg := fmt.Sprintf("compile error: %s", e.Message)
	if e.Line > 0 {
		msg = fmt.Sprintf("compile error at %d:%d: %s", e.Line, e.Column, e.Message)
	}
	if e.Path != "" {
		return e.Path + ": " + msg
	}
	return msg
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// RuntimeErrorKind classifies an execution failure.
type RuntimeErrorKind int

const (
	TapeExhausted RuntimeErrorKind = iota // Growable tape hit its cell limit
	IOFailure                             // Reading input or writing output failed
	Canceled                              // Context canceled or deadline exceeded
	InvalidConfig                         // Tape configuration rejected
)

// String returns a human-readable name for the kind.
func (k RuntimeErrorKind) String() string {
	switch k {
	case TapeExhausted:
		return "tape exhausted"
	case IOFailure:
		return "I/O failure"
	case Canceled:
		return "canceled"
	case InvalidConfig:
		return "invalid config"
	default:
		return fmt.Sprintf("RuntimeErrorKind(%d)", k)
	}
}

// RuntimeError represents an error during program execution.
type RuntimeError struct {
	Kind    RuntimeErrorKind
	Message string // Error description
	Err     error  // Underlying cause
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error: %s", e.Message)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsCompileError reports whether err is a CompileError and returns it.
func IsCompileError(err error) (*CompileError, bool) {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsRuntimeError reports whether err is a RuntimeError and returns it.
func IsRuntimeError(err error) (*RuntimeError, bool) {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// newCompileError converts a compiler failure into the public type,
// resolving the offset into a line and column of src.
func newCompileError(err error, src []byte) *CompileError {
	ce := &CompileError{Offset: -1, Message: err.Error(), Err: err}

	var inner *compiler.CompileError
	if errors.As(err, &inner) {
		ce.Offset = inner.Offset
		ce.Message = inner.Err.Error()
	}
	switch {
	case errors.Is(err, compiler.ErrUnmatchedClose):
		ce.Kind = UnmatchedClose
	case errors.Is(err, compiler.ErrUnmatchedOpen):
		ce.Kind = UnmatchedOpen
	case errors.Is(err, compiler.ErrCodeExhausted):
		ce.Kind = CodeExhausted
	}
	if ce.Offset >= 0 {
		pos := source.PositionOf(string(src), ce.Offset)
		ce.Line, ce.Column = pos.Line, pos.Column
	}
	return ce
}

// newRuntimeError converts a VM failure into the public type.
func newRuntimeError(err error) *RuntimeError {
	re := &RuntimeError{Kind: IOFailure, Message: err.Error(), Err: err}
	switch {
	case errors.Is(err, tape.ErrExhausted):
		re.Kind = TapeExhausted
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		re.Kind = Canceled
	}
	return re
}

package compiler

import (
	"errors"
	"fmt"
)

// Structural compile failures.
var (
	ErrUnmatchedClose = errors.New("unmatched ']'")
	ErrUnmatchedOpen  = errors.New("unmatched '['")
	ErrCodeExhausted  = errors.New("bytecode buffer exhausted")
)

// CompileError represents a compilation error.
type CompileError struct {
	Err    error // One of the Err* sentinels
	Offset int   // Byte offset in the source, or -1 when not tied to a symbol
}

func (e *CompileError) Error() string {
	if e.Offset < 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v at offset %d", e.Err, e.Offset)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// Options controls compilation limits.
type Options struct {
	// MaxOps bounds the number of raw instructions (default: DefaultMaxOps).
	MaxOps int
}

// Compile translates src into a finalized program with default options.
func Compile(src []byte) (*Program, error) {
	return CompileWithOptions(src, Options{})
}

// CompileWithOptions translates src into a finalized program.
// On failure no partial program is returned.
func CompileWithOptions(src []byte, opts Options) (*Program, error) {
	buf := NewBuffer(initialCapacity(len(src)), opts.MaxOps)

	if err := aggregate(src, buf); err != nil {
		if errors.Is(err, ErrCodeExhausted) {
			return nil, &CompileError{Err: err, Offset: -1}
		}
		return nil, err
	}

	if err := optimize(buf); err != nil {
		return nil, err
	}

	return &Program{Ops: buf.Trim()}, nil
}

// initialCapacity guesses the raw instruction count from the source size.
// Runs usually collapse several symbols, so a quarter is plenty to start.
func initialCapacity(srcLen int) int {
	return srcLen/4 + 1
}

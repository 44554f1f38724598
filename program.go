package fbi

import (
	"bytes"
	"context"
	"io"

	"github.com/kolkov/fbi/internal/compiler"
	"github.com/kolkov/fbi/internal/image"
	"github.com/kolkov/fbi/internal/source"
	"github.com/kolkov/fbi/internal/vm"
)

// Program represents a compiled program ready for execution.
// It is read-only after compilation and safe for concurrent use; each call
// to Run allocates an independent tape.
type Program struct {
	compiled *compiler.Program
	source   string // Original source for debugging
}

// Run executes the compiled program with the given input and configuration.
// Returns the output as a string, or an error if execution fails.
//
// If config is nil, default configuration is used.
// If config.Output is set, output is written there and the returned
// string will be empty.
func (p *Program) Run(input io.Reader, config *Config) (string, error) {
	return p.RunContext(context.Background(), input, config)
}

// RunContext is like Run but stops with a Canceled RuntimeError once ctx
// is done. On any runtime error, output produced so far is still returned
// (or already written to config.Output).
func (p *Program) RunContext(ctx context.Context, input io.Reader, config *Config) (string, error) {
	var cfg Config
	if config != nil {
		cfg = *config
	}
	cfg.applyDefaults()

	v, err := vm.NewWithConfig(p.compiled, cfg.vmConfig())
	if err != nil {
		return "", &RuntimeError{Kind: InvalidConfig, Message: err.Error(), Err: err}
	}
	v.SetInput(input)

	// Capture output if not provided
	var outputBuf *bytes.Buffer
	if cfg.Output == nil {
		outputBuf = &bytes.Buffer{}
		v.SetOutput(outputBuf)
	} else {
		v.SetOutput(cfg.Output)
	}

	err = v.RunContext(ctx)

	var out string
	if outputBuf != nil {
		out = outputBuf.String()
	}
	if err != nil {
		return out, newRuntimeError(err)
	}
	return out, nil
}

// Disassemble returns a human-readable representation of the compiled bytecode.
func (p *Program) Disassemble() string {
	return p.compiled.Disassemble()
}

// Source returns the source code the program was compiled from.
// Programs loaded from an image carry only their stripped source.
func (p *Program) Source() string {
	return p.source
}

// Stripped returns the source reduced to its significant symbols.
func (p *Program) Stripped() string {
	return source.Strip(p.source)
}

// Len returns the number of bytecode instructions.
func (p *Program) Len() int {
	return p.compiled.Len()
}

// MarshalBinary encodes the program as a bytecode image that LoadImage
// can execute without recompiling. The stripped source is kept for
// inspection.
func (p *Program) MarshalBinary() ([]byte, error) {
	return image.Marshal(p.compiled, p.Stripped())
}

// UnmarshalBinary replaces p with the program encoded in data.
func (p *Program) UnmarshalBinary(data []byte) error {
	compiled, src, err := image.Unmarshal(data)
	if err != nil {
		return &CompileError{Kind: ImageInvalid, Offset: -1, Message: err.Error(), Err: err}
	}
	p.compiled = compiled
	p.source = src
	return nil
}

// LoadImage decodes a bytecode image produced by MarshalBinary.
func LoadImage(data []byte) (*Program, error) {
	p := &Program{}
	if err := p.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return p, nil
}

// IsImage reports whether data looks like a bytecode image rather than source.
func IsImage(data []byte) bool {
	return image.IsImage(data)
}

package fbi

import (
	"io"
	"os"

	"github.com/kolkov/fbi/internal/compiler"
)

// Version is the fbi version string.
const Version = "1.2.0"

// CompileOptions controls compilation limits.
type CompileOptions struct {
	// MaxOps bounds the number of bytecode instructions built during
	// compilation (default: 1<<26). Exceeding it is a CodeExhausted error.
	MaxOps int
}

// Run executes a program with the given input.
// This is a convenience function for one-off execution.
// For repeated execution of the same program, use Compile followed by Program.Run.
//
// Example:
//
//	output, err := fbi.Run(`,[.,]`, strings.NewReader("echo"), nil)
//	// output: "echo"
func Run(program string, input io.Reader, config *Config) (string, error) {
	prog, err := Compile(program)
	if err != nil {
		return "", err
	}
	return prog.Run(input, config)
}

// Compile compiles a program for execution.
// The returned Program can be executed multiple times with different inputs.
func Compile(program string) (*Program, error) {
	return CompileWithOptions([]byte(program), nil)
}

// CompileBytes is like Compile for source held in a byte slice.
func CompileBytes(src []byte) (*Program, error) {
	return CompileWithOptions(src, nil)
}

// CompileWithOptions compiles src with explicit limits.
// If opts is nil, defaults are used.
func CompileWithOptions(src []byte, opts *CompileOptions) (*Program, error) {
	var copts compiler.Options
	if opts != nil {
		copts.MaxOps = opts.MaxOps
	}

	compiled, err := compiler.CompileWithOptions(src, copts)
	if err != nil {
		return nil, newCompileError(err, src)
	}

	return &Program{
		compiled: compiled,
		source:   string(src),
	}, nil
}

// CompileFile loads a program from path. Files holding a bytecode image
// are decoded directly; anything else is compiled as source. Every failure,
// including an unreadable file, is a *CompileError carrying the path.
func CompileFile(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &CompileError{
			Kind:    SourceUnreadable,
			Path:    path,
			Offset:  -1,
			Message: err.Error(),
			Err:     err,
		}
	}

	var prog *Program
	if IsImage(data) {
		prog, err = LoadImage(data)
	} else {
		prog, err = CompileBytes(data)
	}
	if err != nil {
		if ce, ok := IsCompileError(err); ok {
			ce.Path = path
		}
		return nil, err
	}
	return prog, nil
}

// Exec is a simplified interface for running a program.
// It reads from input, writes to output, and returns any error.
//
// Example:
//
//	err := fbi.Exec(src, os.Stdin, os.Stdout, nil)
func Exec(program string, input io.Reader, output io.Writer, config *Config) error {
	prog, err := Compile(program)
	if err != nil {
		return err
	}

	var cfg Config
	if config != nil {
		cfg = *config
	}
	cfg.Output = output

	_, err = prog.Run(input, &cfg)
	return err
}

// MustCompile is like Compile but panics if the program cannot be compiled.
// It simplifies initialization of global program variables.
func MustCompile(program string) *Program {
	prog, err := Compile(program)
	if err != nil {
		panic(err)
	}
	return prog
}

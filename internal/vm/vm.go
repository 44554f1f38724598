// Package vm executes compiled tape programs.
package vm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kolkov/fbi/internal/compiler"
	"github.com/kolkov/fbi/internal/tape"
)

// cancelCheckInterval is the number of backward jumps between context checks.
const cancelCheckInterval = 1 << 12

// ErrTapeExhausted is returned when a Move needs more tape than allowed.
var ErrTapeExhausted = tape.ErrExhausted

// EOFMode selects what Input stores once the input stream is exhausted.
type EOFMode int

const (
	EOFZero      EOFMode = iota // Store 0
	EOFUnchanged                // Leave the cell as it is
	EOFAllOnes                  // Store 255
)

// String returns the configuration name of the mode.
func (m EOFMode) String() string {
	switch m {
	case EOFZero:
		return "zero"
	case EOFUnchanged:
		return "unchanged"
	case EOFAllOnes:
		return "all-ones"
	default:
		return fmt.Sprintf("EOFMode(%d)", m)
	}
}

// ParseEOFMode parses a mode name as produced by EOFMode.String.
func ParseEOFMode(s string) (EOFMode, error) {
	switch s {
	case "zero", "0":
		return EOFZero, nil
	case "unchanged", "none":
		return EOFUnchanged, nil
	case "all-ones", "255", "-1":
		return EOFAllOnes, nil
	}
	return 0, fmt.Errorf("unknown EOF mode %q", s)
}

// VMConfig holds VM configuration options.
type VMConfig struct {
	Tape tape.Config
	EOF  EOFMode
}

// DefaultVMConfig returns a growable 8-bit tape with zero-on-EOF input.
func DefaultVMConfig() VMConfig {
	return VMConfig{Tape: tape.DefaultConfig(), EOF: EOFZero}
}

// Error reports a failure while executing the instruction at IP.
type Error struct {
	IP  int
	Op  compiler.Op
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%04d %s: %v", e.IP, e.Op.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// VM is the tape virtual machine. A VM runs its program once; its tape
// is allocated fresh by the constructor and owned exclusively by it.
type VM struct {
	program *compiler.Program
	tape    tape.Tape
	ptr     int
	eof     EOFMode

	// I/O
	input     *bufio.Reader
	output    *bufio.Writer
	inputDone bool
}

// New creates a VM for the program with the default configuration.
func New(prog *compiler.Program) *VM {
	vm, err := NewWithConfig(prog, DefaultVMConfig())
	if err != nil {
		// The default tape configuration always allocates.
		panic(err)
	}
	return vm
}

// NewWithConfig creates a VM with the specified configuration.
func NewWithConfig(prog *compiler.Program, config VMConfig) (*VM, error) {
	t, err := tape.New(config.Tape)
	if err != nil {
		return nil, err
	}
	return &VM{
		program: prog,
		tape:    t,
		ptr:     t.Start(),
		eof:     config.EOF,
		output:  bufio.NewWriter(os.Stdout),
	}, nil
}

// SetInput sets the stream Input instructions read from.
func (vm *VM) SetInput(r io.Reader) {
	if r == nil {
		vm.input = nil
		return
	}
	vm.input = bufio.NewReader(r)
}

// SetOutput sets the stream Output instructions write to.
func (vm *VM) SetOutput(w io.Writer) {
	vm.output = bufio.NewWriter(w)
}

// Tape returns the VM's tape.
func (vm *VM) Tape() tape.Tape {
	return vm.tape
}

// Pointer returns the current tape pointer.
func (vm *VM) Pointer() int {
	return vm.ptr
}

// Run executes the program to completion.
func (vm *VM) Run() error {
	return vm.RunContext(context.Background())
}

// RunContext executes the program until it falls off the end or ctx is
// done. Buffered output is flushed before returning, including on error.
func (vm *VM) RunContext(ctx context.Context) (err error) {
	defer func() {
		if ferr := vm.output.Flush(); ferr != nil && err == nil {
			err = fmt.Errorf("output: %w", ferr)
		}
	}()

	code := vm.program.Ops
	t := vm.tape
	ptr := vm.ptr
	jumps := 0

	for ip := 0; ip < len(code); ip++ {
		op := code[ip]

		switch op.Kind {
		case compiler.Adjust:
			t.Set(ptr, t.Get(ptr)+byte(op.Arg))

		case compiler.SetValue:
			t.Set(ptr, byte(op.Arg))

		case compiler.Move:
			ptr, err = t.Move(ptr, op.Arg)
			if err != nil {
				return &Error{IP: ip, Op: op, Err: err}
			}

		case compiler.Input:
			for n := op.Arg; n > 0; n-- {
				if err := vm.read(t, ptr); err != nil {
					vm.ptr = ptr
					return &Error{IP: ip, Op: op, Err: err}
				}
			}

		case compiler.Output:
			c := t.Get(ptr)
			for n := op.Arg; n > 0; n-- {
				if err := vm.output.WriteByte(c); err != nil {
					vm.ptr = ptr
					return &Error{IP: ip, Op: op, Err: err}
				}
			}

		case compiler.LoopStart:
			if t.Get(ptr) == 0 {
				ip = op.Arg
			}

		case compiler.LoopEnd:
			if t.Get(ptr) != 0 {
				ip = op.Arg
				jumps++
				if jumps == cancelCheckInterval {
					jumps = 0
					if err := ctx.Err(); err != nil {
						vm.ptr = ptr
						return &Error{IP: ip, Op: op, Err: err}
					}
				}
			}

		default:
			return &Error{IP: ip, Op: op, Err: fmt.Errorf("unknown instruction kind %s", op.Kind)}
		}
	}

	vm.ptr = ptr
	return nil
}

// read stores the next input byte into the cell at ptr. Pending output is
// flushed first so prompts appear before the VM blocks on input.
func (vm *VM) read(t tape.Tape, ptr int) error {
	if vm.output.Buffered() > 0 {
		if err := vm.output.Flush(); err != nil {
			return err
		}
	}

	if !vm.inputDone && vm.input != nil {
		c, err := vm.input.ReadByte()
		if err == nil {
			t.Set(ptr, c)
			return nil
		}
		if !errors.Is(err, io.EOF) {
			return fmt.Errorf("input: %w", err)
		}
	}
	vm.inputDone = true

	switch vm.eof {
	case EOFZero:
		t.Set(ptr, 0)
	case EOFAllOnes:
		t.Set(ptr, 0xff)
	}
	return nil
}

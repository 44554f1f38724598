// Package compiler translates tape-language source into resolved bytecode.
package compiler

import "fmt"

// Kind identifies a virtual machine instruction.
type Kind int32

const (
	// Adjust adds Arg to the current cell, modulo 256.
	Adjust Kind = iota

	// SetValue assigns Arg to the current cell. Produced only by the
	// zero-loop rewrite.
	SetValue

	// Move adds Arg to the tape pointer.
	Move

	// Input reads Arg bytes into the current cell; only the last survives.
	Input

	// Output writes the current cell Arg times.
	Output

	// LoopStart jumps past its partner when the current cell is zero.
	// Arg holds the partner's index.
	LoopStart

	// LoopEnd jumps back to its partner when the current cell is nonzero.
	// Arg holds the partner's index.
	LoopEnd
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case Adjust:
		return "Adjust"
	case SetValue:
		return "SetValue"
	case Move:
		return "Move"
	case Input:
		return "Input"
	case Output:
		return "Output"
	case LoopStart:
		return "LoopStart"
	case LoopEnd:
		return "LoopEnd"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Valid reports whether k is a known instruction kind.
func (k Kind) Valid() bool {
	return k >= Adjust && k <= LoopEnd
}

// Op is a single bytecode instruction.
type Op struct {
	Kind Kind
	Arg  int // Meaning depends on Kind
	Pos  int // Byte offset of the first source symbol that produced the op
}

// String formats the op the way the disassembler prints it.
func (op Op) String() string {
	switch op.Kind {
	case LoopStart, LoopEnd:
		return fmt.Sprintf("%s -> %04d", op.Kind, op.Arg)
	case Move:
		return fmt.Sprintf("%s %+d", op.Kind, op.Arg)
	default:
		return fmt.Sprintf("%s %d", op.Kind, op.Arg)
	}
}

package compiler

import (
	"fmt"
	"strings"
)

// Program is a finalized instruction sequence ready for VM execution.
// It is not modified after compilation.
type Program struct {
	Ops []Op
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.Ops)
}

// Disassemble returns a human-readable listing of the program.
func (p *Program) Disassemble() string {
	var sb strings.Builder
	depth := 0
	for i, op := range p.Ops {
		if op.Kind == LoopEnd && depth > 0 {
			depth--
		}
		fmt.Fprintf(&sb, "%04d: %s%s", i, strings.Repeat("  ", depth), op)
		fmt.Fprintf(&sb, "  ; @%d\n", op.Pos)
		if op.Kind == LoopStart {
			depth++
		}
	}
	return sb.String()
}

// Validate checks that ops satisfy the finalized-program invariants:
// every kind is known, Input/Output counts are positive, and every loop
// op names a partner of the opposite kind that names it back, with
// properly nested pairs.
func Validate(ops []Op) error {
	var pending []int
	for i, op := range ops {
		switch op.Kind {
		case Adjust, SetValue, Move:
		case Input, Output:
			if op.Arg <= 0 {
				return fmt.Errorf("op %04d: %s count must be positive, got %d", i, op.Kind, op.Arg)
			}
		case LoopStart:
			if op.Arg <= i || op.Arg >= len(ops) || ops[op.Arg].Kind != LoopEnd || ops[op.Arg].Arg != i {
				return fmt.Errorf("op %04d: %s has no matching LoopEnd", i, op.Kind)
			}
			pending = append(pending, i)
		case LoopEnd:
			if len(pending) == 0 || pending[len(pending)-1] != op.Arg {
				return fmt.Errorf("op %04d: %s closes a loop out of order", i, op.Kind)
			}
			pending = pending[:len(pending)-1]
		default:
			return fmt.Errorf("op %04d: unknown kind %s", i, op.Kind)
		}
	}
	if len(pending) > 0 {
		return fmt.Errorf("op %04d: %s is never closed", pending[0], LoopStart)
	}
	return nil
}

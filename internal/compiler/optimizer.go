package compiler

// This file implements the peephole pass that turns the raw run sequence
// into a finalized program. The pass rewrites the buffer in place: the write
// index never overtakes the read index, so every op is read before its slot
// can be reused.
//
// At each read position, in priority order:
//
//  1. LoopStart, Adjust, LoopEnd becomes SetValue 0. Adjusts that directly
//     follow the loop are folded into the assigned value.
//  2. A chain of adjacent Adjusts becomes one Adjust (sum mod 256). A chain
//     that sums to zero disappears.
//  3. Anything else is copied unchanged.
//
// Loop brackets are paired with an explicit stack of pending LoopStart
// indices as they are emitted, and each pair records the other's index.

// optimize rewrites buf into its finalized form and resolves loop targets.
func optimize(buf *Buffer) error {
	n := buf.Len()
	var pending []int // LoopStart indices awaiting their LoopEnd
	out := 0
	for i := 0; i < n; {
		op := buf.At(i)

		switch {
		case isZeroLoop(buf, i):
			value := 0
			i += 3
			for i < n && buf.At(i).Kind == Adjust {
				value += buf.At(i).Arg
				i++
			}
			op = Op{Kind: SetValue, Arg: value & 0xff, Pos: op.Pos}

		case op.Kind == Adjust && i+1 < n && buf.At(i+1).Kind == Adjust:
			value := 0
			for i < n && buf.At(i).Kind == Adjust {
				value += buf.At(i).Arg
				i++
			}
			if value&0xff == 0 {
				continue
			}
			op.Arg = value & 0xff

		default:
			i++
		}

		switch op.Kind {
		case LoopStart:
			pending = append(pending, out)
		case LoopEnd:
			if len(pending) == 0 {
				return &CompileError{Err: ErrUnmatchedClose, Offset: op.Pos}
			}
			open := pending[len(pending)-1]
			pending = pending[:len(pending)-1]
			start := buf.At(open)
			start.Arg = out
			buf.Set(open, start)
			op.Arg = open
		}
		buf.Set(out, op)
		out++
	}

	if len(pending) > 0 {
		return &CompileError{Err: ErrUnmatchedOpen, Offset: buf.At(pending[0]).Pos}
	}
	buf.Truncate(out)
	return nil
}

// isZeroLoop reports whether the raw ops at i form LoopStart, Adjust, LoopEnd.
func isZeroLoop(buf *Buffer, i int) bool {
	return i+2 < buf.Len() &&
		buf.At(i).Kind == LoopStart &&
		buf.At(i+1).Kind == Adjust &&
		buf.At(i+2).Kind == LoopEnd
}

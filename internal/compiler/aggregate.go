package compiler

// class groups source symbols that coalesce into one counted instruction.
type class int8

const (
	classNone class = iota // Comment byte
	classAdjust
	classMove
	classInput
	classOutput
	classLoop
)

// symbols maps every source byte to its class and signed unit.
// Bytes absent from the table are comments.
var symbols = [256]struct {
	class class
	unit  int
}{
	'+': {classAdjust, 1},
	'-': {classAdjust, -1},
	'>': {classMove, 1},
	'<': {classMove, -1},
	',': {classInput, 1},
	'.': {classOutput, 1},
	'[': {classLoop, 0},
	']': {classLoop, 0},
}

// aggregator collapses runs of same-class symbols into counted instructions.
type aggregator struct {
	buf   *Buffer
	last  class // Class of the pending run
	count int   // Accumulated run value
	start int   // Source offset of the first symbol in the pending run
}

// aggregate appends the raw instruction sequence for src to buf.
// Comment bytes never break a run.
func aggregate(src []byte, buf *Buffer) error {
	a := &aggregator{buf: buf}
	for i, c := range src {
		sym := symbols[c]
		switch sym.class {
		case classNone:
			continue
		case classLoop:
			if err := a.flush(); err != nil {
				return err
			}
			kind := LoopStart
			if c == ']' {
				kind = LoopEnd
			}
			if err := buf.Push(Op{Kind: kind, Pos: i}); err != nil {
				return err
			}
			a.last = classLoop
		default:
			if sym.class != a.last {
				if err := a.flush(); err != nil {
					return err
				}
				a.last = sym.class
				a.start = i
			}
			a.count += sym.unit
		}
	}
	return a.flush()
}

// flush emits the pending run, if it has any effect, and clears it.
func (a *aggregator) flush() error {
	var op Op
	switch a.last {
	case classAdjust:
		op = Op{Kind: Adjust, Arg: a.count & 0xff}
	case classMove:
		op = Op{Kind: Move, Arg: a.count}
	case classInput:
		op = Op{Kind: Input, Arg: a.count}
	case classOutput:
		op = Op{Kind: Output, Arg: a.count}
	default:
		return nil
	}
	a.count = 0
	a.last = classNone
	if op.Arg == 0 || (op.Arg < 0 && (op.Kind == Input || op.Kind == Output)) {
		return nil
	}
	op.Pos = a.start
	return a.buf.Push(op)
}

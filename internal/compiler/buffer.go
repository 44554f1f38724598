package compiler

import "fmt"

// Buffer capacity bounds.
const (
	// minBufferCapacity is the smallest capacity a Buffer starts with.
	minBufferCapacity = 64

	// DefaultMaxOps is the default upper bound on buffered instructions.
	DefaultMaxOps = 1 << 26
)

// Buffer is an ordered, amortized-doubling sequence of instructions.
// Capacity is tracked explicitly so that growth past the configured limit
// is reported as ErrCodeExhausted instead of allocating without bound.
type Buffer struct {
	ops   []Op // Backing storage; len(ops) is the capacity
	n     int  // Number of live instructions
	limit int  // Maximum number of instructions
}

// NewBuffer creates a buffer with room for capacity instructions that
// refuses to grow past limit. A non-positive limit selects DefaultMaxOps.
func NewBuffer(capacity, limit int) *Buffer {
	if limit <= 0 {
		limit = DefaultMaxOps
	}
	if capacity < minBufferCapacity {
		capacity = minBufferCapacity
	}
	if capacity > limit {
		capacity = limit
	}
	return &Buffer{
		ops:   make([]Op, capacity),
		limit: limit,
	}
}

// Len returns the number of instructions in the buffer.
func (b *Buffer) Len() int {
	return b.n
}

// Cap returns the current capacity.
func (b *Buffer) Cap() int {
	return len(b.ops)
}

// Push appends op, doubling the capacity when the buffer is full.
func (b *Buffer) Push(op Op) error {
	if b.n == len(b.ops) {
		if err := b.grow(); err != nil {
			return err
		}
	}
	b.ops[b.n] = op
	b.n++
	return nil
}

// grow doubles the capacity, clamped to the limit.
func (b *Buffer) grow() error {
	old := len(b.ops)
	if old >= b.limit {
		return fmt.Errorf("%w: limit of %d instructions reached", ErrCodeExhausted, b.limit)
	}
	size := old << 1
	if size > b.limit || size < old {
		size = b.limit
	}
	ops := make([]Op, size)
	copy(ops, b.ops[:b.n])
	b.ops = ops
	return nil
}

// At returns the instruction at index i.
func (b *Buffer) At(i int) Op {
	return b.ops[i]
}

// Set overwrites the instruction at index i.
func (b *Buffer) Set(i int, op Op) {
	b.ops[i] = op
}

// Truncate drops every instruction at or after index n.
func (b *Buffer) Truncate(n int) {
	if n < b.n {
		b.n = n
	}
}

// Trim returns the live instructions in a slice of exactly Len elements.
// The buffer keeps its own storage and may be reused after Reset.
func (b *Buffer) Trim() []Op {
	ops := make([]Op, b.n)
	copy(ops, b.ops[:b.n])
	return ops
}

// Reset empties the buffer without releasing its storage.
func (b *Buffer) Reset() {
	b.n = 0
}

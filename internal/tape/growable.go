package tape

import "fmt"

// growableTape extends itself whenever the pointer leaves its bounds.
type growableTape[T cell] struct {
	cells  []T
	growth Growth
	left   int // Next left extension under PerDirection
	right  int // Next right extension under PerDirection
	max    int
	start  int
}

func newGrowable[T cell](size int, growth Growth, max int) *growableTape[T] {
	return &growableTape[T]{
		cells:  make([]T, size),
		growth: growth,
		left:   size,
		right:  size,
		max:    max,
		start:  size >> 1,
	}
}

func (t *growableTape[T]) Get(p int) byte {
	return byte(t.cells[p])
}

func (t *growableTape[T]) Set(p int, v byte) {
	t.cells[p] = T(v)
}

func (t *growableTape[T]) Move(p, delta int) (int, error) {
	p += delta
	if p >= 0 && p < len(t.cells) {
		return p, nil
	}
	return t.grow(p)
}

// grow reallocates the tape so that p is in bounds and returns p rebased
// onto the new storage. Existing cells keep their offsets relative to each
// other and new cells are zero. Nothing changes when the limit is hit.
func (t *growableTape[T]) grow(p int) (int, error) {
	size := len(t.cells)
	shift := 0
	left, right := t.left, t.right

	for p < 0 || p >= size {
		var step int
		switch {
		case t.growth == Symmetric:
			step = size
			p += size >> 1
			shift += size >> 1
		case p < 0:
			step = left
			left <<= 1
			p += step
			shift += step
		default:
			step = right
			right <<= 1
		}
		if step > t.max-size {
			return 0, fmt.Errorf("%w: growing past %d cells exceeds the limit of %d", ErrExhausted, size, t.max)
		}
		size += step
	}

	cells := make([]T, size)
	copy(cells[shift:], t.cells)
	t.cells = cells
	t.left, t.right = left, right
	return p, nil
}

// Start returns the center of the initial allocation.
func (t *growableTape[T]) Start() int {
	return t.start
}

func (t *growableTape[T]) Len() int {
	return len(t.cells)
}

package tape

// fixedTape is a power-of-two ring. Pointer arithmetic wraps via bitmask.
type fixedTape[T cell] struct {
	cells []T
	mask  int
}

func newFixed[T cell](size int) *fixedTape[T] {
	return &fixedTape[T]{
		cells: make([]T, size),
		mask:  size - 1,
	}
}

func (t *fixedTape[T]) Get(p int) byte {
	return byte(t.cells[p])
}

func (t *fixedTape[T]) Set(p int, v byte) {
	t.cells[p] = T(v)
}

// Move never fails and never allocates.
func (t *fixedTape[T]) Move(p, delta int) (int, error) {
	return (p + delta) & t.mask, nil
}

func (t *fixedTape[T]) Start() int {
	return len(t.cells) >> 1
}

func (t *fixedTape[T]) Len() int {
	return len(t.cells)
}

package tape

import (
	"errors"
	"testing"
)

// newTape builds a tape and fails the test on error.
func newTape(t *testing.T, cfg Config) Tape {
	t.Helper()

	tp, err := New(cfg)
	if err != nil {
		t.Fatalf("New(%+v): %v", cfg, err)
	}
	return tp
}

// move moves the pointer and fails the test on error.
func move(t *testing.T, tp Tape, p, delta int) int {
	t.Helper()

	np, err := tp.Move(p, delta)
	if err != nil {
		t.Fatalf("Move(%d, %d): %v", p, delta, err)
	}
	if np < 0 || np >= tp.Len() {
		t.Fatalf("Move(%d, %d) = %d, out of bounds [0, %d)", p, delta, np, tp.Len())
	}
	return np
}

func TestFixedWraparound(t *testing.T) {
	for _, order := range []int{1, 4, 10} {
		tp := newTape(t, Config{Mode: Fixed, Order: order})
		size := 1 << order
		if tp.Len() != size {
			t.Fatalf("order %d: Len = %d, want %d", order, tp.Len(), size)
		}

		p := tp.Start()
		tp.Set(p, 0x5a)

		if got := move(t, tp, p, size); got != p {
			t.Errorf("order %d: moving by size landed on %d, want %d", order, got, p)
		}
		if got := move(t, tp, p, -size); got != p {
			t.Errorf("order %d: moving by -size landed on %d, want %d", order, got, p)
		}
		if got := tp.Get(move(t, tp, p, 3*size)); got != 0x5a {
			t.Errorf("order %d: read %#x after full laps, want 0x5a", order, got)
		}

		if got := move(t, tp, 0, -1); got != size-1 {
			t.Errorf("order %d: 0-1 = %d, want %d", order, got, size-1)
		}
		if got := move(t, tp, size-1, 1); got != 0 {
			t.Errorf("order %d: last+1 = %d, want 0", order, got)
		}
		if tp.Len() != size {
			t.Errorf("order %d: fixed tape reallocated to %d", order, tp.Len())
		}
	}
}

func TestGrowableRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		growth Growth
		delta  int
	}{
		{"per-direction right", PerDirection, 1000},
		{"per-direction left", PerDirection, -1000},
		{"symmetric right", Symmetric, 1000},
		{"symmetric left", Symmetric, -1000},
		{"per-direction far right", PerDirection, 1 << 16},
		{"symmetric far left", Symmetric, -(1 << 16)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tp := newTape(t, Config{Mode: Growable, Growth: tt.growth, Order: 4})
			initial := tp.Len()

			p := tp.Start()
			tp.Set(p, 42)
			tp.Set(move(t, tp, p, 1), 43)

			far := move(t, tp, p, tt.delta)
			if tp.Len() <= initial {
				t.Fatalf("tape did not grow: Len = %d", tp.Len())
			}
			if got := tp.Get(far); got != 0 {
				t.Errorf("newly exposed cell = %d, want 0", got)
			}
			tp.Set(far, 7)

			back := move(t, tp, far, -tt.delta)
			if got := tp.Get(back); got != 42 {
				t.Errorf("marker = %d after round trip, want 42", got)
			}
			if got := tp.Get(move(t, tp, back, 1)); got != 43 {
				t.Errorf("neighbour = %d after round trip, want 43", got)
			}
			if got := tp.Get(move(t, tp, back, tt.delta)); got != 7 {
				t.Errorf("far cell = %d, want 7", got)
			}
		})
	}
}

func TestPerDirectionSteps(t *testing.T) {
	tp := newTape(t, Config{Mode: Growable, Growth: PerDirection, Order: 4})
	g := tp.(*growableTape[uint8])

	p := move(t, tp, tp.Start(), 16) // 8+16 = 24: one right step of 16
	if tp.Len() != 32 || p != 24 {
		t.Fatalf("after first right growth: Len=%d p=%d, want 32/24", tp.Len(), p)
	}

	p = move(t, tp, p, 20) // 44: right step doubles to 32
	if tp.Len() != 64 || p != 44 {
		t.Fatalf("after second right growth: Len=%d p=%d, want 64/44", tp.Len(), p)
	}
	if g.left != 16 {
		t.Errorf("left step = %d after right-only growth, want 16", g.left)
	}

	p = move(t, tp, p, -45) // -1: one left step of 16
	if tp.Len() != 80 || p != 15 {
		t.Fatalf("after left growth: Len=%d p=%d, want 80/15", tp.Len(), p)
	}
	if g.left != 32 || g.right != 64 {
		t.Errorf("steps = %d/%d, want 32/64", g.left, g.right)
	}
}

func TestSymmetricRecenters(t *testing.T) {
	tp := newTape(t, Config{Mode: Growable, Growth: Symmetric, Order: 4})
	start := tp.Start()
	tp.Set(start, 9)

	p := move(t, tp, start, -9) // -1: doubles to 32 and shifts by 8
	if tp.Len() != 32 || p != 7 {
		t.Fatalf("Len=%d p=%d, want 32/7", tp.Len(), p)
	}
	if got := tp.Get(move(t, tp, p, 9)); got != 9 {
		t.Errorf("marker = %d, want 9", got)
	}
}

func TestGrowableExhausted(t *testing.T) {
	tp := newTape(t, Config{Mode: Growable, Order: 4, MaxCells: 32})
	tp.Set(tp.Start(), 1)

	_, err := tp.Move(tp.Start(), 100)
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("err = %v, want ErrExhausted", err)
	}
	if tp.Len() != 16 {
		t.Errorf("failed growth changed Len to %d", tp.Len())
	}
	if tp.Get(tp.Start()) != 1 {
		t.Error("failed growth lost tape contents")
	}

	if _, err := tp.Move(tp.Start(), 20); err != nil {
		t.Errorf("growth within the limit failed: %v", err)
	}
}

func TestCellWidths(t *testing.T) {
	for _, mode := range []Mode{Fixed, Growable} {
		for _, width := range []Width{Width8, Width16, Width32} {
			tp := newTape(t, Config{Mode: mode, Width: width, Order: 3})
			p := tp.Start()
			for _, v := range []byte{0, 1, 127, 128, 255} {
				tp.Set(p, v)
				if got := tp.Get(p); got != v {
					t.Errorf("%s/%d: Get = %d, want %d", mode, width, got, v)
				}
			}
		}
	}

	if _, ok := newTape(t, Config{Mode: Fixed, Width: Width16, Order: 3}).(*fixedTape[uint16]); !ok {
		t.Error("16-bit fixed tape does not use uint16 storage")
	}
	if _, ok := newTape(t, Config{Mode: Growable, Width: Width32, Order: 3}).(*growableTape[uint32]); !ok {
		t.Error("32-bit growable tape does not use uint32 storage")
	}
}

func TestNewRejects(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"order too large", Config{Mode: Fixed, Order: MaxOrder + 1}},
		{"negative order", Config{Mode: Fixed, Order: -1}},
		{"odd width", Config{Mode: Fixed, Width: 12}},
		{"limit below size", Config{Mode: Growable, Order: 10, MaxCells: 100}},
		{"unknown mode", Config{Mode: Mode(9)}},
		{"unknown growth", Config{Mode: Growable, Growth: Growth(9)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseNames(t *testing.T) {
	for _, m := range []Mode{Growable, Fixed} {
		if got, err := ParseMode(m.String()); err != nil || got != m {
			t.Errorf("ParseMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	for _, g := range []Growth{PerDirection, Symmetric} {
		if got, err := ParseGrowth(g.String()); err != nil || got != g {
			t.Errorf("ParseGrowth(%q) = %v, %v", g.String(), got, err)
		}
	}
	if _, err := ParseMode("circular"); err == nil {
		t.Error("ParseMode accepted an unknown name")
	}
}

func BenchmarkGrowableMove(b *testing.B) {
	tp, _ := New(DefaultConfig())
	p := tp.Start()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p, _ = tp.Move(p, 1)
	}
}

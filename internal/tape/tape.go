// Package tape implements the byte-valued memory tape the virtual machine
// operates on.
//
// Two addressing disciplines are available. A fixed tape is a power-of-two
// ring addressed through a bitmask and never reallocates. A growable tape
// extends itself in whichever direction the pointer leaves its bounds,
// keeping existing cells at their relative offsets.
//
// Cells always hold values in 0-255; the storage width only changes how
// much memory each cell occupies.
package tape

import (
	"errors"
	"fmt"
	"strings"
)

// ErrExhausted is returned when a growable tape would exceed its cell limit.
var ErrExhausted = errors.New("tape exhausted")

// Tape is the memory a program operates on.
type Tape interface {
	// Get returns the value of the cell at p.
	Get(p int) byte

	// Set stores v into the cell at p.
	Set(p int, v byte)

	// Move returns p+delta resolved under the tape's addressing discipline.
	// The returned pointer is always in bounds when err is nil.
	Move(p, delta int) (int, error)

	// Start returns the initial pointer: the logical center of the tape.
	Start() int

	// Len returns the number of allocated cells.
	Len() int
}

// Mode selects the addressing discipline.
type Mode int

const (
	Growable Mode = iota // Unbounded bidirectional growth
	Fixed                // Power-of-two ring with wraparound
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case Growable:
		return "growable"
	case Fixed:
		return "fixed"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// ParseMode parses a mode name as produced by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "growable", "infinite":
		return Growable, nil
	case "fixed":
		return Fixed, nil
	}
	return 0, fmt.Errorf("unknown tape mode %q", s)
}

// Growth selects how a growable tape extends itself.
type Growth int

const (
	// PerDirection grows each side by its own step, doubling that step on
	// every extension, so one-directional travel never inflates the other side.
	PerDirection Growth = iota

	// Symmetric doubles the whole tape on every extension and re-centers
	// the existing cells.
	Symmetric
)

// String returns the configuration name of the growth policy.
func (g Growth) String() string {
	switch g {
	case PerDirection:
		return "per-direction"
	case Symmetric:
		return "symmetric"
	default:
		return fmt.Sprintf("Growth(%d)", g)
	}
}

// ParseGrowth parses a growth policy name as produced by Growth.String.
func ParseGrowth(s string) (Growth, error) {
	switch strings.ToLower(s) {
	case "per-direction", "tracked":
		return PerDirection, nil
	case "symmetric", "double":
		return Symmetric, nil
	}
	return 0, fmt.Errorf("unknown tape growth %q", s)
}

// Width is the storage size of a cell in bits.
type Width int

const (
	Width8  Width = 8
	Width16 Width = 16
	Width32 Width = 32
)

// Configuration defaults and bounds.
const (
	DefaultOrder    = 18      // 2^18 cells
	MaxOrder        = 30      // Largest fixed tape
	DefaultMaxCells = 1 << 30 // Growable tape limit
)

// Config selects the tape layout.
type Config struct {
	Mode   Mode
	Growth Growth
	Width  Width

	// Order is log2 of the fixed tape size, and of the initial size of a
	// growable tape.
	Order int

	// MaxCells bounds a growable tape. Ignored for fixed tapes.
	MaxCells int
}

// DefaultConfig returns a growable 8-bit tape starting at 2^18 cells.
func DefaultConfig() Config {
	return Config{
		Mode:     Growable,
		Growth:   PerDirection,
		Width:    Width8,
		Order:    DefaultOrder,
		MaxCells: DefaultMaxCells,
	}
}

// New allocates a zeroed tape for the configuration.
// Zero Width, Order and MaxCells take their defaults.
func New(cfg Config) (Tape, error) {
	if cfg.Width == 0 {
		cfg.Width = Width8
	}
	if cfg.Order == 0 {
		cfg.Order = DefaultOrder
	}
	if cfg.MaxCells == 0 {
		cfg.MaxCells = DefaultMaxCells
	}
	if cfg.Order < 1 || cfg.Order > MaxOrder {
		return nil, fmt.Errorf("tape order %d out of range [1, %d]", cfg.Order, MaxOrder)
	}

	size := 1 << cfg.Order
	switch cfg.Mode {
	case Fixed:
		switch cfg.Width {
		case Width8:
			return newFixed[uint8](size), nil
		case Width16:
			return newFixed[uint16](size), nil
		case Width32:
			return newFixed[uint32](size), nil
		}
	case Growable:
		if cfg.MaxCells < size {
			return nil, fmt.Errorf("tape limit %d is below the initial size %d", cfg.MaxCells, size)
		}
		if cfg.Growth != PerDirection && cfg.Growth != Symmetric {
			return nil, fmt.Errorf("unknown tape growth %s", cfg.Growth)
		}
		switch cfg.Width {
		case Width8:
			return newGrowable[uint8](size, cfg.Growth, cfg.MaxCells), nil
		case Width16:
			return newGrowable[uint16](size, cfg.Growth, cfg.MaxCells), nil
		case Width32:
			return newGrowable[uint32](size, cfg.Growth, cfg.MaxCells), nil
		}
	default:
		return nil, fmt.Errorf("unknown tape mode %s", cfg.Mode)
	}
	return nil, fmt.Errorf("unsupported cell width %d", cfg.Width)
}

// cell is the set of storage types a tape can use.
type cell interface {
	~uint8 | ~uint16 | ~uint32
}

package fbi

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/kolkov/fbi/internal/tape"
	"github.com/kolkov/fbi/internal/vm"
)

// TapeMode selects the tape addressing discipline.
type TapeMode int

const (
	TapeGrowable = TapeMode(tape.Growable) // Unbounded, grows in both directions
	TapeFixed    = TapeMode(tape.Fixed)    // 2^TapeOrder cells with wraparound
)

func (m TapeMode) String() string { return tape.Mode(m).String() }

// Growth selects how a growable tape extends itself.
type Growth int

const (
	GrowPerDirection = Growth(tape.PerDirection) // Independent doubling step per side
	GrowSymmetric    = Growth(tape.Symmetric)    // Double the whole tape and re-center
)

func (g Growth) String() string { return tape.Growth(g).String() }

// EOFMode selects what an input instruction stores once input is exhausted.
type EOFMode int

const (
	EOFZero      = EOFMode(vm.EOFZero)      // Store 0
	EOFUnchanged = EOFMode(vm.EOFUnchanged) // Leave the cell alone
	EOFAllOnes   = EOFMode(vm.EOFAllOnes)   // Store 255
)

func (m EOFMode) String() string { return vm.EOFMode(m).String() }

// Config holds configuration options for program execution.
type Config struct {
	// Output is the writer for output instructions.
	// If nil, output is captured and returned from Run.
	Output io.Writer

	// Tape is the addressing discipline (default: TapeGrowable).
	Tape TapeMode

	// TapeOrder is log2 of the tape size: the whole tape when fixed, the
	// initial allocation when growable (default: 18).
	TapeOrder int

	// CellWidth is the storage width of a cell in bits: 8, 16 or 32
	// (default: 8). Cell values are 0-255 regardless.
	CellWidth int

	// Growth is the growable tape's extension policy (default: GrowPerDirection).
	Growth Growth

	// MaxCells bounds a growable tape (default: 1<<30). Exceeding it
	// fails the run with a TapeExhausted RuntimeError.
	MaxCells int

	// EOF is the end-of-input convention (default: EOFZero).
	EOF EOFMode
}

// applyDefaults fills in default values for unset Config fields.
func (c *Config) applyDefaults() {
	if c.TapeOrder == 0 {
		c.TapeOrder = tape.DefaultOrder
	}
	if c.CellWidth == 0 {
		c.CellWidth = int(tape.Width8)
	}
	if c.MaxCells == 0 {
		c.MaxCells = tape.DefaultMaxCells
	}
}

// vmConfig translates the public configuration for the VM.
func (c *Config) vmConfig() vm.VMConfig {
	return vm.VMConfig{
		Tape: tape.Config{
			Mode:     tape.Mode(c.Tape),
			Growth:   tape.Growth(c.Growth),
			Width:    tape.Width(c.CellWidth),
			Order:    c.TapeOrder,
			MaxCells: c.MaxCells,
		},
		EOF: vm.EOFMode(c.EOF),
	}
}

// configFile is the TOML layout accepted by LoadConfig.
type configFile struct {
	Tape      string `toml:"tape"`
	Order     int    `toml:"order"`
	CellWidth int    `toml:"cell-width"`
	Growth    string `toml:"growth"`
	MaxCells  int    `toml:"max-cells"`
	EOF       string `toml:"eof"`
}

// LoadConfig reads execution settings from a TOML file:
//
//	tape = "fixed"        # or "growable"
//	order = 16
//	cell-width = 8
//	growth = "symmetric"  # or "per-direction"
//	max-cells = 1048576
//	eof = "unchanged"     # or "zero", "all-ones"
//
// Omitted keys keep their defaults. Unknown keys are an error.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var f configFile
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	c := &Config{
		TapeOrder: f.Order,
		CellWidth: f.CellWidth,
		MaxCells:  f.MaxCells,
	}
	if f.Tape != "" {
		if c.Tape, err = ParseTapeMode(f.Tape); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	if f.Growth != "" {
		if c.Growth, err = ParseGrowth(f.Growth); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	if f.EOF != "" {
		if c.EOF, err = ParseEOFMode(f.EOF); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return c, nil
}

// ParseTapeMode parses "growable" or "fixed".
func ParseTapeMode(s string) (TapeMode, error) {
	m, err := tape.ParseMode(s)
	return TapeMode(m), err
}

// ParseGrowth parses "per-direction" or "symmetric".
func ParseGrowth(s string) (Growth, error) {
	g, err := tape.ParseGrowth(s)
	return Growth(g), err
}

// ParseEOFMode parses "zero", "unchanged" or "all-ones".
func ParseEOFMode(s string) (EOFMode, error) {
	m, err := vm.ParseEOFMode(s)
	return EOFMode(m), err
}

// Package image serializes finalized programs as CBOR bytecode images, so a
// program can be compiled once and executed later without its source.
package image

import (
	"bytes"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/kolkov/fbi/internal/compiler"
)

// FormatVersion is the current image layout version.
const FormatVersion = 1

// magic prefixes every image so stray files are rejected early.
var magic = []byte("FBI\x01")

// Image is the on-disk form of a compiled program.
type Image struct {
	Version int    `cbor:"1,keyasint"`
	Ops     []Op   `cbor:"2,keyasint"`
	Source  string `cbor:"3,keyasint,omitempty"` // Stripped source, when kept
}

// Op is one encoded instruction.
type Op struct {
	_    struct{} `cbor:",toarray"`
	Kind int32
	Arg  int
	Pos  int
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("image: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Marshal encodes prog, optionally keeping its stripped source.
func Marshal(prog *compiler.Program, source string) ([]byte, error) {
	img := Image{
		Version: FormatVersion,
		Ops:     make([]Op, len(prog.Ops)),
		Source:  source,
	}
	for i, op := range prog.Ops {
		img.Ops[i] = Op{Kind: int32(op.Kind), Arg: op.Arg, Pos: op.Pos}
	}

	body, err := cborEncMode.Marshal(&img)
	if err != nil {
		return nil, fmt.Errorf("image: marshal: %w", err)
	}
	return append(append([]byte{}, magic...), body...), nil
}

// Unmarshal decodes an image and validates the program it carries.
// It returns the program and the stored source, if any.
func Unmarshal(data []byte) (*compiler.Program, string, error) {
	if !IsImage(data) {
		return nil, "", fmt.Errorf("image: missing %q header", magic[:3])
	}

	var img Image
	if err := cbor.Unmarshal(data[len(magic):], &img); err != nil {
		return nil, "", fmt.Errorf("image: unmarshal: %w", err)
	}
	if img.Version != FormatVersion {
		return nil, "", fmt.Errorf("image: unsupported version %d (want %d)", img.Version, FormatVersion)
	}

	ops := make([]compiler.Op, len(img.Ops))
	for i, op := range img.Ops {
		ops[i] = compiler.Op{Kind: compiler.Kind(op.Kind), Arg: op.Arg, Pos: op.Pos}
	}
	if err := compiler.Validate(ops); err != nil {
		return nil, "", fmt.Errorf("image: %w", err)
	}
	return &compiler.Program{Ops: ops}, img.Source, nil
}

// IsImage reports whether data starts with the image header.
func IsImage(data []byte) bool {
	return bytes.HasPrefix(data, magic)
}

// Package source inspects program text: which bytes are significant, and
// where a byte offset sits in terms of lines and columns.
package source

import (
	"github.com/coregx/coregex"
)

// Symbols lists the significant bytes of the language.
const Symbols = "+-<>,.[]"

var (
	// commentRun matches a maximal run of bytes that are not symbols.
	commentRun = mustCompile(`[^-+<>,.\[\]]+`)

	// newline matches line breaks for position lookups.
	newline = mustCompile(`\n`)
)

func mustCompile(pattern string) *coregex.Regexp {
	re, err := coregex.Compile(pattern)
	if err != nil {
		panic(err)
	}
	return re
}

// Strip removes every comment byte, leaving only the symbols.
// The stripped text compiles to the same program as the original.
func Strip(src string) string {
	return commentRun.ReplaceAllString(src, "")
}

// Significant reports whether src contains any symbol at all.
func Significant(src string) bool {
	return len(Strip(src)) > 0
}

// Position is a 1-based line and column in source text.
type Position struct {
	Line   int
	Column int
}

// PositionOf converts a byte offset into a line and column.
// Offsets past the end are clamped to the end of the text.
func PositionOf(src string, offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(src) {
		offset = len(src)
	}
	breaks := newline.FindAllStringIndex(src[:offset], -1)
	if len(breaks) == 0 {
		return Position{Line: 1, Column: offset + 1}
	}
	lineStart := breaks[len(breaks)-1][1]
	return Position{Line: len(breaks) + 1, Column: offset - lineStart + 1}
}

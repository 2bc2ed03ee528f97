/*
Package gopeg is a Parsing Expression Grammar (PEG) engine.

Grammars are composed in-process from a closed set of primitive and composite
matchers (see sub-package matcher), then executed against a character input
(see sub-package buffer) by one of several match handlers (see sub-package
runner) to produce a parse tree (see sub-package tree), a success flag, and
optional diagnostics (see sub-package perr).

Package gopeg itself only carries the small set of value types shared
across every sub-package: Character and Span.

License

This module carries no external license obligations.
*/
package gopeg

import "fmt"

// Character is a single input position's content: either an ordinary rune
// or one of the three reserved sentinels (EOI, Indent, Dedent). EOI
// participates in matching only via an explicit EOI matcher; Any excludes
// all three sentinels by construction.
type Character = rune

// Sentinel values, chosen from the Unicode Private Use Area so they can
// never collide with real input text. Ordinary matchers (Char, CharRange,
// AnyOf, Any) never match these; they are produced only by a buffer
// (End-Of-Input, emitted once past the last real character) or by the
// indentation-aware buffer (Indent/Dedent).
const (
	EOI    Character = ''
	Indent Character = ''
	Dedent Character = ''
)

// IsSentinel reports whether c is one of the three reserved sentinel
// characters rather than ordinary input text.
func IsSentinel(c Character) bool {
	return c == EOI || c == Indent || c == Dedent
}

// Span is an absolute [from, to) input range, used by matcher contexts and
// parse tree nodes alike to record exactly what input a frame covered.
type Span [2]int

// From returns the start offset of a span.
func (s Span) From() int { return s[0] }

// To returns the end offset of a span (one past the last covered index).
func (s Span) To() int { return s[1] }

// Len returns the length of the span, to-from.
func (s Span) Len() int { return s[1] - s[0] }

// IsNull reports whether the span is the zero value.
func (s Span) IsNull() bool { return s == Span{} }

// Extend grows s to also cover other, returning the union range.
func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}

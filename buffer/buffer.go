// Package buffer implements the minimal random-access character source
// required by the matching core: read character at index, extract a
// substring or a whole line, and map an index back to (line, column).
//
// Two implementations are provided: Default, a plain character source, and
// Indent, a preprocessing wrapper that inserts gopeg.Indent/gopeg.Dedent
// sentinels based on the leading whitespace run of each line.
package buffer

import (
	"strconv"
	"strings"

	"github.com/npillmayer/gopeg"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gopeg.buffer'.
func tracer() tracing.Trace {
	return tracing.Select("gopeg.buffer")
}

// Buffer is the interface the matching core requires of any input source.
type Buffer interface {
	// CharAt returns the character at index i. Any i at or beyond Length
	// returns gopeg.EOI.
	CharAt(i int) gopeg.Character
	// Extract returns the text in [from, to). to may exceed Length; the
	// result is truncated to the real input.
	Extract(from, to int) string
	// ExtractLine returns line n (1-based), without its terminator.
	ExtractLine(n int) string
	// GetPosition maps an absolute index to its 1-based (line, column).
	GetPosition(i int) (line, col int)
	// Length returns the number of real characters in the buffer.
	Length() int
}

// Default is a plain, non-streaming character buffer backed by a decoded
// rune slice, with a precomputed line-start index for position lookup.
type Default struct {
	runes      []rune
	lineStarts []int // lineStarts[n] = absolute index of first char of line n+1
}

var _ Buffer = (*Default)(nil)

// New creates a Default buffer over the given text.
func New(text string) *Default {
	b := &Default{runes: []rune(text)}
	b.lineStarts = append(b.lineStarts, 0)
	for i, r := range b.runes {
		if r == '\n' {
			b.lineStarts = append(b.lineStarts, i+1)
		} else if r == '\r' {
			// \r\n counts as one terminator; bare \r also terminates.
			if i+1 >= len(b.runes) || b.runes[i+1] != '\n' {
				b.lineStarts = append(b.lineStarts, i+1)
			}
		}
	}
	tracer().Debugf("buffer: %d chars, %d lines", len(b.runes), len(b.lineStarts))
	return b
}

// CharAt implements Buffer.
func (b *Default) CharAt(i int) gopeg.Character {
	if i < 0 || i >= len(b.runes) {
		return gopeg.EOI
	}
	return b.runes[i]
}

// Extract implements Buffer.
func (b *Default) Extract(from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > len(b.runes) {
		to = len(b.runes)
	}
	if from >= to {
		return ""
	}
	return string(b.runes[from:to])
}

// Length implements Buffer.
func (b *Default) Length() int {
	return len(b.runes)
}

// lineBounds returns [start, endExclusiveOfTerminator) for 1-based line n.
func (b *Default) lineBounds(n int) (int, int) {
	if n < 1 || n > len(b.lineStarts) {
		return len(b.runes), len(b.runes)
	}
	start := b.lineStarts[n-1]
	end := len(b.runes)
	if n < len(b.lineStarts) {
		end = b.lineStarts[n] // includes terminator(s); trimmed below
	}
	// trim a trailing terminator off of end.
	trimmed := end
	for trimmed > start && (b.runes[trimmed-1] == '\n' || b.runes[trimmed-1] == '\r') {
		trimmed--
	}
	return start, trimmed
}

// ExtractLine implements Buffer.
func (b *Default) ExtractLine(n int) string {
	start, end := b.lineBounds(n)
	return string(b.runes[start:end])
}

// GetPosition implements Buffer.
func (b *Default) GetPosition(i int) (line, col int) {
	if i < 0 {
		i = 0
	}
	// binary search over lineStarts for the last start <= i.
	lo, hi := 0, len(b.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if b.lineStarts[mid] <= i {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	line = lo + 1
	col = i - b.lineStarts[lo] + 1
	return line, col
}

// TextPosition is a small convenience pairing of line and column, handed to
// callers that format diagnostics.
type TextPosition struct {
	Line, Col int
}

func (p TextPosition) String() string {
	return strings.Join([]string{
		"line", strconv.Itoa(p.Line), "pos", strconv.Itoa(p.Col),
	}, " ")
}

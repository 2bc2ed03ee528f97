package buffer

import (
	"fmt"

	"github.com/npillmayer/gopeg"
)

// IndentError reports a mixed tab/space indentation prefix. It is recorded
// while an Indent buffer is built and returned by Indent.Err; the buffer's
// characters are not changed by it, so matching over the buffer does not
// fail at the offending index on its account.
type IndentError struct {
	Index int
	Line  int
}

func (e *IndentError) Error() string {
	return fmt.Sprintf("mixed tabs and spaces in indentation at line %d (index %d)", e.Line, e.Index)
}

// Indent wraps a Default buffer, splicing gopeg.Indent/gopeg.Dedent
// sentinels into the character stream at the start of each logical line
// according to a tracked indentation-column stack.
//
// The sentinels are materialized eagerly at construction time into a
// parallel "virtual index" space: virtual index i either maps to a real
// character in the underlying buffer, or to one synthesized Indent/Dedent.
// This keeps CharAt/Extract/GetPosition O(1)-ish without re-deriving the
// indentation stack on every call, at the cost of one linear pre-pass.
type Indent struct {
	base     *Default
	virtual  []gopeg.Character // real characters and spliced sentinels, aligned with realIdx
	realIdx  []int             // virtual[i] corresponds to base index realIdx[i] (sentinels repeat the following real index)
	tabWidth int
	err      error
}

var _ Buffer = (*Indent)(nil)

// NewIndent builds an Indent buffer over text. tabWidth controls how far a
// tab advances the indentation column (8 if <= 0).
func NewIndent(text string, tabWidth int) *Indent {
	if tabWidth <= 0 {
		tabWidth = 8
	}
	base := New(text)
	ib := &Indent{base: base, tabWidth: tabWidth}
	ib.build()
	return ib
}

// Err returns the first mixed-indentation error encountered while building
// the sentinel stream, if any.
func (b *Indent) Err() error {
	return b.err
}

func (b *Indent) build() {
	stack := []int{0} // indentation-column stack, innermost last
	n := len(b.base.runes)
	atLineStart := true
	for i := 0; i <= n; {
		if i == n {
			for len(stack) > 1 {
				b.emitSentinel(gopeg.Dedent, i)
				stack = stack[:len(stack)-1]
			}
			break
		}
		if !atLineStart {
			b.emitReal(i)
			if b.base.runes[i] == '\n' {
				atLineStart = true
			} else if b.base.runes[i] == '\r' {
				atLineStart = true
			}
			i++
			continue
		}
		// measure the indentation prefix of this line.
		start := i
		col := 0
		usesTab, usesSpace := false, false
		for i < n && (b.base.runes[i] == ' ' || b.base.runes[i] == '\t') {
			if b.base.runes[i] == '\t' {
				usesTab = true
				col += b.tabWidth - col%b.tabWidth
			} else {
				usesSpace = true
				col++
			}
			i++
		}
		if usesTab && usesSpace && b.err == nil {
			line, _ := b.base.GetPosition(start)
			b.err = &IndentError{Index: start, Line: line}
		}
		// a blank line (only whitespace then newline/EOF) never changes
		// the indentation stack.
		blank := i >= n || b.base.runes[i] == '\n' || b.base.runes[i] == '\r'
		if !blank {
			top := stack[len(stack)-1]
			if col > top {
				stack = append(stack, col)
				b.emitSentinel(gopeg.Indent, start)
			} else {
				for col < stack[len(stack)-1] {
					stack = stack[:len(stack)-1]
					b.emitSentinel(gopeg.Dedent, start)
				}
			}
		}
		for j := start; j < i; j++ {
			b.emitReal(j)
		}
		atLineStart = false
	}
}

func (b *Indent) emitReal(realIndex int) {
	b.virtual = append(b.virtual, b.base.runes[realIndex])
	b.realIdx = append(b.realIdx, realIndex)
}

func (b *Indent) emitSentinel(c gopeg.Character, realIndex int) {
	b.virtual = append(b.virtual, c)
	b.realIdx = append(b.realIdx, realIndex)
}

// CharAt implements Buffer over the virtual (sentinel-spliced) index space.
func (b *Indent) CharAt(i int) gopeg.Character {
	if i < 0 || i >= len(b.virtual) {
		return gopeg.EOI
	}
	return b.virtual[i]
}

// Length implements Buffer: the virtual length, including sentinels.
func (b *Indent) Length() int {
	return len(b.virtual)
}

// Extract implements Buffer, rendering sentinels as empty (they carry no
// text) and concatenating the real runes in between.
func (b *Indent) Extract(from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > len(b.virtual) {
		to = len(b.virtual)
	}
	if from >= to {
		return ""
	}
	var out []rune
	for i := from; i < to; i++ {
		if !gopeg.IsSentinel(b.virtual[i]) {
			out = append(out, b.virtual[i])
		}
	}
	return string(out)
}

// ExtractLine implements Buffer by delegating to the underlying real
// buffer's line (sentinels are synthetic and never split a real line).
func (b *Indent) ExtractLine(n int) string {
	return b.base.ExtractLine(n)
}

// GetPosition implements Buffer by mapping the virtual index back to its
// underlying real index.
func (b *Indent) GetPosition(i int) (line, col int) {
	if i < 0 {
		i = 0
	}
	if i >= len(b.realIdx) {
		if len(b.realIdx) == 0 {
			return b.base.GetPosition(0)
		}
		return b.base.GetPosition(b.realIdx[len(b.realIdx)-1])
	}
	return b.base.GetPosition(b.realIdx[i])
}

package buffer

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/npillmayer/gopeg"
)

// TestIndentSplicesIndentAndDedentSentinels checks the indentation stack
// behavior against a two-level nest: one line at column 0, one nested
// line indented by two spaces, then a dedent back to column 0.
func TestIndentSplicesIndentAndDedentSentinels(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.buffer")
	defer teardown()

	b := NewIndent("a\n  b\nc", 8)
	if b.Err() != nil {
		t.Fatalf("unexpected indentation error: %v", b.Err())
	}

	var sentinels []gopeg.Character
	for i := 0; i < b.Length(); i++ {
		c := b.CharAt(i)
		if gopeg.IsSentinel(c) && c != gopeg.EOI {
			sentinels = append(sentinels, c)
		}
	}
	if len(sentinels) != 2 || sentinels[0] != gopeg.Indent || sentinels[1] != gopeg.Dedent {
		t.Fatalf("expected exactly one Indent then one Dedent, got %v", sentinels)
	}
}

func TestIndentExtractOmitsSentinelsFromText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.buffer")
	defer teardown()

	b := NewIndent("a\n  b\nc", 8)
	got := b.Extract(0, b.Length())
	if got != "a\n  b\nc" {
		t.Errorf("Extract over the whole virtual range should recover the original text minus sentinels, got %q", got)
	}
}

func TestIndentDetectsMixedTabsAndSpaces(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.buffer")
	defer teardown()

	b := NewIndent("a\n\t x\n", 8)
	if b.Err() == nil {
		t.Errorf("expected an IndentError for a mixed tab/space prefix")
	}
}

func TestIndentCharAtReturnsEOIPastLength(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.buffer")
	defer teardown()

	b := NewIndent("a", 8)
	if b.CharAt(b.Length()) != gopeg.EOI {
		t.Errorf("expected EOI past the virtual length")
	}
}

package matcher

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// TestCombinatorCacheIdentity checks that two calls to a composite
// combinator with structurally identical arguments return the very same
// *Matcher instance, while a call with different arguments returns a
// distinct one.
func TestCombinatorCacheIdentity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.matcher")
	defer teardown()

	a1 := Sequence(Char('a'), Char('b'))
	a2 := Sequence(Char('a'), Char('b'))
	if a1 != a2 {
		t.Errorf("expected identical Sequence args to return the same instance")
	}

	b := Sequence(Char('a'), Char('c'))
	if a1 == b {
		t.Errorf("expected different Sequence args to return distinct instances")
	}
}

func TestCharIgnoreCaseFoldsToCharWhenNoCaseDistinction(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.matcher")
	defer teardown()

	m := IgnoreCase('1')
	if m.Kind != KindChar {
		t.Errorf("expected IgnoreCase('1') to fold to KindChar, got %s", m.Kind)
	}
}

func TestCharRangeErrRejectsInvertedRange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.matcher")
	defer teardown()

	if _, err := CharRangeErr('z', 'a'); err == nil {
		t.Errorf("expected GrammarError for hi < lo")
	}
}

func TestAnyOfFoldsSingletonToChar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.matcher")
	defer teardown()

	m := AnyOf(Of('x'))
	if m.Kind != KindChar {
		t.Errorf("expected AnyOf of a singleton set to fold to KindChar, got %s", m.Kind)
	}
}

// TestFirstOfStringsPreservesOrderedChoiceOnSharedPrefix checks that
// FirstOf("foo", "foobar") matches "foo" on input "foobar", not greedily
// taking the longer alternative.
func TestFirstOfStringsPreservesOrderedChoiceOnSharedPrefix(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.matcher")
	defer teardown()

	m := FirstOf(String("foo"), String("foobar"))
	if m.Kind != KindFirstOfStrings {
		t.Fatalf("expected a FirstOf of all string literals to fold to KindFirstOfStrings, got %s", m.Kind)
	}
	at := func(input string) func(int) rune {
		rs := []rune(input)
		return func(i int) rune {
			if i < 0 || i >= len(rs) {
				return 0
			}
			return rs[i]
		}
	}
	end, ok := m.MatchFirstOfStrings(0, at("foobar"))
	if !ok {
		t.Fatalf("expected a match")
	}
	if end != 3 {
		t.Errorf("expected match to end at 3 (\"foo\"), got %d", end)
	}
}

func TestFirstOfStringsLeadCharsAreSortedAndDeduplicatedByEdge(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.matcher")
	defer teardown()

	m := FirstOf(String("ab"), String("ac"), String("ba"))
	leads := m.FirstOfStringsLeadChars()
	if len(leads) != 2 {
		t.Fatalf("expected 2 distinct lead characters, got %d: %v", len(leads), leads)
	}
	if leads[0] != 'a' || leads[1] != 'b' {
		t.Errorf("expected sorted leads [a b], got %v", leads)
	}
}

func TestSkipSuppressedAndSuppressedSubnodesAreDistinctFlags(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.matcher")
	defer teardown()

	base := Char('a')
	skipped := Skip(base)
	suppressed := Suppressed(base)
	suppressedSub := SuppressedSubnodes(base)

	if !skipped.SkipNode || skipped.SuppressNode {
		t.Errorf("Skip should set only SkipNode")
	}
	if !suppressed.SuppressNode || suppressed.SkipNode {
		t.Errorf("Suppressed should set only SuppressNode")
	}
	if !suppressedSub.SuppressSubnodes || suppressedSub.SuppressNode || suppressedSub.SkipNode {
		t.Errorf("SuppressedSubnodes should set only SuppressSubnodes")
	}
}

// TestWalkSurvivesRecursiveGrammarCycle checks that Walk terminates over a
// self-referential grammar built with Declare/Define, and that repeated
// walks visit the same number of matchers.
func TestWalkSurvivesRecursiveGrammarCycle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.matcher")
	defer teardown()

	a := Declare("A")
	a.Define(Sequence(Char('a'), Optional(a)))

	visits := 0
	Walk(a, func(m *Matcher) bool {
		visits++
		return true
	})
	if visits == 0 {
		t.Fatalf("expected at least one visit")
	}
	// A second walk must see the same count: no runaway growth from
	// traversing the cycle more than once per matcher.
	second := 0
	Walk(a, func(m *Matcher) bool { second++; return true })
	if second != visits {
		t.Errorf("expected repeated walks to visit the same number of nodes, got %d then %d", visits, second)
	}
}

func TestDeclareDefineClosesRecursiveGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.matcher")
	defer teardown()

	a := Declare("A")
	a.Define(Sequence(Char('a'), Optional(a)))

	if a.Kind != KindSequence {
		t.Errorf("expected Define to mutate the placeholder in place, got kind %s", a.Kind)
	}
	if a.Label != "A" {
		t.Errorf("expected custom label to survive Define, got %q", a.Label)
	}

	defer func() {
		if recover() == nil {
			t.Errorf("expected a second Define to panic")
		}
	}()
	a.Define(Char('b'))
}

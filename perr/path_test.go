package perr

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/npillmayer/gopeg/matcher"
)

// TestFindProperLabelMatcherIsPure checks testable property 6: given the
// same path value and index, FindProperLabelMatcher always returns the same
// matcher, and it selects the deepest custom-labelled frame that began
// exactly at errorIndex, ignoring frames with synthesized labels.
func TestFindProperLabelMatcherIsPure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.perr")
	defer teardown()

	digit := matcher.Label("digit", matcher.CharRange('0', '9'))
	root := matcher.Sequence(digit, matcher.Char('x'))

	path := Push(nil, root, 0)
	path = Push(path, digit, 0) // same start index as root, but custom-labelled

	got1 := FindProperLabelMatcher(path, 0)
	got2 := FindProperLabelMatcher(path, 0)
	if got1 != got2 {
		t.Fatalf("expected repeated calls to agree, got %v and %v", got1, got2)
	}
	if got1 != digit {
		t.Errorf("expected the custom-labelled leaf to win, got %v", got1)
	}
}

func TestFindProperLabelMatcherReturnsNilWithoutCustomLabelAtIndex(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.perr")
	defer teardown()

	a := matcher.Char('a')
	b := matcher.Char('b')
	path := Push(nil, a, 0)
	path = Push(path, b, 1)

	if m := FindProperLabelMatcher(path, 1); m != nil {
		t.Errorf("expected nil (no custom label at index 1), got %v", m)
	}
}

func TestMatchersReturnsLeafToRootOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.perr")
	defer teardown()

	a := matcher.Char('a')
	b := matcher.Char('b')
	path := Push(nil, a, 0)
	path = Push(path, b, 1)

	ms := path.Matchers()
	if len(ms) != 2 || ms[0] != b || ms[1] != a {
		t.Errorf("expected [b, a], got %v", ms)
	}
}

package values

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestPushPopOrderIsLIFO(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.values")
	defer teardown()

	s := New()
	s.Push(1)
	s.Push(2)
	s.Push(3)

	if got := s.Pop(); got != 3 {
		t.Errorf("Pop() = %v, want 3", got)
	}
	if got := s.Pop(); got != 2 {
		t.Errorf("Pop() = %v, want 2", got)
	}
	if s.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", s.Depth())
	}
}

func TestSnapshotTruncateToRollsBackPushes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.values")
	defer teardown()

	s := New()
	s.Push("a")
	mark := s.Snapshot()
	s.Push("b")
	s.Push("c")
	s.TruncateTo(mark)

	if s.Depth() != 1 {
		t.Fatalf("Depth() = %d, want 1 after truncate", s.Depth())
	}
	if got := s.Peek(); got != "a" {
		t.Errorf("Peek() = %v, want %q", got, "a")
	}
}

func TestPeekNIndexesFromTop(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.values")
	defer teardown()

	s := New()
	s.Push("bottom")
	s.Push("top")

	if got := s.PeekN(0); got != "top" {
		t.Errorf("PeekN(0) = %v, want %q", got, "top")
	}
	if got := s.PeekN(1); got != "bottom" {
		t.Errorf("PeekN(1) = %v, want %q", got, "bottom")
	}
}

func TestSwapExchangesTopTwoValues(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.values")
	defer teardown()

	s := New()
	s.Push("a")
	s.Push("b")
	s.Swap()

	if got := s.Peek(); got != "a" {
		t.Errorf("after Swap, Peek() = %v, want %q", got, "a")
	}
	if got := s.PeekN(1); got != "b" {
		t.Errorf("after Swap, PeekN(1) = %v, want %q", got, "b")
	}
}

func TestPopOnEmptyStackPanics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.values")
	defer teardown()

	defer func() {
		if recover() == nil {
			t.Errorf("expected Pop on an empty stack to panic")
		}
	}()
	New().Pop()
}

func TestValuesReturnsBottomToTopSnapshot(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.values")
	defer teardown()

	s := New()
	s.Push(1)
	s.Push(2)
	vals := s.Values()
	if len(vals) != 2 || vals[0] != 1 || vals[1] != 2 {
		t.Errorf("Values() = %v, want [1 2]", vals)
	}
}

package tree

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/npillmayer/gopeg"
)

// TestChildSpansCoverParentExactly checks that a parent node's span is
// exactly the union of its children's spans when the children are
// contiguous, as every composite matcher in package match builds them.
func TestChildSpansCoverParentExactly(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.tree")
	defer teardown()

	a := New("a", gopeg.Span{0, 2}, nil, nil)
	b := New("b", gopeg.Span{2, 5}, nil, nil)
	parent := New("seq", gopeg.Span{0, 5}, []*Node{a, b}, nil)

	if parent.Span.From() != a.Span.From() {
		t.Errorf("parent start %d != first child start %d", parent.Span.From(), a.Span.From())
	}
	if parent.Span.To() != b.Span.To() {
		t.Errorf("parent end %d != last child end %d", parent.Span.To(), b.Span.To())
	}
	if parent.Span.Len() != a.Span.Len()+b.Span.Len() {
		t.Errorf("parent span length %d != sum of children's %d", parent.Span.Len(), a.Span.Len()+b.Span.Len())
	}
}

func TestWalkVisitsPreOrderAndRespectsDescendFalse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.tree")
	defer teardown()

	leaf1 := New("x", gopeg.Span{0, 1}, nil, nil)
	leaf2 := New("y", gopeg.Span{1, 2}, nil, nil)
	mid := New("mid", gopeg.Span{0, 2}, []*Node{leaf1, leaf2}, nil)
	root := New("root", gopeg.Span{0, 2}, []*Node{mid}, nil)

	var visited []string
	Walk(root, func(n *Node) bool {
		visited = append(visited, n.Label)
		return n.Label != "mid" // skip mid's children
	})

	want := []string{"root", "mid"}
	if len(visited) != len(want) {
		t.Fatalf("visited %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("visited[%d] = %q, want %q", i, visited[i], want[i])
		}
	}
}

func TestDumpIncludesEveryLabel(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.tree")
	defer teardown()

	leaf := New("leaf", gopeg.Span{0, 1}, nil, nil)
	root := New("root", gopeg.Span{0, 1}, []*Node{leaf}, nil)
	dump := root.Dump()
	if !containsAll(dump, "root", "leaf") {
		t.Errorf("dump %q missing expected labels", dump)
	}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !contains(s, sub) {
			return false
		}
	}
	return true
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

package matcher

// Visitor is called once for every distinct matcher reached during a Walk,
// in pre-order. Returning false stops descent into that matcher's children
// (but sibling subtrees are still visited).
type Visitor func(m *Matcher) (descend bool)

// Walk performs a seen-set-guarded traversal of the matcher graph rooted at
// root, safe against the cycles recursive grammars introduce: a map keyed
// by pointer identity tracks which matchers have already been visited.
func Walk(root *Matcher, visit Visitor) {
	seen := make(map[*Matcher]bool)
	walk(root, visit, seen)
}

func walk(m *Matcher, visit Visitor, seen map[*Matcher]bool) {
	if m == nil || seen[m] {
		return
	}
	seen[m] = true
	if !visit(m) {
		return
	}
	for _, c := range m.Children {
		walk(c, visit, seen)
	}
}

// Package tree implements the PEG engine's immutable parse tree: a tree of
// labelled nodes built from successful matcher contexts, plus a read-only
// visitor for traversal.
//
// A single tree, not a shared forest, is enough here: PEG's ordered choice
// never needs node sharing between alternative derivations, since exactly
// one alternative is ever committed to.
package tree

import (
	"fmt"
	"strings"

	"github.com/npillmayer/gopeg"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gopeg.tree'.
func tracer() tracing.Trace {
	return tracing.Select("gopeg.tree")
}

// Node is one immutable parse tree node: a label, the absolute input range
// it covers, its ordered children, and the value (if any) bound to the
// frame that produced it.
type Node struct {
	Label    string
	Span     gopeg.Span
	Children []*Node
	Value    interface{}
}

// New constructs a Node. Children is taken by reference; callers must not
// mutate the slice afterward — nodes are immutable once returned.
func New(label string, span gopeg.Span, children []*Node, value interface{}) *Node {
	tracer().Debugf("tree: new node %s%s with %d children", label, span, len(children))
	return &Node{Label: label, Span: span, Children: children, Value: value}
}

// Text extracts the raw substring this node covers, given an extractor
// (typically buffer.Buffer.Extract).
func (n *Node) Text(extract func(from, to int) string) string {
	return extract(n.Span.From(), n.Span.To())
}

func (n *Node) String() string {
	return fmt.Sprintf("%s%s", n.Label, n.Span)
}

// Dump renders the tree as an indented outline, useful for test failure
// messages and debugging, not as a human-facing error report — report
// formatting is left to the embedder.
func (n *Node) Dump() string {
	var b strings.Builder
	n.dump(&b, 0)
	return b.String()
}

func (n *Node) dump(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(n.String())
	b.WriteByte('\n')
	for _, c := range n.Children {
		c.dump(b, depth+1)
	}
}

// Visitor is called once per node in pre-order during Walk; returning false
// skips that node's children.
type Visitor func(n *Node) (descend bool)

// Walk performs a plain pre-order traversal. Parse trees are acyclic by
// construction (every node is built from children that already exist, and
// each child's span lies within its parent's), so no cycle guard is needed
// here, unlike matcher.Walk.
func Walk(n *Node, visit Visitor) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, visit)
	}
}

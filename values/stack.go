// Package values implements the PEG engine's value stack: a process-private
// LIFO of user-supplied semantic values, manipulated by actions, with
// transactional snapshot/truncate semantics so a failing matcher frame can
// roll back exactly the values it pushed.
package values

import (
	"fmt"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gopeg.values'.
func tracer() tracing.Trace {
	return tracing.Select("gopeg.values")
}

// Stack is the value stack shared by every matcher frame of one parse.
// Backed by emirpasic/gods' arraylist: the transactional truncate-to-depth
// operation is just an index-bounded removal on an ordered list.
type Stack struct {
	list *arraylist.List
}

// New creates an empty value stack.
func New() *Stack {
	return &Stack{list: arraylist.New()}
}

// Push pushes v onto the stack.
func (s *Stack) Push(v interface{}) {
	s.list.Add(v)
}

// Pop removes and returns the top value. It panics if the stack is empty —
// callers (actions, via the frame-executing driver) are expected to check
// Depth first, mirroring the spec's "transactional semantics that mirror
// the cursor" discipline: an action that pops without checking is a
// grammar bug, not a recoverable parse condition.
func (s *Stack) Pop() interface{} {
	v, ok := s.list.Get(s.list.Size() - 1)
	if !ok {
		panic("values: Pop on empty stack")
	}
	s.list.Remove(s.list.Size() - 1)
	return v
}

// Peek returns the top value without removing it.
func (s *Stack) Peek() interface{} {
	return s.PeekN(0)
}

// PeekN returns the value n entries below the top (PeekN(0) == Peek).
func (s *Stack) PeekN(n int) interface{} {
	idx := s.list.Size() - 1 - n
	v, ok := s.list.Get(idx)
	if !ok {
		panic(fmt.Sprintf("values: PeekN(%d) out of range (depth %d)", n, s.list.Size()))
	}
	return v
}

// Swap exchanges the top two values.
func (s *Stack) Swap() {
	top, second := s.list.Size()-1, s.list.Size()-2
	a, _ := s.list.Get(top)
	b, _ := s.list.Get(second)
	s.list.Set(top, b)
	s.list.Set(second, a)
}

// Depth returns the current stack depth.
func (s *Stack) Depth() int {
	return s.list.Size()
}

// Snapshot captures the current depth. A matcher frame takes one on entry.
func (s *Stack) Snapshot() int {
	return s.list.Size()
}

// TruncateTo restores the stack to a depth previously returned by
// Snapshot, discarding anything pushed since — the rollback half of the
// spec's transactional value-stack contract (§4.C/§4.E).
func (s *Stack) TruncateTo(depth int) {
	for s.list.Size() > depth {
		s.list.Remove(s.list.Size() - 1)
	}
	tracer().Debugf("value stack truncated to depth %d", depth)
}

// Values returns a read-only snapshot slice of the whole stack, bottom to
// top, for diagnostics.
func (s *Stack) Values() []interface{} {
	return s.list.Values()
}

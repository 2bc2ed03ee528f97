// Package match implements the PEG engine's matching core: the recursive,
// backtracking execution of a matcher graph over a buffer, building an
// immutable parse tree and maintaining the transactional value stack and
// farthest-failure diagnostics the match handlers in package runner
// consume.
//
// Each frame snapshots what it owns on entry and restores it on failure,
// the same discipline a tree-walking interpreter's lexically scoped frame
// chain uses, adapted here to a PEG matcher's backtracking scoping.
package match

import (
	"github.com/npillmayer/gopeg"
	"github.com/npillmayer/gopeg/buffer"
	"github.com/npillmayer/gopeg/matcher"
	"github.com/npillmayer/gopeg/perr"
	"github.com/npillmayer/gopeg/tree"
	"github.com/npillmayer/gopeg/values"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gopeg.match'.
func tracer() tracing.Trace {
	return tracing.Select("gopeg.match")
}

// session holds the state shared by every frame of a single matching pass:
// the input, the value stack, and the farthest-failure tracker the
// reporting and recovering runners read once the pass is over.
type session struct {
	buf      buffer.Buffer
	stack    *values.Stack
	farIndex int
	farPath  *perr.PathEntry
	actErr   *perr.ParseError
	obs      Observer
}

// Observer receives a notification around every matcher frame attempt,
// win or lose. It backs the tracing runner's per-frame trace events (spec
// §4.F, TracingParseRunner) without package match depending on package
// runner: runner adapts its trace sink to this interface.
type Observer interface {
	OnEnter(m *matcher.Matcher, start int)
	OnExit(m *matcher.Matcher, start, end int, matched bool)
}

func (s *session) noteFailure(index int, path *perr.PathEntry) {
	if index >= s.farIndex {
		s.farIndex = index
		s.farPath = path
	}
}

// Context is one matcher invocation frame: which grammar node is being
// tried, where it started, and the slice of the shared value stack and
// parse tree it is building. A Context is created fresh for every attempt
// at matching a node, including every retried alternative of a FirstOf and
// every iteration of a repetition; it is discarded on failure and folded
// into its parent on success.
type Context struct {
	s        *session
	Parent   *Context
	M        *matcher.Matcher
	Path     *perr.PathEntry
	Start    int
	index    int
	mark     int
	subNodes []*tree.Node
	value    interface{}
}

var _ matcher.ActionContext = (*Context)(nil)

// Index returns the frame's current cursor position, implementing
// matcher.ActionContext.
func (c *Context) Index() int { return c.index }

// Stack returns the value stack shared by the whole parse, implementing
// matcher.ActionContext.
func (c *Context) Stack() *values.Stack { return c.s.stack }

// Text extracts raw input text, implementing matcher.ActionContext.
func (c *Context) Text(from, to int) string { return c.s.buf.Extract(from, to) }

// SetValue binds a value for an Action to associate data with a tree node.
// An Action's own frame never produces a node, so on an Action frame the
// value is bound to the enclosing frame and becomes the Value of the node
// that frame produces.
func (c *Context) SetValue(v interface{}) {
	if c.M.Kind == matcher.KindAction && c.Parent != nil {
		c.Parent.value = v
		return
	}
	c.value = v
}

func newFrame(s *session, parent *Context, m *matcher.Matcher, start int) *Context {
	return &Context{
		s:      s,
		Parent: parent,
		M:      m,
		Path:   perr.Push(parentPath(parent), m, start),
		Start:  start,
		index:  start,
		mark:   s.stack.Snapshot(),
	}
}

func parentPath(parent *Context) *perr.PathEntry {
	if parent == nil {
		return nil
	}
	return parent.Path
}

func newChild(parent *Context, m *matcher.Matcher, start int) *Context {
	return newFrame(parent.s, parent, m, start)
}

// attach folds a successfully matched child frame into its parent,
// advancing the parent's cursor and applying the child matcher's
// suppress/skip policy:
//
//   - SkipNode: neither the child's own node nor its descendants attach.
//   - SuppressNode: the child's own node is omitted, but its children are
//     spliced directly into the parent's subnode list.
//   - SuppressSubnodes: the child's own node is built, but its children are
//     discarded rather than attached beneath it.
//   - Otherwise: the child's node is built with its children intact and
//     appended to the parent's subnode list.
func attach(parent *Context, child *Context) {
	parent.index = child.index
	if child.M.SkipNode {
		return
	}
	if child.M.SuppressNode {
		parent.subNodes = append(parent.subNodes, child.subNodes...)
		return
	}
	children := child.subNodes
	if child.M.SuppressSubnodes {
		children = nil
	}
	node := tree.New(child.M.Label, gopeg.Span{child.Start, child.index}, children, child.value)
	parent.subNodes = append(parent.subNodes, node)
}

// execute runs ctx's matcher once. On failure it rolls ctx back to its
// entry state (cursor, value stack, collected subnodes) before returning,
// so every caller can treat a failed child as having had no effect at all —
// the single choke point for transactional backtracking, rather than
// duplicating the rollback in each case below.
func execute(ctx *Context) bool {
	if ctx.s.obs != nil {
		ctx.s.obs.OnEnter(ctx.M, ctx.Start)
	}
	ok := dispatch(ctx)
	if !ok {
		ctx.s.stack.TruncateTo(ctx.mark)
		ctx.index = ctx.Start
		ctx.subNodes = nil
	}
	if ctx.s.obs != nil {
		ctx.s.obs.OnExit(ctx.M, ctx.Start, ctx.index, ok)
	}
	return ok
}

func dispatch(ctx *Context) bool {
	m := ctx.M
	switch m.Kind {
	case matcher.KindChar:
		return matchChar(ctx, func(c gopeg.Character) bool { return c == m.Ch })
	case matcher.KindCharIgnoreCase:
		return matchChar(ctx, func(c gopeg.Character) bool { return c == m.Ch || c == m.ChAlt })
	case matcher.KindCharRange:
		return matchChar(ctx, func(c gopeg.Character) bool {
			return !gopeg.IsSentinel(c) && c >= m.Lo && c <= m.Hi
		})
	case matcher.KindAnyOf:
		return matchChar(ctx, m.Set.Contains)
	case matcher.KindAny:
		return matchChar(ctx, func(c gopeg.Character) bool { return !gopeg.IsSentinel(c) })
	case matcher.KindEmpty:
		return true
	case matcher.KindNothing:
		ctx.s.noteFailure(ctx.index, ctx.Path)
		return false
	case matcher.KindEOI:
		if ctx.s.buf.CharAt(ctx.index) == gopeg.EOI {
			return true
		}
		ctx.s.noteFailure(ctx.index, ctx.Path)
		return false
	case matcher.KindSequence:
		return execSequence(ctx)
	case matcher.KindFirstOf:
		return execFirstOf(ctx)
	case matcher.KindOptional:
		execOptionalOrStar(ctx, false)
		return true
	case matcher.KindZeroOrMore:
		execOptionalOrStar(ctx, true)
		return true
	case matcher.KindOneOrMore:
		return execOneOrMore(ctx)
	case matcher.KindTest:
		return execPredicate(ctx, true)
	case matcher.KindTestNot:
		return execPredicate(ctx, false)
	case matcher.KindAction:
		return execAction(ctx)
	case matcher.KindString:
		return execString(ctx)
	case matcher.KindFirstOfStrings:
		end, ok := m.MatchFirstOfStrings(ctx.index, ctx.s.buf.CharAt)
		if !ok {
			ctx.s.noteFailure(ctx.index, ctx.Path)
			return false
		}
		ctx.index = end
		return true
	default:
		tracer().Errorf("match: unhandled matcher kind %s", m.Kind)
		return false
	}
}

func matchChar(ctx *Context, accept func(gopeg.Character) bool) bool {
	if accept(ctx.s.buf.CharAt(ctx.index)) {
		ctx.index++
		return true
	}
	ctx.s.noteFailure(ctx.index, ctx.Path)
	return false
}

func execSequence(ctx *Context) bool {
	for _, sub := range ctx.M.Children {
		child := newChild(ctx, sub, ctx.index)
		if !execute(child) {
			return false
		}
		attach(ctx, child)
	}
	return true
}

func execFirstOf(ctx *Context) bool {
	for _, alt := range ctx.M.Children {
		child := newChild(ctx, alt, ctx.Start)
		if execute(child) {
			attach(ctx, child)
			return true
		}
	}
	return false
}

// execOptionalOrStar implements Optional (repeat==false: at most one
// iteration) and ZeroOrMore (repeat==true: as many as succeed). Both
// always succeed overall. A zero-width successful iteration is attached
// once and then the loop stops regardless of repeat, since repeating it
// again would never advance the cursor.
func execOptionalOrStar(ctx *Context, repeat bool) {
	for {
		iterStart := ctx.index
		child := newChild(ctx, ctx.M.Children[0], ctx.index)
		if !execute(child) {
			return
		}
		attach(ctx, child)
		if !repeat || child.index == iterStart {
			return
		}
	}
}

func execOneOrMore(ctx *Context) bool {
	first := newChild(ctx, ctx.M.Children[0], ctx.index)
	if !execute(first) {
		return false
	}
	attach(ctx, first)
	if first.index == first.Start {
		return true
	}
	execOptionalOrStar(ctx, true)
	return true
}

// execPredicate implements Test (want==true) and TestNot (want==false):
// zero-width lookahead that always restores the cursor and value stack
// regardless of outcome, and never attaches a node.
func execPredicate(ctx *Context, want bool) bool {
	child := newChild(ctx, ctx.M.Children[0], ctx.index)
	ok := execute(child)
	ctx.s.stack.TruncateTo(ctx.mark)
	return ok == want
}

func execAction(ctx *Context) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ctx.s.actErr = perr.NewActionException(ctx.Start, ctx.index, ctx.Path, r)
			tracer().Errorf("action at %d panicked: %v", ctx.Start, r)
			ok = false
		}
	}()
	ok = ctx.M.Act(ctx)
	if !ok {
		ctx.s.noteFailure(ctx.index, ctx.Path)
	}
	return ok
}

func execString(ctx *Context) bool {
	for _, r := range ctx.M.Str {
		if ctx.s.buf.CharAt(ctx.index) != r {
			ctx.s.noteFailure(ctx.index, ctx.Path)
			return false
		}
		ctx.index++
	}
	return true
}

// Result is the outcome of one matching pass of a grammar over a buffer.
type Result struct {
	// Node is the parse tree root, set only when Matched is true.
	Node *tree.Node
	// Matched reports whether root matched starting at StartIndex.
	Matched bool
	// EndIndex is the cursor position after a successful match.
	EndIndex int
	// Stack is this pass's value stack, populated by any actions that ran.
	Stack *values.Stack
	// FailIndex is the farthest index any primitive matcher failed at
	// during the pass, win or lose.
	FailIndex int
	// FailPath is the matcher path active at FailIndex.
	FailPath *perr.PathEntry
	// ActionErr is set if an Action panicked during the pass.
	ActionErr *perr.ParseError
}

// Run performs a single matching pass of root over buf, starting at
// startIndex. Each call allocates its own value stack, so repeated passes —
// as the recovering runner makes across successive repair attempts — never
// observe state left over from an earlier attempt.
func Run(root *matcher.Matcher, buf buffer.Buffer, startIndex int) *Result {
	return RunWithObserver(root, buf, startIndex, nil)
}

// RunWithObserver is Run plus a per-frame Observer, used by the tracing
// runner. obs may be nil, in which case it behaves exactly like Run.
func RunWithObserver(root *matcher.Matcher, buf buffer.Buffer, startIndex int, obs Observer) *Result {
	s := &session{buf: buf, stack: values.New(), farIndex: startIndex, obs: obs}
	ctx := newFrame(s, nil, root, startIndex)
	matched := execute(ctx)
	res := &Result{
		Matched:   matched,
		EndIndex:  ctx.index,
		Stack:     s.stack,
		FailIndex: s.farIndex,
		FailPath:  s.farPath,
		ActionErr: s.actErr,
	}
	if matched {
		res.Node = buildRootNode(ctx)
	}
	tracer().Debugf("match pass: matched=%v end=%d farIndex=%d", matched, ctx.index, s.farIndex)
	return res
}

func buildRootNode(ctx *Context) *tree.Node {
	children := ctx.subNodes
	if ctx.M.SuppressSubnodes {
		children = nil
	}
	return tree.New(ctx.M.Label, gopeg.Span{ctx.Start, ctx.index}, children, ctx.value)
}

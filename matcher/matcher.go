// Package matcher implements the PEG matcher algebra: the closed set of
// primitive and composite matchers, built through caching combinators so
// that two calls with structurally identical arguments return the very
// same instance.
package matcher

import (
	"fmt"
	"strings"
	"sync"

	"github.com/cnf/structhash"
	"github.com/npillmayer/gopeg"
	"github.com/npillmayer/gopeg/values"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gopeg.matcher'.
func tracer() tracing.Trace {
	return tracing.Select("gopeg.matcher")
}

// GrammarError reports a malformed combinator argument: surfaced
// synchronously at construction time, never appearing in a runner's parse
// errors.
type GrammarError struct {
	Msg string
}

func (e *GrammarError) Error() string { return "grammar: " + e.Msg }

// ActionContext is the read-only view an Action predicate receives: the
// frame's current cursor, the shared value stack, and raw-text extraction.
// package match's Context implements this interface; matcher never depends
// on match, keeping the dependency graph acyclic.
type ActionContext interface {
	Index() int
	Stack() *values.Stack
	Text(from, to int) string
	// SetValue binds a semantic value to the frame enclosing the Action; it
	// becomes the Value of the tree node that frame produces.
	SetValue(v interface{})
}

// Action is a user-defined side-effecting predicate. It consumes no input;
// a true return succeeds, false fails the enclosing frame.
type Action func(ActionContext) bool

// Matcher is a node in the grammar: a tagged union over Kind, carrying a
// label, zero or more child matchers, and a small set of presentation
// flags. Once returned from a combinator it must be treated as immutable —
// the sole exception is a placeholder created with Declare, which may be
// mutated exactly once via Define to close a recursive grammar.
type Matcher struct {
	Kind     Kind
	Label    string
	custom   bool
	Children []*Matcher

	SuppressNode              bool
	SuppressSubnodes          bool
	SkipNode                  bool
	NodeSuppressedInPredicate bool

	Ch     gopeg.Character // Char, CharIgnoreCase (primary case)
	ChAlt  gopeg.Character // CharIgnoreCase (other case)
	Lo, Hi gopeg.Character // CharRange
	Set    CharSet         // AnyOf
	Str    string          // String
	Trie   *trieNode       // FirstOfStrings
	Act    Action          // Action

	defined bool // true once a Declare placeholder has been Define'd
}

// IsCustomLabel reports whether the label was explicitly assigned (as
// opposed to synthesized from the combinator kind), which the "expected"
// label selection in package perr relies on.
func (m *Matcher) IsCustomLabel() bool { return m.custom }

func (m *Matcher) String() string { return m.Label }

// --- cache -------------------------------------------------------------

var cache sync.Map // map[string]*Matcher

func cacheLookup(kind, key string) (*Matcher, bool) {
	v, ok := cache.Load(kind + "|" + key)
	if !ok {
		return nil, false
	}
	return v.(*Matcher), true
}

func cacheStore(kind, key string, m *Matcher) *Matcher {
	actual, loaded := cache.LoadOrStore(kind+"|"+key, m)
	if loaded {
		return actual.(*Matcher)
	}
	return m
}

// hashKey computes a structural cache key from an arbitrary, acyclic,
// exported-field argument record, using cnf/structhash. Children are
// identified by their own already-computed cache identity (their pointer
// address plus Kind folded into the hash payload) rather than by
// recursing into them, so self-referential grammars (built via
// Declare/Define) never cause unbounded recursion here.
func hashKey(args interface{}) string {
	h, err := structhash.Hash(args, 1)
	if err != nil {
		tracer().Warnf("structhash failed (%v), falling back to %%v key", err)
		return fmt.Sprintf("%v", args)
	}
	return h
}

func childKeys(children ...*Matcher) []string {
	keys := make([]string, len(children))
	for i, c := range children {
		if c == nil {
			keys[i] = "<nil>"
			continue
		}
		keys[i] = fmt.Sprintf("%p:%s", c, c.Kind)
	}
	return keys
}

// memoize is the single choke point every non-placeholder combinator routes
// through: build(), called only on a cache miss, must not itself recurse
// into further cache lookups for the same bucket+key.
func memoize(bucket string, keyArgs interface{}, build func() *Matcher) *Matcher {
	key := hashKey(keyArgs)
	if existing, ok := cacheLookup(bucket, key); ok {
		return existing
	}
	m := build()
	return cacheStore(bucket, key, m)
}

func memoizeKind(kind Kind, keyArgs interface{}, build func() *Matcher) *Matcher {
	return memoize(kind.String(), keyArgs, build)
}

// --- leaf combinators ----------------------------------------------------

// Char matches exactly c.
func Char(c gopeg.Character) *Matcher {
	return memoizeKind(KindChar, struct{ C gopeg.Character }{c}, func() *Matcher {
		return &Matcher{Kind: KindChar, Ch: c, Label: fmt.Sprintf("%q", string(c))}
	})
}

// IgnoreCase matches the upper- or lower-case form of c. Folds to Char when
// c has no case distinction.
func IgnoreCase(c gopeg.Character) *Matcher {
	lo, up := toLower(c), toUpper(c)
	if lo == up {
		return Char(c)
	}
	return memoizeKind(KindCharIgnoreCase, struct{ Lo, Up gopeg.Character }{lo, up}, func() *Matcher {
		return &Matcher{Kind: KindCharIgnoreCase, Ch: lo, ChAlt: up, Label: fmt.Sprintf("%q/%q", string(lo), string(up))}
	})
}

func toLower(c gopeg.Character) gopeg.Character {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func toUpper(c gopeg.Character) gopeg.Character {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

// CharRange matches any character in [lo, hi] inclusive. A malformed range
// (hi < lo) makes CharRange panic with a *GrammarError; CharRangeErr
// returns that error instead.
func CharRange(lo, hi gopeg.Character) *Matcher {
	m, err := CharRangeErr(lo, hi)
	if err != nil {
		panic(err)
	}
	return m
}

// CharRangeErr is the non-panicking form of CharRange.
func CharRangeErr(lo, hi gopeg.Character) (*Matcher, error) {
	if hi < lo {
		return nil, &GrammarError{Msg: fmt.Sprintf("CharRange(%q, %q): hi < lo", lo, hi)}
	}
	return memoizeKind(KindCharRange, struct{ Lo, Hi gopeg.Character }{lo, hi}, func() *Matcher {
		return &Matcher{Kind: KindCharRange, Lo: lo, Hi: hi, Label: fmt.Sprintf("[%q-%q]", lo, hi)}
	}), nil
}

// AnyOf matches any character in set. Folds to Char for an inclusive
// singleton set.
func AnyOf(set CharSet) *Matcher {
	if c, ok := set.singleton(); ok {
		return Char(c)
	}
	return memoizeKind(KindAnyOf, struct{ Key string }{set.key()}, func() *Matcher {
		label := "["
		if set.complement {
			label += "^"
		}
		for _, r := range set.runes {
			label += string(r)
		}
		label += "]"
		return &Matcher{Kind: KindAnyOf, Set: set, Label: label}
	})
}

var any = &Matcher{Kind: KindAny, Label: "."}

// Any matches any character except the sentinels (EOI, Indent, Dedent).
func Any() *Matcher { return any }

var empty = &Matcher{Kind: KindEmpty, Label: "Empty", SuppressNode: true}

// Empty consumes nothing and always succeeds.
func Empty() *Matcher { return empty }

var nothing = &Matcher{Kind: KindNothing, Label: "Nothing"}

// Nothing always fails.
func Nothing() *Matcher { return nothing }

var eoiMatcher = &Matcher{Kind: KindEOI, Label: "EOI", SuppressNode: true}

// EOI matches only the end-of-input sentinel.
func EOI() *Matcher { return eoiMatcher }

// --- composite combinators ------------------------------------------------

// Sequence succeeds iff all subrules succeed in order, consuming
// contiguously. A single-rule sequence returns that rule unmodified.
func Sequence(rs ...*Matcher) *Matcher {
	if len(rs) == 1 {
		return rs[0]
	}
	return memoizeKind(KindSequence, struct{ Keys []string }{childKeys(rs...)}, func() *Matcher {
		return &Matcher{Kind: KindSequence, Children: rs, Label: joinLabels("Sequence", rs)}
	})
}

// FirstOf tries subrules left-to-right, committing to the first success.
// A single-rule choice returns that rule unmodified. A FirstOf of all
// string-literal subrules folds to the shared-trie FirstOfStrings variant.
func FirstOf(rs ...*Matcher) *Matcher {
	if len(rs) == 1 {
		return rs[0]
	}
	if strs, ok := allStringLiterals(rs); ok {
		return FirstOfStrings(strs...)
	}
	return memoizeKind(KindFirstOf, struct{ Keys []string }{childKeys(rs...)}, func() *Matcher {
		return &Matcher{Kind: KindFirstOf, Children: rs, Label: joinLabels("FirstOf", rs)}
	})
}

func allStringLiterals(rs []*Matcher) ([]string, bool) {
	strs := make([]string, len(rs))
	for i, r := range rs {
		if r.Kind != KindString {
			return nil, false
		}
		strs[i] = r.Str
	}
	return strs, true
}

// Optional always succeeds: tries r and keeps its effect iff it succeeded.
func Optional(r *Matcher) *Matcher {
	return memoizeKind(KindOptional, struct{ K string }{childKeys(r)[0]}, func() *Matcher {
		return &Matcher{Kind: KindOptional, Children: []*Matcher{r}, Label: "Optional(" + r.Label + ")"}
	})
}

// ZeroOrMore is the greedy star: always succeeds.
func ZeroOrMore(r *Matcher) *Matcher {
	return memoizeKind(KindZeroOrMore, struct{ K string }{childKeys(r)[0]}, func() *Matcher {
		return &Matcher{Kind: KindZeroOrMore, Children: []*Matcher{r}, Label: r.Label + "*"}
	})
}

// OneOrMore is the greedy plus: succeeds iff at least one iteration did.
func OneOrMore(r *Matcher) *Matcher {
	return memoizeKind(KindOneOrMore, struct{ K string }{childKeys(r)[0]}, func() *Matcher {
		return &Matcher{Kind: KindOneOrMore, Children: []*Matcher{r}, Label: r.Label + "+"}
	})
}

// Test is a zero-width lookahead: succeeds iff r would succeed; never
// consumes, never emits nodes.
func Test(r *Matcher) *Matcher {
	return memoizeKind(KindTest, struct{ K string }{childKeys(r)[0]}, func() *Matcher {
		return &Matcher{Kind: KindTest, Children: []*Matcher{r}, Label: "&(" + r.Label + ")", SuppressNode: true, NodeSuppressedInPredicate: true}
	})
}

// TestNot is a zero-width negative lookahead.
func TestNot(r *Matcher) *Matcher {
	return memoizeKind(KindTestNot, struct{ K string }{childKeys(r)[0]}, func() *Matcher {
		return &Matcher{Kind: KindTestNot, Children: []*Matcher{r}, Label: "!(" + r.Label + ")", SuppressNode: true, NodeSuppressedInPredicate: true}
	})
}

// Do wraps a user Action as a matcher. Action matchers never emit a tree
// node.
func Do(fn Action) *Matcher {
	return &Matcher{Kind: KindAction, Act: fn, Label: "Action", SuppressNode: true}
}

// String is sugar for a char sequence, optimized: a single-character string
// folds to Char.
func String(s string) *Matcher {
	rs := []rune(s)
	if len(rs) == 1 {
		return Char(rs[0])
	}
	return memoizeKind(KindString, struct{ S string }{s}, func() *Matcher {
		return &Matcher{Kind: KindString, Str: s, Label: fmt.Sprintf("%q", s)}
	})
}

// --- label / flag wrapper combinators -------------------------------------

// Label returns a copy of r carrying a custom label, used by the "expected"
// label selection in preference to any default label.
func Label(name string, r *Matcher) *Matcher {
	return memoize("Label", struct {
		N string
		K string
	}{name, childKeys(r)[0]}, func() *Matcher {
		cp := *r
		cp.Label = name
		cp.custom = true
		return &cp
	})
}

// Suppressed returns a copy of r with suppressNode set: r will never emit
// its own tree node (its children, if any, are still emitted to the
// parent).
func Suppressed(r *Matcher) *Matcher {
	return flagCopy(r, "suppress", func(cp *Matcher) { cp.SuppressNode = true })
}

// SuppressedSubnodes returns a copy of r with suppressSubnodes set: r
// emits its own node but none of its descendants'.
func SuppressedSubnodes(r *Matcher) *Matcher {
	return flagCopy(r, "suppresssub", func(cp *Matcher) { cp.SuppressSubnodes = true })
}

// Skip returns a copy of r with skipNode set: r matches normally and its
// match still counts toward its parent's success, but neither r's own node
// nor any of its descendants' nodes are attached anywhere in the tree —
// full invisibility, for input that must be recognized but never appears
// in the result (e.g. insignificant whitespace). Contrast with Suppressed,
// which hides only r's own node while still promoting its children.
func Skip(r *Matcher) *Matcher {
	return flagCopy(r, "skip", func(cp *Matcher) { cp.SkipNode = true })
}

func flagCopy(r *Matcher, tag string, set func(*Matcher)) *Matcher {
	return memoize("Flag", struct {
		Tag string
		K   string
	}{tag, childKeys(r)[0]}, func() *Matcher {
		cp := *r
		set(&cp)
		return &cp
	})
}

func joinLabels(kind string, rs []*Matcher) string {
	labels := make([]string, len(rs))
	for i, r := range rs {
		labels[i] = r.Label
	}
	return kind + "(" + strings.Join(labels, ", ") + ")"
}

// --- recursive grammars: Declare / Define --------------------------------

// Declare returns a placeholder matcher for use in a recursive grammar,
// e.g.:
//
//	a := matcher.Declare("A")
//	a.Define(matcher.Sequence(matcher.IgnoreCase('a'), matcher.Optional(a)))
//
// Declare intentionally bypasses the combinator cache: the cycle it closes
// is exactly the case the cache's structural hashing cannot represent.
// Define may be called exactly once.
func Declare(label string) *Matcher {
	return &Matcher{Kind: KindNothing, Label: label, custom: label != ""}
}

// Define closes a placeholder created by Declare, mutating it in place so
// that every reference already taken to the placeholder (including from
// within real itself) observes the final definition. Define panics if
// called more than once on the same placeholder.
func (m *Matcher) Define(real *Matcher) {
	if m.defined {
		panic(&GrammarError{Msg: "Define called twice on the same placeholder: " + m.Label})
	}
	label, custom := m.Label, m.custom
	*m = *real
	if custom {
		m.Label, m.custom = label, custom
	}
	m.defined = true
}

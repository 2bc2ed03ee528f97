package perr

import (
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/gopeg"
	"github.com/npillmayer/gopeg/matcher"
)

func runeComparator(a, b interface{}) int {
	return utils.IntComparator(int(a.(gopeg.Character)), int(b.(gopeg.Character)))
}

// FollowSet approximates the set of characters that may legally follow the
// matcher at path's leaf, for use by the recovering runner's resync repair.
// It is computed as the union of the FIRST-sets of the leaf's remaining
// (as-yet-unmatched) siblings in its enclosing Sequence, falling back to
// the parent frame's own FollowSet when the leaf is the last element of
// its sequence — standard recursive-descent FOLLOW propagation.
//
// Backed by emirpasic/gods' treeset for deduplication, applied here to
// runes instead of grammar items.
func FollowSet(path *PathEntry) *treeset.Set {
	set := treeset.NewWith(runeComparator)
	if path == nil {
		return set
	}
	e := path
	for e.Parent != nil {
		parent := e.Parent
		if parent.Matcher.Kind == matcher.KindSequence {
			if idx := childIndexOf(parent.Matcher, e.Matcher); idx >= 0 {
				for _, sib := range parent.Matcher.Children[idx+1:] {
					unionFirstSet(set, sib, make(map[*matcher.Matcher]bool))
				}
				if set.Size() > 0 {
					return set
				}
			}
		}
		e = parent
	}
	set.Add(gopeg.EOI)
	return set
}

// FirstChar returns one representative character that would make m match at
// its point of failure, for the recovering runner's single-character
// insertion repair. Unlike FollowSet this need not be exhaustive — the
// repair only ever inserts one character — so it returns the first
// deterministic candidate for m's kind rather than a full set.
func FirstChar(m *matcher.Matcher) (gopeg.Character, bool) {
	if m == nil {
		return 0, false
	}
	switch m.Kind {
	case matcher.KindChar, matcher.KindCharIgnoreCase:
		return m.Ch, true
	case matcher.KindCharRange:
		return m.Lo, true
	case matcher.KindAnyOf:
		if !m.Set.IsComplement() {
			if rs := m.Set.Runes(); len(rs) > 0 {
				return rs[0], true
			}
		}
	case matcher.KindString:
		if rs := []rune(m.Str); len(rs) > 0 {
			return rs[0], true
		}
	case matcher.KindFirstOfStrings:
		if leads := m.FirstOfStringsLeadChars(); len(leads) > 0 {
			return leads[0], true
		}
	}
	return 0, false
}

func childIndexOf(parent, child *matcher.Matcher) int {
	for i, c := range parent.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// unionFirstSet adds an approximation of m's FIRST-set into set. seen
// guards against unbounded recursion on recursive grammars (built via
// matcher.Declare/Define).
func unionFirstSet(set *treeset.Set, m *matcher.Matcher, seen map[*matcher.Matcher]bool) {
	if m == nil || seen[m] {
		return
	}
	seen[m] = true
	switch m.Kind {
	case matcher.KindChar:
		set.Add(m.Ch)
	case matcher.KindCharIgnoreCase:
		set.Add(m.Ch)
		set.Add(m.ChAlt)
	case matcher.KindCharRange:
		for r := m.Lo; r <= m.Hi && r-m.Lo < 256; r++ {
			set.Add(r)
		}
	case matcher.KindAnyOf:
		if !m.Set.IsComplement() {
			for _, r := range m.Set.Runes() {
				set.Add(r)
			}
		}
	case matcher.KindString:
		if rs := []rune(m.Str); len(rs) > 0 {
			set.Add(rs[0])
		}
	case matcher.KindFirstOfStrings:
		for _, r := range m.FirstOfStringsLeadChars() {
			set.Add(r)
		}
	case matcher.KindEOI:
		set.Add(gopeg.EOI)
	case matcher.KindSequence:
		for _, c := range m.Children {
			unionFirstSet(set, c, seen)
			if !nullable(c, make(map[*matcher.Matcher]bool)) {
				break
			}
		}
	case matcher.KindFirstOf:
		for _, c := range m.Children {
			unionFirstSet(set, c, seen)
		}
	case matcher.KindOptional, matcher.KindZeroOrMore:
		unionFirstSet(set, m.Children[0], seen)
	case matcher.KindOneOrMore:
		unionFirstSet(set, m.Children[0], seen)
	}
}

// nullable reports whether m can succeed while consuming no input — used
// to decide whether FIRST-set computation must continue past m into the
// next sequence element.
func nullable(m *matcher.Matcher, seen map[*matcher.Matcher]bool) bool {
	if m == nil || seen[m] {
		return true
	}
	seen[m] = true
	switch m.Kind {
	case matcher.KindEmpty, matcher.KindOptional, matcher.KindZeroOrMore,
		matcher.KindTest, matcher.KindTestNot, matcher.KindAction:
		return true
	case matcher.KindSequence:
		for _, c := range m.Children {
			if !nullable(c, seen) {
				return false
			}
		}
		return true
	case matcher.KindFirstOf:
		for _, c := range m.Children {
			if nullable(c, seen) {
				return true
			}
		}
		return false
	case matcher.KindOneOrMore:
		return nullable(m.Children[0], seen)
	default:
		return false
	}
}

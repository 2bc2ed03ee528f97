package perr

import "github.com/npillmayer/gopeg/matcher"

// PathEntry is one link of a matcher path: a singly-linked chain of
// (matcher, startIndex) from root to leaf, represented here leaf-first with
// Parent pointing toward the root — the same parent-chain shape a
// lexically scoped interpreter frame uses, specialized to matcher frames
// instead of interpreter scopes.
type PathEntry struct {
	Matcher *matcher.Matcher
	Start   int
	Parent  *PathEntry
}

// Push returns a new leaf entry extending path with (m, start). path may be
// nil for the root frame.
func Push(path *PathEntry, m *matcher.Matcher, start int) *PathEntry {
	return &PathEntry{Matcher: m, Start: start, Parent: path}
}

// FindProperLabelMatcher returns the deepest matcher on path whose frame
// began exactly at errorIndex and whose label is custom, i.e. not
// synthesized from the combinator kind. It is a pure function of (path,
// errorIndex): given the same path value and index it always returns the
// same matcher, regardless of when it is called.
func FindProperLabelMatcher(path *PathEntry, errorIndex int) *matcher.Matcher {
	for e := path; e != nil; e = e.Parent {
		if e.Start == errorIndex && e.Matcher.IsCustomLabel() {
			return e.Matcher
		}
	}
	return nil
}

// Matchers returns the chain of matchers from leaf to root, for diagnostics
// and for the recovering runner's follow-set computation.
func (p *PathEntry) Matchers() []*matcher.Matcher {
	var out []*matcher.Matcher
	for e := p; e != nil; e = e.Parent {
		out = append(out, e.Matcher)
	}
	return out
}

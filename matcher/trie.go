package matcher

import (
	"sort"
	"strings"

	"github.com/npillmayer/gopeg"
)

// trieNode is one edge-labelled node of the shared prefix trie backing
// FirstOfStrings: a FirstOf of string literals folds into this variant for
// O(max-length) lookup instead of O(n) linear probing of each alternative.
type trieNode struct {
	edges    map[gopeg.Character]*trieNode
	literal  bool // a complete alternative ends here
	priority int  // index of that alternative in the original FirstOf list
}

func newTrieNode() *trieNode {
	return &trieNode{edges: make(map[gopeg.Character]*trieNode)}
}

// buildTrie indexes strs preserving their original order: each literal node
// records the lowest original-list index of any alternative ending there,
// so a walk can later recover ordered-choice priority among alternatives
// that share a prefix, letting an earlier-listed alternative win even when
// a later one is a longer extension of it.
func buildTrie(strs []string) *trieNode {
	root := newTrieNode()
	for i, s := range strs {
		n := root
		for _, r := range s {
			next, ok := n.edges[r]
			if !ok {
				next = newTrieNode()
				n.edges[r] = next
			}
			n = next
		}
		if !n.literal || i < n.priority {
			n.priority = i
		}
		n.literal = true
	}
	return root
}

// FirstOfStrings builds a FirstOf of string literals, optimized to a shared
// trie for common-prefix factoring. The trie only changes how the
// alternatives are probed, never which one wins: walking the matcher
// revisits every literal node reached along the input's matching prefix and
// picks the one with the lowest original-list index, exactly the
// alternative ordered choice would have committed to by trying them
// left-to-right. For example, "foo" listed before "foobar" wins on input
// "foobar", even though "foobar" is the longer, further-reaching match.
func FirstOfStrings(strs ...string) *Matcher {
	// Order is semantically significant (it breaks shared-prefix ties), so
	// the cache key must preserve it rather than sort for canonicalization.
	return memoize("FirstOfStrings", struct{ Strs []string }{strs}, func() *Matcher {
		return &Matcher{
			Kind:  KindFirstOfStrings,
			Trie:  buildTrie(strs),
			Label: "FirstOfStrings(" + strings.Join(strs, ", ") + ")",
		}
	})
}

// FirstOfStringsLeadChars returns the characters that may legally begin a
// match of m, i.e. the trie's root edges, sorted for determinism (map
// iteration order is not). m must be a KindFirstOfStrings matcher. Used by
// the recovering runner's follow-set estimation (package perr), which
// otherwise has no way to inspect the unexported trie.
func (m *Matcher) FirstOfStringsLeadChars() []gopeg.Character {
	out := make([]gopeg.Character, 0, len(m.Trie.edges))
	for r := range m.Trie.edges {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// MatchFirstOfStrings walks m's trie starting at position start, reading
// characters through at, and returns the end position of the alternative
// whose original-list priority is lowest among all literal-ending nodes
// the walk passes through, whether or not it is the longest (FirstOfStrings' ordered-
// choice-preserving match rule; see the FirstOfStrings doc comment). m must
// be a KindFirstOfStrings matcher.
func (m *Matcher) MatchFirstOfStrings(start int, at func(i int) gopeg.Character) (end int, ok bool) {
	node := m.Trie
	pos := start
	bestEnd, bestPriority := 0, 0
	for {
		if node.literal && (!ok || node.priority < bestPriority) {
			bestEnd, bestPriority, ok = pos, node.priority, true
		}
		next, has := node.edges[at(pos)]
		if !has {
			break
		}
		node = next
		pos++
	}
	return bestEnd, ok
}

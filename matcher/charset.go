package matcher

import "github.com/npillmayer/gopeg"

// CharSet is the argument to AnyOf: a finite set of characters, either taken
// literally ("inclusive of S") or matched by everything outside it
// ("complement of S", i.e. subtractive).
type CharSet struct {
	runes      []gopeg.Character
	complement bool
}

// Of builds an inclusive character set: matches any rune in runes.
func Of(runes ...gopeg.Character) CharSet {
	return CharSet{runes: append([]gopeg.Character(nil), runes...)}
}

// ComplementOf builds a subtractive character set: matches any rune not in
// runes (and never a sentinel, same as Any).
func ComplementOf(runes ...gopeg.Character) CharSet {
	return CharSet{runes: append([]gopeg.Character(nil), runes...), complement: true}
}

// Contains reports whether c is matched by the set.
func (s CharSet) Contains(c gopeg.Character) bool {
	if gopeg.IsSentinel(c) {
		return false
	}
	found := false
	for _, r := range s.runes {
		if r == c {
			found = true
			break
		}
	}
	if s.complement {
		return !found
	}
	return found
}

// key returns a deterministic string usable as part of a cache key.
func (s CharSet) key() string {
	b := make([]byte, 0, len(s.runes)*4+1)
	if s.complement {
		b = append(b, '!')
	}
	for _, r := range s.runes {
		b = append(b, byte(r), byte(r>>8), byte(r>>16), byte(r>>24))
	}
	return string(b)
}

// singleton returns the single rune in the set and true, iff the set is a
// plain inclusive singleton (used by AnyOf's fold-to-Char rule).
func (s CharSet) singleton() (gopeg.Character, bool) {
	if !s.complement && len(s.runes) == 1 {
		return s.runes[0], true
	}
	return 0, false
}

// Runes returns a copy of the set's literal rune list, for callers outside
// the package (e.g. the recovering runner's follow-set estimation) that
// need to enumerate a set's members rather than just test membership.
func (s CharSet) Runes() []gopeg.Character {
	return append([]gopeg.Character(nil), s.runes...)
}

// IsComplement reports whether the set is subtractive.
func (s CharSet) IsComplement() bool {
	return s.complement
}

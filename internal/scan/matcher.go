package scan

import (
	"sync"

	"github.com/jacoelho/rxtemplate/internal/charrange"
)

// metaBytes are the bytes that can begin a token other than Literal.
const metaBytes = `\[](){}.*+?|^$`

// Matcher is a scanner specialised to a KindSet. Bytes outside its stop
// table are swallowed into a single run without being classified.
type Matcher struct {
	stop  [256]bool
	kinds KindSet
}

// Compile builds the matcher for kinds.
func Compile(kinds KindSet) *Matcher {
	stops := stopSet(kinds)
	m := &Matcher{kinds: kinds}
	for b := range 0x80 {
		m.stop[b] = stops.Contains(uint16(b))
	}
	return m
}

// Kinds returns the kinds the matcher reports individually.
func (m *Matcher) Kinds() KindSet {
	return m.kinds
}

// stopSet describes the bytes a don't-care run cannot extend over.
// Escapes, charsets, and counts always stop a run: an escape can hide a
// metacharacter, and charsets and counts change the context.
func stopSet(kinds KindSet) *charrange.Set {
	s := &charrange.Set{}
	addBytes(s, `\[{`)
	if kinds.Has(Literal) {
		addBytes(s, metaBytes)
	}
	if kinds.Has(GroupOpen) || kinds.Has(GroupOpenNonCapturing) {
		addBytes(s, "(")
	}
	if kinds.Has(GroupClose) {
		addBytes(s, ")")
	}
	if kinds.Has(Operator) {
		addBytes(s, ".*+?|^$")
	}
	return s.Canonicalize()
}

func addBytes(s *charrange.Set, chars string) {
	for i := range len(chars) {
		s.MustAddRange(int(chars[i]), int(chars[i]))
	}
}

// MatcherCache memoizes matchers by KindSet. It is safe for concurrent use;
// concurrent misses on the same key may compile twice, and the first stored
// matcher wins.
type MatcherCache struct {
	m sync.Map
}

// NewMatcherCache returns an empty cache.
func NewMatcherCache() *MatcherCache {
	return &MatcherCache{}
}

// Matcher returns the cached matcher for kinds, compiling it on a miss.
func (c *MatcherCache) Matcher(kinds KindSet) *Matcher {
	if m, ok := c.m.Load(kinds); ok {
		return m.(*Matcher)
	}
	m, _ := c.m.LoadOrStore(kinds, Compile(kinds))
	return m.(*Matcher)
}

// Len returns the number of cached matchers.
func (c *MatcherCache) Len() int {
	n := 0
	c.m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

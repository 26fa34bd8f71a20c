package rxtemplate

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// emptySource is the source of a pattern that matches the empty string.
const emptySource = "(?:)"

// Fragment is regular-expression source with its flags, interpolated as a
// pattern rather than as text.
type Fragment struct {
	Source string
	Flags  string
}

// Regex returns a fragment for source under flags. An empty source becomes
// the empty group so it stays one atom wherever it lands.
func Regex(source, flags string) Fragment {
	if source == "" {
		source = emptySource
	}
	return Fragment{Source: source, Flags: flags}
}

// String formats the fragment as a regular-expression literal.
func (f Fragment) String() string {
	return "/" + f.Source + "/" + f.Flags
}

// Pattern is the result of a composition.
type Pattern struct {
	Source string
	Flags  string
	// Groups maps each capturing group written in the template literals, in
	// order, to its group number in Source. Groups[0] is the whole match.
	Groups []int

	matchTimeout time.Duration
}

// String formats the pattern as a regular-expression literal.
func (p *Pattern) String() string {
	return "/" + p.Source + "/" + p.Flags
}

// Fragment returns the pattern as a fragment for further composition.
func (p *Pattern) Fragment() Fragment {
	return Fragment{Source: p.Source, Flags: p.Flags}
}

// Group returns the number in Source of the n-th template group, or -1.
func (p *Pattern) Group(n int) int {
	if n < 0 || n >= len(p.Groups) {
		return -1
	}
	return p.Groups[n]
}

// Compile compiles the pattern with ECMAScript semantics. The flags i and m
// select case folding and multiline anchors; other flags are ignored.
func (p *Pattern) Compile() (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(p.Source, regexpOptions(p.Flags))
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", p, err)
	}
	if p.matchTimeout > 0 {
		re.MatchTimeout = p.matchTimeout
	}
	return re, nil
}

// MustCompile is like Compile but panics on error.
func (p *Pattern) MustCompile() *regexp2.Regexp {
	re, err := p.Compile()
	if err != nil {
		panic(err)
	}
	return re
}

func regexpOptions(flags string) regexp2.RegexOptions {
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	if strings.Contains(flags, "i") {
		opts |= regexp2.IgnoreCase
	}
	if strings.Contains(flags, "m") {
		opts |= regexp2.Multiline
	}
	return opts
}

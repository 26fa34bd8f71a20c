// Package charclass approximates the set of code units a regular expression
// can match, and rewrites case-insensitive source so it keeps its meaning
// inside a case-sensitive pattern.
//
// The approximation is conservative: it may include code units that no match
// can contain, such as those under a {0} count or in a lookahead, but never
// omits one that a match can contain. Case folding covers ASCII letters only;
// the u flag and non-ASCII case mappings are not handled.
package charclass

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/jacoelho/rxtemplate/internal/charrange"
	"github.com/jacoelho/rxtemplate/internal/scan"
)

const backspace = 0x08

var approximateKinds = scan.Kinds(
	scan.CharsetOpen,
	scan.CharsetRangeBody,
	scan.CharsetClose,
	scan.Operator,
	scan.EscapeSequence,
	scan.Literal,
)

// Extractor computes character classes with a shared scanner.
type Extractor struct {
	scanner *scan.Scanner
}

// New returns an extractor using s. A nil scanner gets a private one.
func New(s *scan.Scanner) *Extractor {
	if s == nil {
		s = scan.New(nil)
	}
	return &Extractor{scanner: s}
}

// Approximate is a convenience wrapper around a private Extractor.
func Approximate(source, flags string) (*charrange.Set, error) {
	return New(nil).Approximate(source, flags)
}

// Approximate returns a canonical set holding every code unit a match of
// source can contain. Repetition counts, groups, anchors and
// backreferences contribute nothing. With the i flag, ASCII letters are
// folded.
func (e *Extractor) Approximate(source, flags string) (*charrange.Set, error) {
	result := &charrange.Set{}
	target := result
	var negated *charrange.Set
	var firstErr error

	_, err := e.scanner.Scan(source, scan.Block, approximateKinds, func(tok scan.Token) {
		switch tok.Kind {
		case scan.Literal:
			for _, cu := range units(tok.Text) {
				target.AddUnit(cu)
			}
		case scan.Operator:
			if tok.Text == "." {
				target.AddAll(dotSet)
			}
		case scan.EscapeSequence:
			addEscape(tok.Text, false, target)
		case scan.CharsetOpen:
			if tok.Negated {
				negated = &charrange.Set{}
				target = negated
			}
		case scan.CharsetRangeBody:
			if err := AddCharsetPart(tok.Text, target); err != nil && firstErr == nil {
				firstErr = err
			}
		case scan.CharsetClose:
			if negated != nil {
				result.AddAll(negated.Inverse())
				negated = nil
			}
			target = result
		}
	})
	if err != nil {
		return nil, err
	}
	if firstErr != nil {
		return nil, fmt.Errorf("char class of %q: %w", source, firstErr)
	}
	// an unterminated negated charset still excludes its body
	if negated != nil {
		result.AddAll(negated.Inverse())
	}
	if strings.Contains(flags, "i") {
		return result.FoldASCII(), nil
	}
	return result.Canonicalize(), nil
}

// AddCharsetPart decodes one charset atom or range, as reported by the
// scanner, into set.
func AddCharsetPart(part string, set *charrange.Set) error {
	left, right, isRange := scan.SplitRange(part)
	if !isRange {
		addEscapeOrUnits(part, set)
		return nil
	}
	lo := endpoint(left)
	hi := endpoint(right)
	if len(lo) == 0 || len(hi) == 0 {
		addEscapeOrUnits(left, set)
		addEscapeOrUnits(right, set)
		return nil
	}
	// astral endpoints are surrogate pairs; only the inner code units
	// bound the range
	for _, cu := range lo[:len(lo)-1] {
		set.AddUnit(cu)
	}
	for _, cu := range hi[1:] {
		set.AddUnit(cu)
	}
	return set.AddRange(int(lo[len(lo)-1]), int(hi[0]))
}

// endpoint returns the code units an atom denotes when used as a range bound.
func endpoint(atom string) []uint16 {
	if atom == "" {
		return nil
	}
	if atom[0] != '\\' {
		return units(atom)
	}
	us, class := decodeEscape(atom, true)
	if class != nil {
		if lo, ok := class.Min(); ok {
			return []uint16{lo}
		}
		return nil
	}
	return us
}

func addEscapeOrUnits(atom string, set *charrange.Set) {
	if atom == "" {
		return
	}
	if atom[0] == '\\' {
		addEscape(atom, true, set)
		return
	}
	for _, cu := range units(atom) {
		set.AddUnit(cu)
	}
}

func addEscape(esc string, inCharset bool, set *charrange.Set) {
	us, class := decodeEscape(esc, inCharset)
	if class != nil {
		set.AddAll(class)
		return
	}
	for _, cu := range us {
		set.AddUnit(cu)
	}
}

// decodeEscape returns either the code units an escape stands for or the
// class it names. Assertions and backreferences yield neither.
func decodeEscape(esc string, inCharset bool) ([]uint16, *charrange.Set) {
	if len(esc) < 2 {
		return []uint16{'\\'}, nil
	}
	c := esc[1]
	if class, ok := classEscape(c); ok && len(esc) == 2 {
		return nil, class
	}
	if cu, ok := controlEscape(c); ok && len(esc) == 2 {
		return []uint16{cu}, nil
	}
	switch {
	case c == 'b' && len(esc) == 2:
		if inCharset {
			return []uint16{backspace}, nil
		}
		return nil, nil
	case c == 'B' && len(esc) == 2 && !inCharset:
		return nil, nil
	case (c == 'u' || c == 'x') && len(esc) > 2:
		if v, err := strconv.ParseUint(esc[2:], 16, 16); err == nil {
			return []uint16{uint16(v)}, nil
		}
	case c == 'c' && len(esc) == 3:
		return []uint16{uint16(esc[2] & 0x1f)}, nil
	case c >= '1' && c <= '9' && !inCharset:
		return nil, nil
	case c == 'k' && len(esc) > 2 && !inCharset:
		return nil, nil
	case isOctalRun(esc[1:]):
		v, _ := strconv.ParseUint(esc[1:], 8, 16)
		return []uint16{uint16(v)}, nil
	}
	return units(esc[1:]), nil
}

func units(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

func isOctalRun(s string) bool {
	for i := range len(s) {
		if s[i] < '0' || s[i] > '7' {
			return false
		}
	}
	return s != ""
}

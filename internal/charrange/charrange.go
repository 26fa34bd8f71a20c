// Package charrange implements sets of UTF-16 code units stored as ranges.
//
// A Set is not kept canonical after every mutation. Operations that depend on
// ordering or disjointness call Canonicalize first; AddRange and AddAll only
// append.
package charrange

import (
	"cmp"
	"slices"
	"strings"

	"github.com/jacoelho/rxtemplate/errors"
)

// MaxCodeUnit is the largest code unit a Set can hold. Ranges over full
// Unicode scalar values are not supported.
const MaxCodeUnit = 0xFFFF

// Range is the closed interval [Lo, Hi] of code units.
type Range struct {
	Lo uint16
	Hi uint16
}

// Set is a collection of code-unit ranges.
// The zero value is an empty set ready for use.
type Set struct {
	ranges    []Range
	canonical bool
}

// New returns a set holding copies of the given ranges.
// It panics if a range has Lo > Hi.
func New(ranges ...Range) *Set {
	for _, r := range ranges {
		if err := checkRange(int(r.Lo), int(r.Hi)); err != nil {
			panic(err)
		}
	}
	return &Set{ranges: slices.Clone(ranges)}
}

// Of returns a set built from lo/hi pairs. It panics on invalid input and is
// meant for static tables.
func Of(bounds ...int) *Set {
	if len(bounds)%2 != 0 {
		panic("charrange: Of requires lo/hi pairs")
	}
	s := &Set{}
	for i := 0; i < len(bounds); i += 2 {
		s.MustAddRange(bounds[i], bounds[i+1])
	}
	return s
}

func checkRange(lo, hi int) error {
	if lo < 0 || hi > MaxCodeUnit || lo > hi {
		return errors.Newf(errors.ErrInvalidRange, "range [%#x, %#x] outside [0, %#x] or inverted", lo, hi, MaxCodeUnit)
	}
	return nil
}

// AddRange appends [lo, hi].
func (s *Set) AddRange(lo, hi int) error {
	if err := checkRange(lo, hi); err != nil {
		return err
	}
	s.ranges = append(s.ranges, Range{Lo: uint16(lo), Hi: uint16(hi)})
	s.canonical = false
	return nil
}

// AddRune appends the single code unit cu.
func (s *Set) AddRune(cu int) error {
	return s.AddRange(cu, cu)
}

// MustAddRange is like AddRange but panics on invalid input.
func (s *Set) MustAddRange(lo, hi int) *Set {
	if err := s.AddRange(lo, hi); err != nil {
		panic(err)
	}
	return s
}

// AddUnit appends the single code unit cu.
func (s *Set) AddUnit(cu uint16) {
	s.ranges = append(s.ranges, Range{Lo: cu, Hi: cu})
	s.canonical = false
}

// AddAll appends every range of other. The result is the union once
// canonicalized.
func (s *Set) AddAll(other *Set) *Set {
	if other == nil || len(other.ranges) == 0 {
		return s
	}
	if other == s {
		// a set unioned with itself is unchanged
		return s
	}
	s.ranges = append(s.ranges, other.ranges...)
	s.canonical = false
	return s
}

// Canonicalize sorts the ranges by left endpoint and merges any that overlap
// or touch. Repeated calls are no-ops.
func (s *Set) Canonicalize() *Set {
	if s.canonical {
		return s
	}
	if len(s.ranges) == 0 {
		s.canonical = true
		return s
	}
	slices.SortFunc(s.ranges, func(a, b Range) int {
		if c := cmp.Compare(a.Lo, b.Lo); c != 0 {
			return c
		}
		return cmp.Compare(a.Hi, b.Hi)
	})
	out := s.ranges[:1]
	for _, r := range s.ranges[1:] {
		last := &out[len(out)-1]
		if int(r.Lo) <= int(last.Hi)+1 {
			last.Hi = max(last.Hi, r.Hi)
			continue
		}
		out = append(out, r)
	}
	s.ranges = out
	s.canonical = true
	return s
}

// Inverse returns the canonical complement of s within [0, MaxCodeUnit].
// s is canonicalized in place.
func (s *Set) Inverse() *Set {
	s.Canonicalize()
	inv := &Set{canonical: true}
	next := 0
	for _, r := range s.ranges {
		if next < int(r.Lo) {
			inv.ranges = append(inv.ranges, Range{Lo: uint16(next), Hi: r.Lo - 1})
		}
		next = int(r.Hi) + 1
	}
	if next <= MaxCodeUnit {
		inv.ranges = append(inv.ranges, Range{Lo: uint16(next), Hi: MaxCodeUnit})
	}
	return inv
}

// IntersectionWithRange returns the parts of s that fall inside [lo, hi].
// s need not be canonical.
func (s *Set) IntersectionWithRange(lo, hi uint16) *Set {
	out := &Set{}
	for _, r := range s.ranges {
		if r.Lo > hi || r.Hi < lo {
			continue
		}
		out.ranges = append(out.ranges, Range{Lo: max(lo, r.Lo), Hi: min(hi, r.Hi)})
	}
	return out
}

// Shifted returns a copy of s with every endpoint offset by delta.
// It panics if a shifted endpoint leaves the code-unit domain.
func (s *Set) Shifted(delta int) *Set {
	out := &Set{ranges: make([]Range, len(s.ranges))}
	for i, r := range s.ranges {
		lo, hi := int(r.Lo)+delta, int(r.Hi)+delta
		if err := checkRange(lo, hi); err != nil {
			panic(err)
		}
		out.ranges[i] = Range{Lo: uint16(lo), Hi: uint16(hi)}
	}
	return out
}

// FoldASCII adds the other-case counterpart of every ASCII letter in s and
// canonicalizes.
func (s *Set) FoldASCII() *Set {
	s.Canonicalize()
	upper := s.IntersectionWithRange('A', 'Z')
	lower := s.IntersectionWithRange('a', 'z')
	s.AddAll(upper.Shifted('a' - 'A'))
	s.AddAll(lower.Shifted('A' - 'a'))
	return s.Canonicalize()
}

// Contains reports whether cu is in s.
func (s *Set) Contains(cu uint16) bool {
	s.Canonicalize()
	i, found := slices.BinarySearchFunc(s.ranges, cu, func(r Range, cu uint16) int {
		switch {
		case r.Hi < cu:
			return -1
		case r.Lo > cu:
			return 1
		default:
			return 0
		}
	})
	return found && i < len(s.ranges)
}

// Min returns the smallest code unit in s.
func (s *Set) Min() (uint16, bool) {
	s.Canonicalize()
	if len(s.ranges) == 0 {
		return 0, false
	}
	return s.ranges[0].Lo, true
}

// Len returns the number of code units in s.
func (s *Set) Len() int {
	s.Canonicalize()
	n := 0
	for _, r := range s.ranges {
		n += int(r.Hi-r.Lo) + 1
	}
	return n
}

// IsEmpty reports whether s holds no code units.
func (s *Set) IsEmpty() bool {
	return len(s.ranges) == 0
}

// Ranges returns a copy of the ranges in their current order.
func (s *Set) Ranges() []Range {
	return slices.Clone(s.ranges)
}

// Clone returns an independent copy of s.
func (s *Set) Clone() *Set {
	return &Set{ranges: slices.Clone(s.ranges), canonical: s.canonical}
}

// Equal reports whether s and other hold the same code units.
// Both sets are canonicalized.
func (s *Set) Equal(other *Set) bool {
	return slices.Equal(s.Canonicalize().ranges, other.Canonicalize().ranges)
}

// Pattern renders s as the body of a character class, without brackets.
// A range of two code units is written as two adjacent endpoints.
func (s *Set) Pattern() string {
	var b strings.Builder
	for _, r := range s.ranges {
		writeEndPoint(&b, r.Lo, b.Len() == 0)
		switch r.Hi - r.Lo {
		case 0:
		case 1:
			writeEndPoint(&b, r.Hi, false)
		default:
			b.WriteByte('-')
			writeEndPoint(&b, r.Hi, false)
		}
	}
	return b.String()
}

const hexDigits = "0123456789abcdef"

func writeEndPoint(b *strings.Builder, cu uint16, leading bool) {
	if cu < 0x20 || cu > 0x7e {
		b.WriteString(`\u`)
		b.WriteByte(hexDigits[cu>>12&0xf])
		b.WriteByte(hexDigits[cu>>8&0xf])
		b.WriteByte(hexDigits[cu>>4&0xf])
		b.WriteByte(hexDigits[cu&0xf])
		return
	}
	switch cu {
	case ']', '-', '\\', '[':
		b.WriteByte('\\')
	case '^':
		if leading {
			b.WriteByte('\\')
		}
	}
	b.WriteByte(byte(cu))
}

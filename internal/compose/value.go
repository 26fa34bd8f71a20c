package compose

import (
	"math"
	"strconv"
	"strings"
)

// ValueKind discriminates Value.
type ValueKind uint8

const (
	// Absent is a missing value; it composes like the empty string.
	Absent ValueKind = iota
	// Text is plain text, escaped for the slot it lands in.
	Text
	// Fragment is regular-expression source with its flags.
	Fragment
)

// Value is an interpolated value.
type Value struct {
	// Text is the plain text, or the fragment source.
	Text string
	// Flags are the fragment flags.
	Flags string
	Kind  ValueKind
}

// TextValue wraps plain text.
func TextValue(s string) Value {
	return Value{Kind: Text, Text: s}
}

// FragmentValue wraps regular-expression source.
func FragmentValue(source, flags string) Value {
	return Value{Kind: Fragment, Text: source, Flags: flags}
}

// AbsentValue is the missing value.
func AbsentValue() Value {
	return Value{}
}

// text returns the value coerced to text. Absent values are empty.
func (v Value) text() string {
	if v.Kind == Absent {
		return ""
	}
	return v.Text
}

// maxCount is the largest repetition bound the engine accepts.
const maxCount = math.MaxInt32

// count coerces the value to a repetition bound: a non-negative integer,
// or 0 for anything that is not a finite non-negative number. Bounds above
// maxCount are clamped to it.
func (v Value) count() string {
	if v.Kind != Text {
		return "0"
	}
	s := strings.TrimSpace(v.Text)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		n, ok := parseRadixInt(s)
		if !ok {
			return "0"
		}
		f = float64(n)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 1 {
		return "0"
	}
	if f > maxCount {
		return strconv.Itoa(maxCount)
	}
	return strconv.FormatFloat(math.Trunc(f), 'f', -1, 64)
}

// parseRadixInt accepts 0x, 0o and 0b prefixed integers.
func parseRadixInt(s string) (uint64, bool) {
	if len(s) < 3 || s[0] != '0' {
		return 0, false
	}
	var base int
	switch s[1] | 0x20 {
	case 'x':
		base = 16
	case 'o':
		base = 8
	case 'b':
		base = 2
	default:
		return 0, false
	}
	n, err := strconv.ParseUint(s[2:], base, 64)
	return n, err == nil
}

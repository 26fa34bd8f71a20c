package charclass

import "github.com/jacoelho/rxtemplate/internal/charrange"

// Named classes. Every table is canonicalized at init so concurrent readers
// never trigger a write.
var (
	dotSet = charrange.Of(
		0x0A, 0x0A,
		0x0D, 0x0D,
		0x2028, 0x2029,
	).Inverse()

	spaceSet = charrange.Of(
		0x09, 0x0D,
		0x20, 0x20,
		0xA0, 0xA0,
		0x1680, 0x1680,
		0x180E, 0x180E,
		0x2000, 0x200A,
		0x2028, 0x2029,
		0x202F, 0x202F,
		0x205F, 0x205F,
		0x3000, 0x3000,
		0xFEFF, 0xFEFF,
	).Canonicalize()

	wordSet = charrange.Of(
		'0', '9',
		'A', 'Z',
		'_', '_',
		'a', 'z',
	).Canonicalize()

	digitSet = charrange.Of('0', '9').Canonicalize()

	notSpaceSet = spaceSet.Inverse()
	notWordSet  = wordSet.Inverse()
	notDigitSet = digitSet.Inverse()
)

// classEscape returns the set named by a class escape letter.
func classEscape(c byte) (*charrange.Set, bool) {
	switch c {
	case 's':
		return spaceSet, true
	case 'S':
		return notSpaceSet, true
	case 'w':
		return wordSet, true
	case 'W':
		return notWordSet, true
	case 'd':
		return digitSet, true
	case 'D':
		return notDigitSet, true
	}
	return nil, false
}

// controlEscape maps single-letter control escapes to their code unit.
func controlEscape(c byte) (uint16, bool) {
	switch c {
	case 't':
		return 0x09, true
	case 'n':
		return 0x0A, true
	case 'v':
		return 0x0B, true
	case 'f':
		return 0x0C, true
	case 'r':
		return 0x0D, true
	}
	return 0, false
}

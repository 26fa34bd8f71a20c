package charclass

import (
	"strings"

	"github.com/jacoelho/rxtemplate/internal/charrange"
)

// FoldLiteral rewrites each ASCII letter of a literal run as a class holding
// both cases, so "ab" becomes "[Aa][Bb]".
func FoldLiteral(text string) string {
	if !hasASCIILetter(text) {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) * 4)
	for i := range len(text) {
		c := text[i]
		if !isASCIILetter(c) {
			b.WriteByte(c)
			continue
		}
		writeLetterClass(&b, c)
	}
	return b.String()
}

// FoldEscape folds an escape that stands for a single ASCII letter, such as
// \x41 or \q. Other escapes are returned unchanged.
func FoldEscape(esc string) string {
	us, class := decodeEscape(esc, false)
	if class != nil || len(us) != 1 || us[0] > 0x7f || !isASCIILetter(byte(us[0])) {
		return esc
	}
	var b strings.Builder
	writeLetterClass(&b, byte(us[0]))
	return b.String()
}

// FoldCharset renders a charset from its body parts with ASCII letters
// folded. Negation is kept.
func FoldCharset(negated bool, parts []string) (string, error) {
	set := &charrange.Set{}
	for _, part := range parts {
		if err := AddCharsetPart(part, set); err != nil {
			return "", err
		}
	}
	var b strings.Builder
	b.WriteByte('[')
	if negated {
		b.WriteByte('^')
	}
	b.WriteString(set.FoldASCII().Pattern())
	b.WriteByte(']')
	return b.String(), nil
}

func writeLetterClass(b *strings.Builder, c byte) {
	upper, lower := c&^0x20, c|0x20
	b.WriteByte('[')
	b.WriteByte(upper)
	b.WriteByte(lower)
	b.WriteByte(']')
}

func hasASCIILetter(s string) bool {
	for i := range len(s) {
		if isASCIILetter(s[i]) {
			return true
		}
	}
	return false
}

func isASCIILetter(c byte) bool {
	return (c|0x20) >= 'a' && (c|0x20) <= 'z'
}

package compose

import "strings"

const (
	blockSpecials   = `\(){}[]|?*+^$/.`
	charsetSpecials = `]-\[^`
)

// EscapeBlock escapes every character with a meaning at the top level of a
// pattern.
func EscapeBlock(s string) string {
	return escapeAny(s, blockSpecials)
}

// EscapeCharset escapes every character with a meaning inside a charset.
func EscapeCharset(s string) string {
	return escapeAny(s, charsetSpecials)
}

func escapeAny(s, specials string) string {
	if !strings.ContainsAny(s, specials) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := range len(s) {
		if strings.IndexByte(specials, s[i]) >= 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// Package scan tokenizes ECMAScript regular-expression source while tracking
// whether each position is at the top level, inside a charset, or inside a
// repetition count.
//
// Scanning can start in any context, so a pattern split at arbitrary points
// can be scanned piecewise. Every byte of the input belongs to exactly one
// reported token.
package scan

import (
	"strconv"
	"unicode/utf8"

	"github.com/jacoelho/rxtemplate/errors"
)

// Scanner scans with matchers drawn from a shared cache.
type Scanner struct {
	cache *MatcherCache
}

// New returns a scanner backed by cache. A nil cache gets a private one.
func New(cache *MatcherCache) *Scanner {
	if cache == nil {
		cache = NewMatcherCache()
	}
	return &Scanner{cache: cache}
}

// Scan scans src starting in start, reporting tokens of the requested kinds
// to yield. Tokens of other kinds are reported as Skipped runs.
func (s *Scanner) Scan(src string, start Context, kinds KindSet, yield func(Token)) (Result, error) {
	return Scan(src, start, s.cache.Matcher(kinds), yield)
}

// Tokens scans src and collects every reported token.
func (s *Scanner) Tokens(src string, start Context, kinds KindSet) ([]Token, Result, error) {
	var toks []Token
	res, err := s.Scan(src, start, kinds, func(t Token) {
		toks = append(toks, t)
	})
	return toks, res, err
}

// Scan scans src with a compiled matcher.
func Scan(src string, start Context, m *Matcher, yield func(Token)) (Result, error) {
	sc := scanner{src: src, m: m, yield: yield}
	end, err := sc.run(start)
	if err != nil {
		return Result{}, err
	}
	sc.flush()
	if sc.err != nil {
		return Result{}, sc.err
	}
	if sc.consumed != len(src) {
		return Result{}, sc.coverage(sc.consumed, "tokens do not cover input")
	}
	return Result{End: end}, nil
}

type scanner struct {
	err      error
	m        *Matcher
	yield    func(Token)
	src      string
	pending  Token
	consumed int
	held     bool
}

func (s *scanner) coverage(at int, msg string) error {
	return errors.New(errors.ErrScannerCoverage, msg).WithInput(s.src[at:], at)
}

func (s *scanner) run(start Context) (Context, error) {
	p := 0
	switch start {
	case Charset:
		q, closed, err := s.charsetBody(0)
		if err != nil || !closed {
			return Charset, err
		}
		p = q
	case Count:
		q := 0
		for q < len(s.src) && s.src[q] != '}' {
			q++
		}
		if q == len(s.src) {
			if q > 0 {
				s.emit(Token{Kind: CountBody, Text: s.src, Offset: 0})
			}
			return Count, nil
		}
		s.emit(Token{Kind: CountBody, Text: s.src[:q+1], Offset: 0})
		p = q + 1
	}

	for p < len(s.src) {
		c := s.src[p]
		if !s.m.stop[c] {
			q := p + 1
			for q < len(s.src) && !s.m.stop[s.src[q]] {
				q++
			}
			kind := Skipped
			if s.m.kinds.Has(Literal) {
				kind = Literal
			}
			s.emit(Token{Kind: kind, Text: s.src[p:q], Offset: p})
			p = q
			continue
		}

		var tok Token
		switch c {
		case '\\':
			tok = s.escape(p, false)
		case '[':
			tok = Token{Kind: CharsetOpen, Text: "[", Offset: p}
			if p+1 < len(s.src) && s.src[p+1] == '^' {
				tok.Text = "[^"
				tok.Negated = true
			}
			s.emit(tok)
			q, closed, err := s.charsetBody(p + len(tok.Text))
			if err != nil || !closed {
				return Charset, err
			}
			p = q
			continue
		case '{':
			n, complete := countLen(s.src, p)
			switch {
			case !complete:
				s.emit(Token{Kind: CountBody, Text: s.src[p:], Offset: p})
				return Count, nil
			case n == 0:
				tok = Token{Kind: Literal, Text: "{", Offset: p}
			default:
				tok = Token{Kind: CountBody, Text: s.src[p : p+n], Offset: p}
			}
		case '(':
			tok = groupOpen(s.src, p)
		case ')':
			tok = Token{Kind: GroupClose, Text: ")", Offset: p}
		case '.', '*', '+', '?', '|', '^', '$':
			tok = Token{Kind: Operator, Text: s.src[p : p+1], Offset: p}
		default:
			tok = Token{Kind: Literal, Text: s.src[p : p+1], Offset: p}
		}
		if len(tok.Text) == 0 {
			return Block, s.coverage(p, "no token matched")
		}
		s.emit(tok)
		p += len(tok.Text)
	}
	return Block, nil
}

// charsetBody reports charset parts from p up to and including the closing
// bracket. It returns the offset after the bracket and whether one was found.
func (s *scanner) charsetBody(p int) (int, bool, error) {
	for p < len(s.src) {
		if s.src[p] == ']' {
			s.emit(Token{Kind: CharsetClose, Text: "]", Offset: p})
			return p + 1, true, nil
		}
		n := charsetPartLen(s.src, p)
		if n <= 0 {
			return p, false, s.coverage(p, "no charset part matched")
		}
		s.emit(Token{Kind: CharsetRangeBody, Text: s.src[p : p+n], Offset: p})
		p += n
	}
	return p, false, nil
}

func (s *scanner) escape(p int, inCharset bool) Token {
	n, backref := escapeLen(s.src, p, inCharset)
	tok := Token{Kind: EscapeSequence, Text: s.src[p : p+n], Offset: p}
	if backref {
		tok.Kind = Backreference
		tok.Group = parseGroupNumber(tok.Text[1:])
	}
	return tok
}

// emit routes a token to the caller, folding unwanted kinds into Skipped runs
// and coalescing adjacent Literal and Skipped tokens.
func (s *scanner) emit(tok Token) {
	if !s.m.kinds.Has(tok.Kind) {
		tok = Token{Kind: Skipped, Text: tok.Text, Offset: tok.Offset}
	}
	if tok.Kind == Literal || tok.Kind == Skipped {
		if s.held && s.pending.Kind == tok.Kind && s.pending.Offset+len(s.pending.Text) == tok.Offset {
			s.pending.Text = s.src[s.pending.Offset : tok.Offset+len(tok.Text)]
			return
		}
		s.flush()
		s.pending = tok
		s.held = true
		return
	}
	s.flush()
	s.deliver(tok)
}

func (s *scanner) flush() {
	if !s.held {
		return
	}
	s.held = false
	s.deliver(s.pending)
}

func (s *scanner) deliver(tok Token) {
	if tok.Offset != s.consumed && s.err == nil {
		s.err = s.coverage(s.consumed, "token "+tok.String()+" leaves a gap")
	}
	s.consumed = tok.Offset + len(tok.Text)
	s.yield(tok)
}

// groupOpen classifies the opener at p.
func groupOpen(src string, p int) Token {
	rest := src[p:]
	tok := Token{Kind: GroupOpen, Text: "(", Offset: p}
	if len(rest) < 2 || rest[1] != '?' {
		return tok
	}
	tok.Kind = GroupOpenNonCapturing
	tok.Text = "(?"
	if len(rest) < 3 {
		return tok
	}
	switch rest[2] {
	case ':', '=', '!':
		tok.Text = rest[:3]
	case '<':
		if len(rest) > 3 && (rest[3] == '=' || rest[3] == '!') {
			tok.Text = rest[:4]
			return tok
		}
		if n := groupNameLen(rest, 2); n > 0 {
			tok.Kind = GroupOpen
			tok.Text = rest[:2+n]
		}
	}
	return tok
}

func isGroupNameByte(c byte) bool {
	return c == '_' || c == '$' || isDigit(c) || isASCIILetter(c)
}

// countLen measures a repetition count at p. It returns 0 when the brace does
// not begin a count, and complete=false when the input ends inside one.
func countLen(src string, p int) (int, bool) {
	i := p + 1
	for i < len(src) && isDigit(src[i]) {
		i++
	}
	if i < len(src) && src[i] == ',' {
		i++
		for i < len(src) && isDigit(src[i]) {
			i++
		}
	}
	switch {
	case i == len(src):
		return len(src) - p, false
	case src[i] == '}':
		return i + 1 - p, true
	default:
		return 0, true
	}
}

// charsetPartLen measures one charset atom, or a range of two atoms.
// A class escape such as \d never forms a range.
func charsetPartLen(src string, p int) int {
	first := atomLen(src, p)
	q := p + first
	if IsClassEscape(src[p:q]) {
		return first
	}
	if q+1 < len(src) && src[q] == '-' && src[q+1] != ']' {
		second := atomLen(src, q+1)
		if !IsClassEscape(src[q+1 : q+1+second]) {
			return q + 1 + second - p
		}
	}
	return first
}

func atomLen(src string, p int) int {
	if src[p] == '\\' {
		n, _ := escapeLen(src, p, true)
		return n
	}
	_, size := utf8.DecodeRuneInString(src[p:])
	return size
}

// escapeLen measures the escape at p and reports whether it is a
// backreference. Backreferences only exist outside charsets; inside a
// charset a digit escape is a legacy octal escape.
func escapeLen(src string, p int, inCharset bool) (int, bool) {
	if p+1 >= len(src) {
		return 1, false
	}
	c := src[p+1]
	switch {
	case c == 'u' && hexRun(src, p+2, 4):
		return 6, false
	case c == 'x' && hexRun(src, p+2, 2):
		return 4, false
	case c == 'c' && p+2 < len(src) && isASCIILetter(src[p+2]):
		return 3, false
	case c == 'k' && !inCharset:
		if n := groupNameLen(src, p+2); n > 0 {
			return 2 + n, false
		}
	case c >= '1' && c <= '9' && !inCharset:
		i := p + 2
		for i < len(src) && isDigit(src[i]) {
			i++
		}
		return i - p, true
	case isOctal(c) && (inCharset || c == '0'):
		return 1 + octalLen(src, p+1), false
	}
	_, size := utf8.DecodeRuneInString(src[p+1:])
	return 1 + size, false
}

// groupNameLen measures a "<name>" at p, or returns 0.
func groupNameLen(src string, p int) int {
	if p >= len(src) || src[p] != '<' {
		return 0
	}
	i := p + 1
	for i < len(src) && isGroupNameByte(src[i]) {
		i++
	}
	if i == p+1 || i == len(src) || src[i] != '>' {
		return 0
	}
	return i + 1 - p
}

// octalLen measures a legacy octal escape body with a value of at most 0377.
func octalLen(src string, p int) int {
	limit := 2
	if src[p] <= '3' {
		limit = 3
	}
	n := 1
	for n < limit && p+n < len(src) && isOctal(src[p+n]) {
		n++
	}
	return n
}

func parseGroupNumber(digits string) int {
	const maxDigits = 9
	if len(digits) > maxDigits {
		digits = digits[:maxDigits]
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// SplitRange splits a CharsetRangeBody into its two endpoints. isRange is
// false when part is a single atom.
func SplitRange(part string) (lo, hi string, isRange bool) {
	if part == "" {
		return "", "", false
	}
	n := atomLen(part, 0)
	if n+1 < len(part) && part[n] == '-' {
		return part[:n], part[n+1:], true
	}
	return part, "", false
}

// IsClassEscape reports whether esc is one of \d \D \s \S \w \W.
func IsClassEscape(esc string) bool {
	if len(esc) != 2 || esc[0] != '\\' {
		return false
	}
	switch esc[1] {
	case 'd', 'D', 's', 'S', 'w', 'W':
		return true
	}
	return false
}

func hexRun(src string, p, n int) bool {
	if p+n > len(src) {
		return false
	}
	for i := p; i < p+n; i++ {
		if !isHex(src[i]) {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isOctal(c byte) bool { return c >= '0' && c <= '7' }

func isHex(c byte) bool {
	return isDigit(c) || (c|0x20) >= 'a' && (c|0x20) <= 'f'
}

func isASCIILetter(c byte) bool {
	return (c|0x20) >= 'a' && (c|0x20) <= 'z'
}

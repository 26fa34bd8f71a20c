// Package compose merges regular-expression fragments and plain values into
// a literal skeleton, renumbering capturing groups and rewriting
// backreferences so each keeps naming the group its author meant.
package compose

import (
	"github.com/jacoelho/rxtemplate/errors"
	"github.com/jacoelho/rxtemplate/internal/scan"
)

// Slot describes one interpolation point of a skeleton.
type Slot struct {
	// Context is the lexical context the value lands in.
	Context scan.Context
	// Groups is the number of capturing groups opened by the literal
	// before the slot.
	Groups int
}

// Piece is a run of literal text or a backreference to a template group.
type Piece struct {
	Text string
	// Backref is the referenced template group, or 0 for text.
	Backref int
}

// Segment is one literal of a skeleton split around its backreferences.
type Segment struct {
	Pieces []Piece
	Groups int
}

// HasBackrefs reports whether the segment contains a backreference.
func (s Segment) HasBackrefs() bool {
	for _, p := range s.Pieces {
		if p.Backref > 0 {
			return true
		}
	}
	return false
}

// StaticInfo is everything derivable from a skeleton without its values.
// It is immutable once built.
type StaticInfo struct {
	Slots    []Slot
	Segments []Segment
}

var analyzeKinds = scan.Kinds(
	scan.GroupOpen,
	scan.Backreference,
	scan.CharsetOpen,
	scan.CharsetRangeBody,
	scan.CharsetClose,
)

// Analyze scans the literals of a skeleton in order, carrying the context
// from one literal into the next. A skeleton with N slots has N+1 literals.
func Analyze(literals []string, s *scan.Scanner) (*StaticInfo, error) {
	if len(literals) == 0 {
		return nil, errors.New(errors.ErrArity, "skeleton needs at least one literal")
	}
	if s == nil {
		s = scan.New(nil)
	}
	info := &StaticInfo{
		Slots:    make([]Slot, 0, len(literals)-1),
		Segments: make([]Segment, 0, len(literals)),
	}
	ctx := scan.Block
	for i, lit := range literals {
		last := i == len(literals)-1
		toks, res, err := s.Tokens(lit, ctx, analyzeKinds)
		if err != nil {
			return nil, err
		}
		// a lone backslash before a slot would escape the value's wrapper
		if !last && res.End != scan.Count && endsWithLoneBackslash(lit) {
			lit += `\`
			if toks, res, err = s.Tokens(lit, ctx, analyzeKinds); err != nil {
				return nil, err
			}
		}
		seg := segment(toks)
		info.Segments = append(info.Segments, seg)

		if ctx == scan.Charset && i > 0 && dashFollowsSlot(toks, !last && res.End == scan.Charset) {
			return nil, rangeDashError(literals, i-1)
		}
		if !last {
			if res.End == scan.Charset && dashPrecedesSlot(toks, ctx) {
				return nil, rangeDashError(literals, i)
			}
			info.Slots = append(info.Slots, Slot{Context: res.End, Groups: seg.Groups})
		}
		ctx = res.End
	}
	return info, nil
}

// endsWithLoneBackslash reports whether lit ends in an odd run of
// backslashes, leaving the last one with nothing to escape.
func endsWithLoneBackslash(lit string) bool {
	n := 0
	for n < len(lit) && lit[len(lit)-1-n] == '\\' {
		n++
	}
	return n%2 == 1
}

func segment(toks []scan.Token) Segment {
	var seg Segment
	var text []byte
	for _, tok := range toks {
		switch tok.Kind {
		case scan.GroupOpen:
			seg.Groups++
		case scan.Backreference:
			if len(text) > 0 {
				seg.Pieces = append(seg.Pieces, Piece{Text: string(text)})
				text = text[:0]
			}
			seg.Pieces = append(seg.Pieces, Piece{Text: tok.Text, Backref: tok.Group})
			continue
		}
		text = append(text, tok.Text...)
	}
	if len(text) > 0 || len(seg.Pieces) == 0 {
		seg.Pieces = append(seg.Pieces, Piece{Text: string(text)})
	}
	return seg
}

// dashPrecedesSlot reports whether a literal ending inside a charset ends
// with a dash that would make the following value a range endpoint, as in
// "[a-" followed by a value.
func dashPrecedesSlot(toks []scan.Token, start scan.Context) bool {
	n := len(toks)
	if n == 0 || !isDash(toks[n-1]) {
		return false
	}
	if n == 1 {
		return start == scan.Charset
	}
	return isRangeEndpoint(toks[n-2])
}

// dashFollowsSlot reports whether a literal resumed inside a charset starts
// with a dash that would make the preceding value a range endpoint, as in
// a value followed by "-z]". slotFollows is set when the literal ends inside
// the charset and another value follows it.
func dashFollowsSlot(toks []scan.Token, slotFollows bool) bool {
	if len(toks) == 0 || toks[0].Kind != scan.CharsetRangeBody || toks[0].Text[0] != '-' {
		return false
	}
	if toks[0].Text != "-" {
		return true
	}
	if len(toks) == 1 {
		return slotFollows
	}
	return toks[1].Kind == scan.CharsetRangeBody && !scan.IsClassEscape(toks[1].Text)
}

func isDash(tok scan.Token) bool {
	return tok.Kind == scan.CharsetRangeBody && tok.Text == "-"
}

// isRangeEndpoint reports whether tok is a single charset atom that can
// bound a range.
func isRangeEndpoint(tok scan.Token) bool {
	if tok.Kind != scan.CharsetRangeBody || scan.IsClassEscape(tok.Text) {
		return false
	}
	_, _, isRange := scan.SplitRange(tok.Text)
	return !isRange
}

func rangeDashError(literals []string, slot int) error {
	return errors.Newf(errors.ErrUnsupportedInterpolation,
		"value %d is a charset range endpoint", slot).WithInput(literals[slot]+"${...}"+literals[slot+1], len(literals[slot]))
}

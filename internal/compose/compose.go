package compose

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jacoelho/rxtemplate/errors"
	"github.com/jacoelho/rxtemplate/internal/charclass"
	"github.com/jacoelho/rxtemplate/internal/scan"
)

// emptyMatch replaces a backreference with no group in scope.
const emptyMatch = "(?:)"

var (
	fragmentKinds = scan.Kinds(scan.GroupOpen, scan.Backreference)
	foldKinds     = scan.Kinds(
		scan.GroupOpen,
		scan.Backreference,
		scan.Literal,
		scan.EscapeSequence,
		scan.CharsetOpen,
		scan.CharsetRangeBody,
		scan.CharsetClose,
	)
)

// Composer substitutes values into analyzed skeletons. It holds no per-call
// state and is safe for concurrent use.
type Composer struct {
	scanner   *scan.Scanner
	extractor *charclass.Extractor
	logger    *slog.Logger
}

// New returns a composer. Nil arguments get private defaults.
func New(s *scan.Scanner, logger *slog.Logger) *Composer {
	if s == nil {
		s = scan.New(nil)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Composer{
		scanner:   s,
		extractor: charclass.New(s),
		logger:    logger,
	}
}

// Compose substitutes values into the skeleton described by info under the
// container flags. It returns the pattern source and the group index map:
// entry 0 is the whole match and entry i is the output group of the i-th
// capturing group written in the skeleton literals.
func (c *Composer) Compose(info *StaticInfo, flags string, values []Value) (string, []int, error) {
	if len(values) != len(info.Slots) {
		return "", nil, errors.Newf(errors.ErrArity, "skeleton has %d slots, got %d values", len(info.Slots), len(values))
	}
	st := &composition{groups: []int{0}, next: 1, logger: c.logger}
	foldFragments := !strings.Contains(flags, "i")

	st.literal(info.Segments[0])
	for i, slot := range info.Slots {
		if err := c.substitute(st, slot.Context, values[i], foldFragments); err != nil {
			return "", nil, fmt.Errorf("value %d: %w", i, err)
		}
		st.literal(info.Segments[i+1])
	}
	return st.finish(), st.groups, nil
}

func (c *Composer) substitute(st *composition, ctx scan.Context, v Value, foldFragments bool) error {
	switch ctx {
	case scan.Charset:
		if v.Kind != Fragment {
			st.text.WriteString(EscapeCharset(v.text()))
			return nil
		}
		set, err := c.extractor.Approximate(v.Text, v.Flags)
		if err != nil {
			return err
		}
		st.text.WriteString(set.Pattern())
	case scan.Count:
		st.text.WriteString(v.count())
	default:
		if v.Kind != Fragment {
			st.text.WriteString("(?:")
			st.text.WriteString(EscapeBlock(v.text()))
			st.text.WriteString(")")
			return nil
		}
		return c.fragment(st, v, foldFragments && strings.Contains(v.Flags, "i"))
	}
	return nil
}

// fragment merges regex source at the top level, renumbering its groups and
// backreferences. With fold set, ASCII letters are expanded to both cases.
func (c *Composer) fragment(st *composition, v Value, fold bool) error {
	kinds := fragmentKinds
	if fold {
		kinds = foldKinds
	}
	toks, _, err := c.scanner.Tokens(v.Text, scan.Block, kinds)
	if err != nil {
		return err
	}
	sourceGroups := 0
	for _, tok := range toks {
		if tok.Kind == scan.GroupOpen {
			sourceGroups++
		}
	}

	b := &st.text
	b.WriteString("(?:")
	var class *pendingCharset
	for _, tok := range toks {
		switch tok.Kind {
		case scan.Backreference:
			b.WriteString(st.rewrite(tok.Group, sourceGroups))
		case scan.Literal:
			b.WriteString(charclass.FoldLiteral(tok.Text))
		case scan.EscapeSequence:
			b.WriteString(charclass.FoldEscape(tok.Text))
		case scan.CharsetOpen:
			class = &pendingCharset{negated: tok.Negated, raw: tok.Text}
		case scan.CharsetRangeBody:
			class.parts = append(class.parts, tok.Text)
			class.raw += tok.Text
		case scan.CharsetClose:
			folded, err := charclass.FoldCharset(class.negated, class.parts)
			if err != nil {
				return err
			}
			b.WriteString(folded)
			class = nil
		default:
			if class != nil {
				class.raw += tok.Text
				continue
			}
			b.WriteString(tok.Text)
		}
	}
	if class != nil {
		b.WriteString(class.raw)
	}
	b.WriteString(")")
	st.next += sourceGroups
	return nil
}

type pendingCharset struct {
	raw     string
	parts   []string
	negated bool
}

// composition is the state of one Compose call.
type composition struct {
	logger *slog.Logger
	text   strings.Builder
	groups []int
	// next is the output number of the next capturing group.
	next int
}

// literal appends a skeleton segment. Its groups are numbered first, then
// its backreferences are mapped through the groups opened so far; a
// reference to a group not yet opened matches the empty string.
func (st *composition) literal(seg Segment) {
	for range seg.Groups {
		st.groups = append(st.groups, st.next)
		st.next++
	}
	if !seg.HasBackrefs() {
		st.text.WriteString(seg.Pieces[0].Text)
		return
	}
	for _, p := range seg.Pieces {
		switch {
		case p.Backref == 0:
			st.text.WriteString(p.Text)
		case p.Backref < len(st.groups):
			st.text.WriteString(backref(st.groups[p.Backref]))
		default:
			st.logger.Debug("template backreference out of scope", slog.Int("group", p.Backref), slog.Int("open_groups", len(st.groups)-1))
			st.text.WriteString(emptyMatch)
		}
	}
}

// rewrite maps backreference k of a fragment with sourceGroups groups of
// its own. Lower numbers name the fragment's groups; higher ones name
// template groups already opened.
func (st *composition) rewrite(k, sourceGroups int) string {
	switch {
	case k <= sourceGroups:
		return backref(k + st.next - 1)
	case k < len(st.groups):
		return backref(st.groups[k])
	default:
		st.logger.Debug("backreference out of scope", slog.Int("group", k), slog.Int("open_groups", len(st.groups)-1))
		return emptyMatch
	}
}

func (st *composition) finish() string {
	return st.text.String()
}

func backref(n int) string {
	return `\` + strconv.Itoa(n)
}

package scan

import "fmt"

// Context is the lexical region a position of regex source occupies.
type Context uint8

const (
	// Block is the top level, where every regex operator can appear.
	Block Context = iota
	// Charset is inside [...].
	Charset
	// Count is inside the braces of a repetition count, as in x{1,2}.
	Count
)

func (c Context) String() string {
	switch c {
	case Block:
		return "block"
	case Charset:
		return "charset"
	case Count:
		return "count"
	default:
		return fmt.Sprintf("Context(%d)", uint8(c))
	}
}

// Kind classifies a token.
type Kind uint8

const (
	// CharsetOpen is "[" or "[^".
	CharsetOpen Kind = iota
	// CharsetRangeBody is one atom or range inside a charset: "a", "a-z", `\d`.
	CharsetRangeBody
	// CharsetClose is the "]" ending a charset.
	CharsetClose
	// GroupOpen opens a capturing group: "(" or "(?<name>".
	GroupOpen
	// GroupOpenNonCapturing is "(?:", a lookaround opener, or another "(?" form.
	GroupOpenNonCapturing
	// GroupClose is ")".
	GroupClose
	// Operator is one of . * + ? | ^ $.
	Operator
	// CountBody is a repetition count, possibly cut short by the end of input.
	CountBody
	// EscapeSequence is a backslash escape that is not a backreference.
	EscapeSequence
	// Backreference is a backslash followed by a decimal group number.
	Backreference
	// Literal is a maximal run of characters with no special meaning.
	Literal
	// Skipped is a maximal run of tokens the caller did not ask for.
	Skipped

	numKinds
)

var kindNames = [numKinds]string{
	CharsetOpen:           "CharsetOpen",
	CharsetRangeBody:      "CharsetRangeBody",
	CharsetClose:          "CharsetClose",
	GroupOpen:             "GroupOpen",
	GroupOpenNonCapturing: "GroupOpenNonCapturing",
	GroupClose:            "GroupClose",
	Operator:              "Operator",
	CountBody:             "CountBody",
	EscapeSequence:        "EscapeSequence",
	Backreference:         "Backreference",
	Literal:               "Literal",
	Skipped:               "Skipped",
}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// KindSet is a bitmask of token kinds a caller wants reported individually.
type KindSet uint16

// AllKinds asks for every token kind.
const AllKinds = KindSet(1<<numKinds - 1)

// Kinds builds a KindSet.
func Kinds(kinds ...Kind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s |= 1 << k
	}
	return s
}

// Has reports whether k is in s.
func (s KindSet) Has(k Kind) bool {
	return s&(1<<k) != 0
}

// Token is a classified slice of source text.
type Token struct {
	Text   string
	Offset int
	// Group is the referenced group number of a Backreference.
	Group int
	Kind  Kind
	// Negated marks a CharsetOpen of the form "[^".
	Negated bool
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Text, t.Offset)
}

// Result describes the state a scan ended in.
type Result struct {
	// End is the context in effect after the last byte of the input.
	End Context
}

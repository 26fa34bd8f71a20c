package charclass

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jacoelho/rxtemplate/errors"
	"github.com/jacoelho/rxtemplate/internal/charrange"
	"github.com/jacoelho/rxtemplate/internal/scan"
)

func TestApproximate(t *testing.T) {
	tests := []struct {
		name   string
		source string
		flags  string
		want   string
	}{
		{name: "count contributes nothing", source: `x{1,2}`, want: "x"},
		{name: "named backreference contributes nothing", source: `(?<n>a)\k<n>`, want: "a"},
		{name: "zero count still over-approximates", source: `ab{0}`, want: "ab"},
		{name: "dot with line terminators", source: `.|\r|\n`, want: `\u0000-\u2027\u202a-\uffff`},
		{name: "negated charset", source: `[^A-Z]`, want: `\u0000-@\[-\uffff`},
		{name: "alternation and groups", source: `[a]|([c]|b)|d|_`, want: "_a-d"},
		{name: "case insensitive", source: `[a]|(?:[c]|b)|d|_`, flags: "i", want: "A-D_a-d"},
		{name: "backspace inside charset", source: `[\b\t\n]`, want: `\u0008-\u000a`},
		{name: "word boundary outside charset", source: `\b|\t|\n`, want: `\u0009\u000a`},
		{name: "digit class", source: `\d`, want: "0-9"},
		{name: "word class in charset", source: `[\w-]`, want: `\-0-9A-Z_a-z`},
		{name: "numeric escapes", source: `\x41B\cJ`, want: `\u000aAB`},
		{name: "octal range", source: `[\101-\103]`, want: "A-C"},
		{name: "backreference contributes nothing", source: `\1(a)`, want: "a"},
		{name: "group syntax contributes nothing", source: `(?:ab)*(?=c)`, want: "a-c"},
		{name: "identity escape", source: `\/\.`, want: `./`},
		{name: "astral literal", source: "\U0001F600", want: `\ud83d\ude00`},
		{name: "empty", source: ``, want: ""},
	}
	e := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Approximate(tt.source, tt.flags)
			require.NoError(t, err)
			if got.Pattern() != tt.want {
				t.Fatalf("Approximate(%q, %q) = %q, want %q", tt.source, tt.flags, got.Pattern(), tt.want)
			}
		})
	}
}

func TestApproximateDot(t *testing.T) {
	got, err := Approximate(`.`, "")
	require.NoError(t, err)
	excluded := charrange.Of(0x0A, 0x0A, 0x0D, 0x0D, 0x2028, 0x2029)
	require.True(t, got.Equal(excluded.Inverse()))
	require.Equal(t, charrange.MaxCodeUnit+1-4, got.Len())
}

func TestApproximateUnterminatedNegatedCharset(t *testing.T) {
	got, err := Approximate(`[^a`, "")
	require.NoError(t, err)
	require.False(t, got.Contains('a'))
	require.True(t, got.Contains('b'))
}

func TestApproximateInvertedRange(t *testing.T) {
	_, err := Approximate(`[z-a]`, "")
	require.Error(t, err)
	require.True(t, stderrors.Is(err, errors.ErrInvalidRange), "err = %v", err)
}

func TestApproximateSharesScanner(t *testing.T) {
	cache := scan.NewMatcherCache()
	e := New(scan.New(cache))
	_, err := e.Approximate(`[a-z]`, "")
	require.NoError(t, err)
	_, err = e.Approximate(`.`, "i")
	require.NoError(t, err)
	require.Equal(t, 1, cache.Len())
}

func TestFoldLiteral(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "<foo>", want: "<[Ff][Oo][Oo]>"},
		{in: "A1", want: "[Aa]1"},
		{in: "123", want: "123"},
		{in: "é", want: "é"},
	}
	for _, tt := range tests {
		if got := FoldLiteral(tt.in); got != tt.want {
			t.Fatalf("FoldLiteral(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFoldEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: `\x41`, want: "[Aa]"},
		{in: `\q`, want: "[Qq]"},
		{in: `\d`, want: `\d`},
		{in: `\t`, want: `\t`},
		{in: `\b`, want: `\b`},
		{in: `\.`, want: `\.`},
		{in: `\k<name>`, want: `\k<name>`},
		{in: `\k`, want: "[Kk]"},
	}
	for _, tt := range tests {
		if got := FoldEscape(tt.in); got != tt.want {
			t.Fatalf("FoldEscape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFoldCharset(t *testing.T) {
	got, err := FoldCharset(false, []string{"a-c", "_"})
	require.NoError(t, err)
	require.Equal(t, "[A-C_a-c]", got)

	got, err = FoldCharset(true, []string{"x"})
	require.NoError(t, err)
	require.Equal(t, "[^Xx]", got)

	got, err = FoldCharset(false, []string{"^", "k"})
	require.NoError(t, err)
	require.Equal(t, "[K^k]", got)

	_, err = FoldCharset(false, []string{"z-a"})
	require.Error(t, err)
}

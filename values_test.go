package rxtemplate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jacoelho/rxtemplate/internal/compose"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 0, want: "0"},
		{in: math.Copysign(0, -1), want: "0"},
		{in: 42, want: "42"},
		{in: -7, want: "-7"},
		{in: 1.5, want: "1.5"},
		{in: 1e6, want: "1000000"},
		{in: 1e21, want: "1e+21"},
		{in: 0.000001, want: "1e-06"},
		{in: math.NaN(), want: "NaN"},
		{in: math.Inf(1), want: "Infinity"},
		{in: math.Inf(-1), want: "-Infinity"},
	}
	for _, tt := range tests {
		if got := formatNumber(tt.in); got != tt.want {
			t.Fatalf("formatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValueOf(t *testing.T) {
	var nilPattern *Pattern
	tests := []struct {
		name string
		in   any
		want compose.Value
	}{
		{name: "nil", in: nil, want: compose.AbsentValue()},
		{name: "nil pattern", in: nilPattern, want: compose.AbsentValue()},
		{name: "string", in: "a", want: compose.TextValue("a")},
		{name: "bytes", in: []byte("b"), want: compose.TextValue("b")},
		{name: "bool", in: true, want: compose.TextValue("true")},
		{name: "int", in: -3, want: compose.TextValue("-3")},
		{name: "uint8", in: uint8(200), want: compose.TextValue("200")},
		{name: "float32", in: float32(0.5), want: compose.TextValue("0.5")},
		{name: "fragment", in: Regex("a|b", "i"), want: compose.FragmentValue("a|b", "i")},
		{name: "fragment pointer", in: &Fragment{Source: "x"}, want: compose.FragmentValue("x", "")},
		{name: "pattern", in: &Pattern{Source: "(y)", Flags: "m"}, want: compose.FragmentValue("(y)", "m")},
		{name: "other", in: struct{ A int }{A: 1}, want: compose.TextValue("{1}")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, valueOf(tt.in))
		})
	}
}

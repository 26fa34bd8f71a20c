package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		want string
		e    Error
	}{
		{
			name: "message only",
			e:    Error{Code: ErrInvalidRange, Message: "left exceeds right"},
			want: "[invalid-range] left exceeds right",
		},
		{
			name: "with offset",
			e:    Error{Code: ErrScannerCoverage, Message: "no progress", Offset: 4},
			want: "[scanner-coverage-violation] no progress at offset 4",
		},
		{
			name: "with input",
			e:    Error{Code: ErrUnsupportedInterpolation, Message: "range dash", Input: "[a-"},
			want: `[unsupported-interpolation] range dash (input: "[a-")`,
		},
		{
			name: "with all",
			e:    Error{Code: ErrScannerCoverage, Message: "no progress", Input: `\`, Offset: 2},
			want: `[scanner-coverage-violation] no progress at offset 2 (input: "\\")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.e.Error(); got != tt.want {
				t.Fatalf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorIsMatchesCode(t *testing.T) {
	err := fmt.Errorf("compose: %w", Newf(ErrInvalidRange, "range %d-%d", 5, 2))
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("errors.Is(%v, ErrInvalidRange) = false, want true", err)
	}
	if errors.Is(err, ErrScannerCoverage) {
		t.Fatalf("errors.Is(%v, ErrScannerCoverage) = true, want false", err)
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		want   ErrorCode
		wantOK bool
	}{
		{name: "nil", err: nil},
		{name: "plain", err: errors.New("boom")},
		{name: "wrapped error", err: fmt.Errorf("x: %w", New(ErrArity, "3 values")), want: ErrArity, wantOK: true},
		{name: "bare code", err: fmt.Errorf("x: %w", ErrInvalidOptions), want: ErrInvalidOptions, wantOK: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CodeOf(tt.err)
			if got != tt.want || ok != tt.wantOK {
				t.Fatalf("CodeOf() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestWithInputCopies(t *testing.T) {
	base := New(ErrScannerCoverage, "no progress")
	annotated := base.WithInput("rest", 3)
	if base.Input != "" || base.Offset != 0 {
		t.Fatalf("WithInput() mutated receiver: %+v", base)
	}
	if annotated.Input != "rest" || annotated.Offset != 3 {
		t.Fatalf("WithInput() = %+v, want input rest offset 3", annotated)
	}
}

package cnpj

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"already canonical", "11222333000181", "11222333000181"},
		{"punctuated", "11.222.333/0001-81", "11222333000181"},
		{"partial", "11.2", "112"},
		{"letters and spaces", "a1b1 c2d2 2333 0001 81", "11222333000181"},
		{"excess digits truncated", "112223330001819999", "11222333000181"},
		{"only separators", "./-.", ""},
		{"unicode digits ignored", "١٢٣", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"full", "11222333000181", "11.222.333/0001-81"},
		{"one digit", "1", "1"},
		{"two digits", "11", "11"},
		{"three digits", "112", "11.2"},
		{"five digits", "11222", "11.222"},
		{"six digits", "112223", "11.222.3"},
		{"eight digits", "11222333", "11.222.333"},
		{"nine digits", "112223330", "11.222.333/0"},
		{"twelve digits", "112223330001", "11.222.333/0001"},
		{"thirteen digits", "1122233300018", "11.222.333/0001-8"},
		{"already punctuated input", "11.222.333/0001-81", "11.222.333/0001-81"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Format(tt.input))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		canonical string
		wantErr   bool
	}{
		{"punctuated", "11.222.333/0001-81", "11222333000181", false},
		{"bare digits", "11222333000181", "11222333000181", false},
		{"short", "123", "", true},
		{"empty", "", "", true},
		{"thirteen digits", "1122233300018", "", true},
		{"digits with noise still complete", "cnpj: 11.222.333/0001-81", "11222333000181", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := Validate(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalid)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.canonical, code)
		})
	}
}

// Validate succeeds exactly when Normalize yields 14 digits.
func TestValidate_AgreesWithNormalize(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		input := rapid.String().Draw(t, "input")
		code, err := Validate(input)
		if len(Normalize(input)) == Length {
			require.NoError(t, err)
			require.Equal(t, Normalize(input), code)
		} else {
			require.ErrorIs(t, err, ErrInvalid)
		}
	})
}

// Formatting never exceeds 18 characters and is lossless over the digits:
// stripping the separators back out reproduces the normalized input.
func TestFormat_RoundTripsNormalize(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		input := rapid.String().Draw(t, "input")
		normalized := Normalize(input)
		formatted := Format(normalized)

		require.LessOrEqual(t, len(formatted), Length+4)
		require.Equal(t, normalized, Normalize(formatted))
	})
}

func TestNormalize_NeverExceedsLength(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		digits := rapid.StringOfN(rapid.RuneFrom([]rune("0123456789")), 0, 40, -1).Draw(t, "digits")
		normalized := Normalize(digits)
		require.LessOrEqual(t, len(normalized), Length)
		require.True(t, strings.HasPrefix(digits, normalized))
	})
}

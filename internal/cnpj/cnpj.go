// Package cnpj normalizes, formats, and validates CNPJ identifiers,
// the 14-digit Brazilian legal-entity registry numbers.
//
// The canonical representation is the bare 14-digit string. Formatting is
// purely presentational: downstream consumers key lookups and equality
// checks on the canonical digits, never on the punctuated form.
package cnpj

import (
	"errors"
	"strings"
)

// Length is the number of digits in a canonical CNPJ.
const Length = 14

// ErrInvalid reports input that does not normalize to exactly 14 digits.
var ErrInvalid = errors.New("cnpj: invalid length or non-numeric")

// separators maps digit positions to the separator inserted before them,
// producing the NN.NNN.NNN/NNNN-NN grouping (2-3-3-4-2).
var separators = map[int]byte{2: '.', 5: '.', 8: '/', 12: '-'}

// Normalize strips every non-digit character from text and truncates the
// result to 14 digits. Short results are valid intermediate states, not
// errors: the input may still be in progress.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(Length)
	for _, r := range text {
		if r < '0' || r > '9' {
			continue
		}
		b.WriteRune(r)
		if b.Len() == Length {
			break
		}
	}
	return b.String()
}

// Format renders a digit sequence in the punctuated CNPJ form, inserting
// separators only once enough digits are present to reach them. Input is
// normalized first, so excess or non-digit characters never leak through.
//
//	Format("11222333000181") == "11.222.333/0001-81"
//	Format("112")            == "11.2"
//	Format("")               == ""
func Format(digits string) string {
	digits = Normalize(digits)

	var b strings.Builder
	b.Grow(Length + 4)
	for i := 0; i < len(digits); i++ {
		if sep, ok := separators[i]; ok {
			b.WriteByte(sep)
		}
		b.WriteByte(digits[i])
	}
	return b.String()
}

// Validate normalizes text and returns the canonical 14-digit code, or
// ErrInvalid if the normalized result is not exactly 14 digits. This is
// the single gate before any remote call is made.
func Validate(text string) (string, error) {
	code := Normalize(text)
	if len(code) != Length {
		return "", ErrInvalid
	}
	return code, nil
}

// Package phone normalizes buyer phone numbers to the canonical 10-digit
// local form required by the notification provider.
package phone

import (
	"errors"
	"strings"
)

var ErrInvalidPhone = errors.New("phone must be 10 digits (after removing country code)")

// Digits strips everything but digits. Used for the stored form; Normalize
// applies the stricter rules the notification provider requires.
func Digits(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize strips everything but digits and reduces the remainder to the
// local 10-digit form. A 12-digit number with the "91" country prefix loses
// the prefix; any other overlong number keeps its trailing 10 digits.
func Normalize(raw string) (string, error) {
	digits := Digits(raw)

	switch {
	case len(digits) == 10:
		return digits, nil
	case len(digits) == 12 && strings.HasPrefix(digits, "91"):
		return digits[2:], nil
	case len(digits) > 10:
		return digits[len(digits)-10:], nil
	default:
		return "", ErrInvalidPhone
	}
}

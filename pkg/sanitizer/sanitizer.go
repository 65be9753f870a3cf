// Package sanitizer normalizes free-text fields before validation. Names,
// kana readings and departments arrive from a browser form; leading and
// trailing whitespace and doubled spaces are not meaningful.
package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims the string, collapses internal whitespace runs to a
// single space and strips control characters.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		case unicode.IsControl(r):
			// dropped
		default:
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return strings.TrimSpace(result.String())
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeKana additionally lowers any Latin characters mixed into a kana
// reading so the collation key is stable.
func NormalizeKana(kana string) string {
	return strings.ToLower(TrimAndNormalize(kana))
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

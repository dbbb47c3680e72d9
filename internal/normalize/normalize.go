// Package normalize folds ingredient and brand names into a canonical
// matching form shared by the registries and the scoring engine.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldAccents decomposes characters and strips combining marks, so that
// "Nestlé" matches "nestle" and "Häagen-Dazs" matches "haagen-dazs".
var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s, strips diacritics, collapses whitespace runs and trims
// surrounding punctuation noise. It is the canonical form used for all
// registry lookups.
func Fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	if folded, _, err := transform.String(foldAccents, s); err == nil {
		s = folded
	}

	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case r == '-' || r == ',' || r == '&' || r == '/':
			// Keep separators that are significant in additive names
			// ("1,4-dioxane", "fd&c").
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace && b.Len() > 0 {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// Dehyphenate replaces hyphens with spaces so "anti-caking" matches
// "anticaking" variants written with separators.
func Dehyphenate(s string) string {
	return strings.ReplaceAll(s, "-", " ")
}

// Singular trims a plural "s" suffix when the word is long enough for the
// trim to be meaningful ("emulsifiers" -> "emulsifier"). Short tokens and
// double-s stems ("gas", "molasses") pass through unchanged.
func Singular(s string) string {
	if len(s) <= 3 || !strings.HasSuffix(s, "s") {
		return s
	}
	// "gas" stays via the length guard; "molasses" and friends end in a
	// double-s stem plus "es" and must not be trimmed either.
	if strings.HasSuffix(s, "ss") || strings.HasSuffix(s, "sses") {
		return s
	}
	return s[:len(s)-1]
}

// Package text provides locale-tolerant string folding. Sector names and
// report keywords arrive with mixed case and Portuguese accents; matching
// is defined over the folded form.
package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s and removes combining marks, so "Emergência" and
// "EMERGENCIA" fold to the same value. On a transform error (malformed
// UTF-8) the lowercased input is returned unchanged.
func Fold(s string) string {
	lowered := strings.ToLower(strings.TrimSpace(s))
	folded, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		return lowered
	}
	return folded
}

// EqualFold reports whether a and b match under Fold.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}

// ContainsFold reports whether haystack contains needle under Fold.
func ContainsFold(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), Fold(needle))
}

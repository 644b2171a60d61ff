// Package sanitize neutralizes markup in operator-entered free text before
// it reaches storage. Incident descriptions, root causes, and action plans
// are rendered back to staff in web and email surfaces, so stored text must
// never carry active markup.
package sanitize

import (
	"html"
	"strings"
	"unicode"
)

// Text strips HTML/XML tags, drops control characters and unescapes entities
// so the stored value is plain text. Entities are unescaped before each strip
// pass and the two run to a fixpoint, so entity-encoded markup
// ("&lt;script&gt;", doubly-encoded variants) cannot smuggle tags past a
// single pass. The result contains no '<', which makes Text idempotent.
func Text(input string) string {
	neutral := input
	for {
		next := stripTags(html.UnescapeString(neutral))
		if next == neutral {
			break
		}
		neutral = next
	}

	var b strings.Builder
	b.Grow(len(neutral))
	for _, r := range neutral {
		if r == '\n' || r == '\t' {
			b.WriteRune(r)
			continue
		}
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

func stripTags(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	inTag := false
	for _, r := range input {
		switch {
		case r == '<':
			inTag = true
		case r == '>' && inTag:
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

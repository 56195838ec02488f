// Package slug derives URL slugs from free text titles.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// MaxLen is the maximum length of a generated slug
const MaxLen = 50

var (
	reDisallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	reSpaces     = regexp.MustCompile(`\s+`)
	reHyphens    = regexp.MustCompile(`-+`)
	reCanonical  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Make turns a title into a lowercase ASCII slug of at most MaxLen
// characters. Accents are folded ("Finanças" → "financas"), other
// symbols are dropped. It never fails; an empty or symbol-only title
// yields "". Make(Make(s)) == Make(s).
func Make(title string) string {
	if title == "" {
		return ""
	}

	s := strings.ToLower(title)

	// Strip diacritics
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFD.String(s) {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	s = b.String()

	s = reDisallowed.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = reSpaces.ReplaceAllString(s, "-")
	s = reHyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	// Only ASCII is left, so byte slicing is safe
	if len(s) > MaxLen {
		s = strings.Trim(s[:MaxLen], "-")
	}
	return s
}

// Valid reports whether s is already a canonical slug
func Valid(s string) bool {
	return len(s) <= MaxLen && reCanonical.MatchString(s)
}

// Or returns s when it is not empty, otherwise the slug of title
func Or(s, title string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return Make(title)
}

// Package slug turns human titles into URL-safe identifiers.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	invalidChars = regexp.MustCompile(`[^a-z0-9_\s-]`)
	separators   = regexp.MustCompile(`[\s_-]+`)
	canonical    = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Make lowercases and trims title, drops characters outside the word, space
// and hyphen classes, collapses runs of spaces, underscores and hyphens into a
// single hyphen and trims hyphens from both ends. Accented letters are folded
// to their base letter first ("Café" -> "cafe").
func Make(title string) string {
	s := strings.ToLower(strings.TrimSpace(fold(title)))
	s = invalidChars.ReplaceAllString(s, "")
	s = separators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Valid reports whether s is already in the form Make produces.
func Valid(s string) bool {
	return canonical.MatchString(s)
}

func fold(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

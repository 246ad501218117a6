package service

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NFD, drop combining marks (ç -> c, ã -> a)
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

// Normalize canonicalizes text for comparison: lowercase, no diacritics,
// everything outside [a-z0-9] becomes a space, runs of spaces collapsed.
// Query terms and catalog titles must both go through it.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	// 1) lowercase
	out := strings.ToLower(s)

	// 2) decompose + strip marks
	if folded, _, err := transform.String(stripMarks, out); err == nil {
		out = folded
	}

	// 3) keep only a-z0-9, the rest -> space
	out = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return ' '
	}, out)

	// 4) collapse + trim
	return collapseSpaces(out)
}

// Tokens returns the space-delimited tokens of an already normalized string.
func Tokens(normalized string) []string {
	return strings.Fields(normalized)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

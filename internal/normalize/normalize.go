// Package normalize canonicalizes raw payee names into comparable tokens.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Result is the canonical form of a name.
type Result struct {
	Normalized string
	Tokens     []string
}

var symbolReplacer = strings.NewReplacer(
	"&", " AND ",
	"+", " PLUS ",
	"@", " AT ",
	"#", " NUMBER ",
	"*", " STAR ",
)

var (
	reNonWord    = regexp.MustCompile(`[^\w\s]`)
	reWhitespace = regexp.MustCompile(`\s+`)
)

// Normalize uppercases the name, expands symbols to words, strips remaining
// punctuation and collapses whitespace. It never fails and is idempotent.
func Normalize(raw string) Result {
	s := strings.TrimSpace(foldAccents(raw))
	if s == "" {
		return Result{Normalized: "", Tokens: []string{}}
	}

	s = strings.ToUpper(s)
	s = symbolReplacer.Replace(s)
	s = reNonWord.ReplaceAllString(s, " ")
	s = reWhitespace.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	return Result{Normalized: s, Tokens: Tokenize(s)}
}

// Name is shorthand for Normalize(raw).Normalized.
func Name(raw string) string {
	return Normalize(raw).Normalized
}

// Tokenize splits a normalized string into its non-empty words.
func Tokenize(normalized string) []string {
	fields := strings.Fields(normalized)
	if fields == nil {
		return []string{}
	}
	return fields
}

// foldAccents strips combining marks so accented Latin letters survive the
// ASCII-only non-word filter.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

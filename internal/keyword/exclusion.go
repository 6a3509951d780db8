// Package keyword decides whether a payee name matches a known business or
// institution keyword, and maintains the keyword list used for that check.
package keyword

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/Veraticus/payee-classifier/internal/model"
	"github.com/Veraticus/payee-classifier/internal/normalize"
	"github.com/Veraticus/payee-classifier/internal/similarity"
)

// FuzzyThreshold is the minimum combined similarity for a fuzzy token match.
const FuzzyThreshold = 90.0

// minFuzzyLength bounds fuzzy matching to tokens and keywords long enough
// that a near miss is meaningful.
const minFuzzyLength = 4

// Strategy names the rule that matched a keyword.
type Strategy string

// Matching strategies in priority order.
const (
	StrategyExact     Strategy = "exact"
	StrategyToken     Strategy = "token"
	StrategyWholeWord Strategy = "whole-word"
	StrategyFuzzy     Strategy = "fuzzy-token"
)

// Match describes how one keyword matched a name.
type Match struct {
	Keyword    string
	Strategy   Strategy
	Confidence int
}

type entry struct {
	wholeWord  *regexp.Regexp
	label      string
	normalized string
	tokens     []string
}

// Matcher checks names against a precompiled keyword list. It is safe for
// concurrent use.
type Matcher struct {
	entries []entry
}

// NewMatcher compiles keywords for repeated checks. Keywords that normalize
// to an empty string are ignored.
func NewMatcher(keywords []string) *Matcher {
	entries := make([]entry, 0, len(keywords))
	for _, kw := range keywords {
		k := normalize.Normalize(kw)
		if k.Normalized == "" {
			continue
		}
		entries = append(entries, entry{
			label:      strings.ToUpper(strings.TrimSpace(kw)),
			normalized: k.Normalized,
			tokens:     k.Tokens,
			wholeWord:  regexp.MustCompile(`\b` + regexp.QuoteMeta(k.Normalized) + `\b`),
		})
	}
	return &Matcher{entries: entries}
}

// Len returns the number of usable keywords.
func (m *Matcher) Len() int {
	return len(m.entries)
}

// CheckExclusion tests name against every keyword. Each keyword is tried with
// exact, token, whole-word and fuzzy-token strategies in that order and the
// first one that matches wins for that keyword. Fuzzy matching compares whole
// name tokens only, never substrings, so "VA" cannot match "VALLEY".
func CheckExclusion(name string, keywords []string) model.KeywordExclusionResult {
	return NewMatcher(keywords).Check(name)
}

// Check runs the exclusion test for one name.
func (m *Matcher) Check(name string) model.KeywordExclusionResult {
	matches := m.FindMatches(name)
	if len(matches) == 0 {
		return model.NewKeywordExclusion(nil, 0, "No exclusion keywords matched")
	}

	matched := make([]string, len(matches))
	parts := make([]string, len(matches))
	confidence := 0
	for i, match := range matches {
		matched[i] = match.Keyword
		parts[i] = fmt.Sprintf("%s (%s)", match.Keyword, match.Strategy)
		confidence = max(confidence, match.Confidence)
	}

	reasoning := "Matched exclusion keyword(s): " + strings.Join(parts, ", ")
	return model.NewKeywordExclusion(matched, confidence, reasoning)
}

// FindMatches returns one Match per matching keyword in keyword-list order.
func (m *Matcher) FindMatches(name string) []Match {
	n := normalize.Normalize(name)
	if n.Normalized == "" {
		return nil
	}

	nameTokens := make(map[string]struct{}, len(n.Tokens))
	for _, t := range n.Tokens {
		nameTokens[t] = struct{}{}
	}

	var matches []Match
	for _, e := range m.entries {
		if match, ok := e.match(n, nameTokens); ok {
			matches = append(matches, match)
		}
	}
	return matches
}

func (e entry) match(n normalize.Result, nameTokens map[string]struct{}) (Match, bool) {
	if n.Normalized == e.normalized {
		return Match{Keyword: e.label, Strategy: StrategyExact, Confidence: 100}, true
	}

	if len(e.tokens) <= len(n.Tokens) && containsAll(nameTokens, e.tokens) {
		return Match{Keyword: e.label, Strategy: StrategyToken, Confidence: 100}, true
	}

	if e.wholeWord.MatchString(n.Normalized) {
		return Match{Keyword: e.label, Strategy: StrategyWholeWord, Confidence: 100}, true
	}

	if len(e.tokens) != 1 || len(e.normalized) < minFuzzyLength {
		return Match{}, false
	}

	best := 0.0
	for _, tok := range n.Tokens {
		if len(tok) < minFuzzyLength {
			continue
		}
		best = math.Max(best, similarity.Combined(tok, e.normalized).Combined)
	}
	if best >= FuzzyThreshold {
		return Match{Keyword: e.label, Strategy: StrategyFuzzy, Confidence: int(math.Round(best))}, true
	}

	return Match{}, false
}

func containsAll(set map[string]struct{}, tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	for _, t := range tokens {
		if _, ok := set[t]; !ok {
			return false
		}
	}
	return true
}

// Package classification provides the deterministic payee classifiers: the
// rule-based classifier, the extended heuristics, fuzzy matching against
// known payees and the terminal fallback heuristic.
package classification

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// PatternKind groups brand and industry patterns.
type PatternKind string

const (
	// PatternKindBrand matches a well-known brand name.
	PatternKindBrand PatternKind = "brand"
	// PatternKindIndustry matches an industry or facility term.
	PatternKindIndustry PatternKind = "industry"
)

// Pattern is a regular expression that identifies a business payee.
type Pattern struct {
	Name           string
	Kind           PatternKind
	Regex          string
	SICCode        string
	SICDescription string
	Priority       int // Higher priority patterns are checked first
	Confidence     int
}

// CompiledPattern holds a compiled regex pattern with metadata.
type CompiledPattern struct {
	compiledRegex *regexp.Regexp
	Pattern
}

// PatternDetector matches payee names against brand and industry patterns.
type PatternDetector struct {
	patterns []CompiledPattern
	mu       sync.RWMutex
}

// NewPatternDetector creates a new pattern detector with the given patterns.
func NewPatternDetector(patterns []Pattern) (*PatternDetector, error) {
	compiled, err := compilePatterns(patterns)
	if err != nil {
		return nil, err
	}
	return &PatternDetector{patterns: compiled}, nil
}

// PatternMatch is a single pattern hit.
type PatternMatch struct {
	PatternName    string
	Kind           PatternKind
	SICCode        string
	SICDescription string
	Confidence     int
}

// Match returns every pattern matching name, highest priority first.
func (pd *PatternDetector) Match(name string) []PatternMatch {
	pd.mu.RLock()
	defer pd.mu.RUnlock()

	var matches []PatternMatch
	for _, p := range pd.patterns {
		if !p.compiledRegex.MatchString(name) {
			continue
		}
		matches = append(matches, PatternMatch{
			PatternName:    p.Name,
			Kind:           p.Kind,
			Confidence:     p.Confidence,
			SICCode:        p.SICCode,
			SICDescription: p.SICDescription,
		})
	}
	return matches
}

// UpdatePatterns replaces the detector's patterns.
func (pd *PatternDetector) UpdatePatterns(patterns []Pattern) error {
	compiled, err := compilePatterns(patterns)
	if err != nil {
		return err
	}

	pd.mu.Lock()
	pd.patterns = compiled
	pd.mu.Unlock()

	return nil
}

// PatternCount returns the number of loaded patterns.
func (pd *PatternDetector) PatternCount() int {
	pd.mu.RLock()
	defer pd.mu.RUnlock()
	return len(pd.patterns)
}

func compilePatterns(patterns []Pattern) ([]CompiledPattern, error) {
	compiled := make([]CompiledPattern, 0, len(patterns))

	for _, p := range patterns {
		regexStr := p.Regex
		if !strings.HasPrefix(regexStr, "(?i)") {
			regexStr = "(?i)" + regexStr // Make case-insensitive by default
		}

		regex, err := regexp.Compile(regexStr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile pattern %s: %w", p.Name, err)
		}

		compiled = append(compiled, CompiledPattern{
			Pattern:       p,
			compiledRegex: regex,
		})
	}

	sort.SliceStable(compiled, func(i, j int) bool {
		return compiled[i].Priority > compiled[j].Priority
	})

	return compiled, nil
}

package classification

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/Veraticus/payee-classifier/internal/model"
	"github.com/Veraticus/payee-classifier/internal/normalize"
)

// Confidence assigned by each rule family.
const (
	confidenceKnownBusiness   = 95
	confidenceLegalSuffix     = 95
	confidenceAllCapsMulti    = 90
	confidenceGovernment      = 90
	confidenceAllCapsSingle   = 85
	confidenceBusinessKeyword = 85
	confidenceIndustry        = 85
	confidenceEnhancedTerm    = 85
	confidenceTitle           = 85
	confidencePersonalName    = 80
)

// MethodRules is the processing method reported by the rule-based classifier.
const MethodRules = "Rule-based pattern matching"

// RuleClassifier applies deterministic brand, suffix, dictionary and
// name-shape rules. It is safe for concurrent use.
type RuleClassifier struct {
	patterns *PatternDetector
	personal []*regexp.Regexp
}

// NewRuleClassifier builds a rule classifier over the given brand and
// industry patterns.
func NewRuleClassifier(patterns []Pattern) (*RuleClassifier, error) {
	pd, err := NewPatternDetector(patterns)
	if err != nil {
		return nil, err
	}

	personal := make([]*regexp.Regexp, 0, len(personalNamePatterns))
	for _, p := range personalNamePatterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("failed to compile personal name pattern %q: %w", p, err)
		}
		personal = append(personal, re)
	}

	return &RuleClassifier{patterns: pd, personal: personal}, nil
}

// evidence collects fired rules for both sides of the decision.
type evidence struct {
	sicCode         string
	sicDescription  string
	rules           []string
	businessConf    int
	individualConf  int
	businessKeyword bool
}

func (e *evidence) business(rule string, confidence int, keyword bool) {
	e.rules = append(e.rules, rule)
	e.businessConf = max(e.businessConf, confidence)
	e.businessKeyword = e.businessKeyword || keyword
}

func (e *evidence) individual(rule string, confidence int) {
	e.rules = append(e.rules, rule)
	e.individualConf = max(e.individualConf, confidence)
}

func (e *evidence) sic(code, description string) {
	if e.sicCode == "" && code != "" {
		e.sicCode = code
		e.sicDescription = description
	}
}

// Apply runs every rule against name. It returns nil when no rule fired or
// when business and individual rules both fired.
func (r *RuleClassifier) Apply(name string) *model.ClassificationResult {
	raw := strings.Join(strings.Fields(name), " ")
	n := normalize.Normalize(raw)
	if n.Normalized == "" {
		return nil
	}
	padded := " " + n.Normalized + " "

	var ev evidence

	for _, lit := range obviousBusinesses {
		if hasPhrase(padded, lit) {
			ev.business("Known business: "+lit, confidenceKnownBusiness, true)
			break
		}
	}

	for _, m := range r.patterns.Match(n.Normalized) {
		ev.business(fmt.Sprintf("%s pattern: %s", m.Kind, m.PatternName), m.Confidence, true)
		ev.sic(m.SICCode, m.SICDescription)
	}

	if isAllCaps(raw) {
		switch {
		case !strings.Contains(raw, " ") && len(raw) > 5:
			ev.business("All-caps single word", confidenceAllCapsSingle, false)
		case strings.Contains(raw, " ") && len(raw) > 8:
			ev.business("All-caps multi-word name", confidenceAllCapsMulti, false)
		}
	}

	if s, ok := firstPhrase(padded, legalSuffixes); ok {
		ev.business("Legal suffix: "+s, confidenceLegalSuffix, true)
	}

	for _, kw := range businessKeywords {
		if strings.Contains(n.Normalized, kw) {
			ev.business("Business keyword: "+kw, confidenceBusinessKeyword, true)
			break
		}
	}

	if ind, kw, ok := matchIndustry(padded); ok {
		ev.business(fmt.Sprintf("Industry: %s (%s)", ind.Name, kw), confidenceIndustry, true)
		ev.sic(ind.SICCode, ind.SICDescription)
	}

	if p, ok := firstPhrase(padded, governmentPhrases); ok {
		ev.business("Government entity: "+p, confidenceGovernment, true)
		ev.sic(governmentSICCode, governmentSICDescription)
	}

	if t, ok := firstPhrase(padded, professionalTitles); ok {
		ev.individual("Professional title: "+t, confidenceTitle)
	}

	if ev.individualConf == 0 {
		if t, ok := firstPhrase(padded, enhancedBusinessTerms); ok {
			ev.business("Business term: "+t, confidenceEnhancedTerm, true)
		}
	}

	if !ev.businessKeyword && len(n.Tokens) <= 3 {
		for _, re := range r.personal {
			if re.MatchString(raw) {
				ev.individual("Personal name pattern", confidencePersonalName)
				break
			}
		}
	}

	switch {
	case ev.businessConf > 0 && ev.individualConf > 0:
		return nil
	case ev.businessConf > 0:
		return &model.ClassificationResult{
			Classification:   model.Business,
			Confidence:       ev.businessConf,
			Reasoning:        "Business indicators: " + strings.Join(ev.rules, "; "),
			ProcessingTier:   model.TierRuleBased,
			ProcessingMethod: MethodRules,
			MatchingRules:    ev.rules,
			SICCode:          ev.sicCode,
			SICDescription:   ev.sicDescription,
		}
	case ev.individualConf > 0:
		return &model.ClassificationResult{
			Classification:   model.Individual,
			Confidence:       ev.individualConf,
			Reasoning:        "Individual indicators: " + strings.Join(ev.rules, "; "),
			ProcessingTier:   model.TierRuleBased,
			ProcessingMethod: MethodRules,
			MatchingRules:    ev.rules,
		}
	default:
		return nil
	}
}

// hasPhrase reports whether phrase occurs as whole words in a space-padded
// normalized name.
func hasPhrase(padded, phrase string) bool {
	return strings.Contains(padded, " "+phrase+" ")
}

func firstPhrase(padded string, phrases []string) (string, bool) {
	for _, p := range phrases {
		if hasPhrase(padded, p) {
			return p, true
		}
	}
	return "", false
}

func matchIndustry(padded string) (Industry, string, bool) {
	for _, ind := range industries {
		if kw, ok := firstPhrase(padded, ind.Keywords); ok {
			return ind, kw, true
		}
	}
	return Industry{}, "", false
}

// isAllCaps reports whether s has letters and none of them are lowercase.
func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

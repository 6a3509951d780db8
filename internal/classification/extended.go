package classification

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Veraticus/payee-classifier/internal/model"
	"github.com/Veraticus/payee-classifier/internal/normalize"
)

// Per-rule confidence increments for the extended heuristics.
const (
	BusinessRuleWeight   = 3
	IndividualRuleWeight = 4
)

// MethodExtended is the processing method reported by the extended rules.
const MethodExtended = "Extended heuristic rules"

var (
	digitRe      = regexp.MustCompile(`\d`)
	webRe        = regexp.MustCompile(`(?i)(\bwww\.|\.(com|net|org|io|co)\b)`)
	possessiveRe = regexp.MustCompile(`(?i)\p{L}'S\b`)
	initialRe    = regexp.MustCompile(`^\p{L}\.?,?$`)
	lastFirstRe  = regexp.MustCompile(`^\p{L}[\p{L}'\-]+,\s*\p{L}`)
	alphaRe      = regexp.MustCompile(`^\p{L}+$`)
)

var familyBusinessWords = []string{"SONS", "BROTHERS", "BROS", "DAUGHTERS", "BROTHERHOOD"}

type detector struct {
	match func(raw string, n normalize.Result) bool
	name  string
}

var businessDetectors = []detector{
	{name: "contains digits", match: func(raw string, _ normalize.Result) bool {
		return digitRe.MatchString(raw)
	}},
	{name: "joined names", match: func(raw string, n normalize.Result) bool {
		return strings.Contains(raw, "&") || (len(n.Tokens) > 2 && hasPhrase(" "+n.Normalized+" ", "AND"))
	}},
	{name: "family business wording", match: func(_ string, n normalize.Result) bool {
		_, ok := firstPhrase(" "+n.Normalized+" ", familyBusinessWords)
		return ok
	}},
	{name: "four or more words", match: func(_ string, n normalize.Result) bool {
		return len(n.Tokens) >= 4
	}},
	{name: "business indicator word", match: func(_ string, n normalize.Result) bool {
		business, _ := normalize.IndicatorCounts(n.Tokens)
		return business > 0
	}},
	{name: "leading article", match: func(_ string, n normalize.Result) bool {
		return len(n.Tokens) > 1 && n.Tokens[0] == "THE"
	}},
	{name: "web address", match: func(raw string, _ normalize.Result) bool {
		return webRe.MatchString(raw)
	}},
	{name: "possessive", match: func(raw string, _ normalize.Result) bool {
		return possessiveRe.MatchString(raw)
	}},
}

var individualDetectors = []detector{
	{name: "given name or suffix", match: func(_ string, n normalize.Result) bool {
		_, individual := normalize.IndicatorCounts(n.Tokens)
		return individual > 0
	}},
	{name: "short alphabetic name", match: func(raw string, n normalize.Result) bool {
		fields := strings.Fields(strings.ReplaceAll(raw, ",", " "))
		if len(fields) < 2 || len(fields) > 3 || len(n.Tokens) != len(fields) {
			return false
		}
		for _, f := range fields {
			if !alphaRe.MatchString(f) {
				return false
			}
		}
		return true
	}},
	{name: "initial", match: func(raw string, _ normalize.Result) bool {
		fields := strings.Fields(raw)
		if len(fields) < 2 {
			return false
		}
		for _, f := range fields {
			if initialRe.MatchString(f) {
				return true
			}
		}
		return false
	}},
	{name: "last, first format", match: func(raw string, _ normalize.Result) bool {
		return lastFirstRe.MatchString(raw)
	}},
}

// ExtendedClassifier runs broader business and individual detectors than the
// rule classifier and decides by which side fired more often.
type ExtendedClassifier struct{}

// NewExtendedClassifier creates an extended heuristic classifier.
func NewExtendedClassifier() *ExtendedClassifier {
	return &ExtendedClassifier{}
}

// Apply returns nil when no detector fired or both sides fired equally.
func (e *ExtendedClassifier) Apply(name string) *model.ClassificationResult {
	raw := strings.Join(strings.Fields(name), " ")
	n := normalize.Normalize(raw)
	if n.Normalized == "" {
		return nil
	}

	businessRules := run(businessDetectors, raw, n)
	individualRules := run(individualDetectors, raw, n)

	var (
		classification model.Classification
		rules          []string
		confidence     int
	)
	switch {
	case len(businessRules) > len(individualRules):
		classification = model.Business
		rules = businessRules
		confidence = min(model.ConfidenceHigh, model.ConfidenceMedium+len(rules)*BusinessRuleWeight)
	case len(individualRules) > len(businessRules):
		classification = model.Individual
		rules = individualRules
		confidence = min(model.ConfidenceHigh, model.ConfidenceMedium+len(rules)*IndividualRuleWeight)
	default:
		return nil
	}

	return &model.ClassificationResult{
		Classification:   classification,
		Confidence:       confidence,
		Reasoning:        fmt.Sprintf("%s by %d extended rule(s): %s", classification, len(rules), strings.Join(rules, ", ")),
		ProcessingTier:   model.TierRuleBased,
		ProcessingMethod: MethodExtended,
		MatchingRules:    rules,
	}
}

func run(detectors []detector, raw string, n normalize.Result) []string {
	var fired []string
	for _, d := range detectors {
		if d.match(raw, n) {
			fired = append(fired, d.name)
		}
	}
	return fired
}

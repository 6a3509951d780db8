package classification

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Veraticus/payee-classifier/internal/model"
)

// MethodFallback is the processing method of the terminal heuristic.
const MethodFallback = "Fallback heuristic"

var (
	symbolRe     = regexp.MustCompile(`[^\p{L}\p{N}\s.,'\-]`)
	simpleNameRe = regexp.MustCompile(`^[A-Za-z]+ [A-Za-z]+$`)
)

// fallbackBusinessThreshold is how many indicators must fire for Business.
const fallbackBusinessThreshold = 2

// Fallback scores five business indicators and always returns a result:
// Business when at least two fire, otherwise Individual, at the review
// confidence.
func Fallback(name string) model.ClassificationResult {
	raw := strings.TrimSpace(name)
	fields := strings.Fields(raw)

	indicators := []struct {
		name  string
		fired bool
	}{
		{"longer than 15 characters", len(raw) > 15},
		{"more than 3 words", len(fields) > 3},
		{"contains symbols", symbolRe.MatchString(raw)},
		{"long all-caps", len(raw) > 10 && isAllCaps(raw)},
		{"not a simple first/last name", !simpleNameRe.MatchString(strings.Join(fields, " "))},
	}

	var fired []string
	for _, ind := range indicators {
		if ind.fired {
			fired = append(fired, ind.name)
		}
	}

	classification := model.Individual
	if len(fired) >= fallbackBusinessThreshold {
		classification = model.Business
	}

	return model.ClassificationResult{
		Classification:   classification,
		Confidence:       model.ConfidenceReviewRequired,
		Reasoning:        fmt.Sprintf("Fallback heuristic: %d of %d business indicators", len(fired), len(indicators)),
		ProcessingTier:   model.TierRuleBased,
		ProcessingMethod: MethodFallback,
		MatchingRules:    fired,
	}
}

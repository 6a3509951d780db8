package classification

import (
	"fmt"
	"math"
	"sync"

	"github.com/Veraticus/payee-classifier/internal/model"
	"github.com/Veraticus/payee-classifier/internal/normalize"
	"github.com/Veraticus/payee-classifier/internal/similarity"
)

// FuzzyMatchThreshold is the minimum combined similarity for a reference
// match to decide a classification.
const FuzzyMatchThreshold = 85.0

// Processing methods reported by the fuzzy classifier.
const (
	MethodFuzzyMatch = "Fuzzy match against known payees"
	MethodTokenNLP   = "Token indicator analysis"
)

// Reference is a payee whose classification is already known.
type Reference struct {
	Name           string
	Classification model.Classification
	SICCode        string
	SICDescription string
}

type reference struct {
	Reference
	normalized string
}

// knownEntities seed the reference set.
var knownEntities = []Reference{
	{Name: "Amazon Marketplace", Classification: model.Business, SICCode: "5961", SICDescription: "Catalog and Mail-Order Houses"},
	{Name: "Walmart Supercenter", Classification: model.Business, SICCode: "5331", SICDescription: "Variety Stores"},
	{Name: "Home Depot", Classification: model.Business, SICCode: "5211", SICDescription: "Lumber and Other Building Materials Dealers"},
	{Name: "Lowes Home Improvement", Classification: model.Business, SICCode: "5211", SICDescription: "Lumber and Other Building Materials Dealers"},
	{Name: "Costco Wholesale", Classification: model.Business, SICCode: "5399", SICDescription: "Miscellaneous General Merchandise Stores"},
	{Name: "Starbucks Coffee", Classification: model.Business, SICCode: "5812", SICDescription: "Eating Places"},
	{Name: "Verizon Wireless", Classification: model.Business, SICCode: "4812", SICDescription: "Radiotelephone Communications"},
	{Name: "Comcast Cable", Classification: model.Business, SICCode: "4841", SICDescription: "Cable and Other Pay Television Services"},
	{Name: "Pacific Gas and Electric", Classification: model.Business, SICCode: "4931", SICDescription: "Electric and Other Services Combined"},
	{Name: "State Farm Insurance", Classification: model.Business, SICCode: "6411", SICDescription: "Insurance Agents, Brokers, and Service"},
	{Name: "Wells Fargo Bank", Classification: model.Business, SICCode: "6021", SICDescription: "National Commercial Banks"},
	{Name: "Office Depot", Classification: model.Business, SICCode: "5943", SICDescription: "Stationery Stores"},
	{Name: "Federal Express", Classification: model.Business, SICCode: "4215", SICDescription: "Courier Services, Except by Air"},
	{Name: "United Parcel Service", Classification: model.Business, SICCode: "4215", SICDescription: "Courier Services, Except by Air"},
	{Name: "Google Workspace", Classification: model.Business, SICCode: "7372", SICDescription: "Prepackaged Software"},
	{Name: "Microsoft Office", Classification: model.Business, SICCode: "7372", SICDescription: "Prepackaged Software"},
	{Name: "Dropbox", Classification: model.Business, SICCode: "7372", SICDescription: "Prepackaged Software"},
	{Name: "Netflix", Classification: model.Business, SICCode: "7841", SICDescription: "Video Tape Rental"},
	{Name: "Shell Oil", Classification: model.Business, SICCode: "5541", SICDescription: "Gasoline Service Stations"},
	{Name: "Enterprise Rent A Car", Classification: model.Business, SICCode: "7514", SICDescription: "Passenger Car Rental"},
}

// FuzzyClassifier compares names against a set of known payees and, when no
// reference is close enough, scores business and individual indicator
// tokens. It is safe for concurrent use.
type FuzzyClassifier struct {
	index map[string]int
	refs  []reference
	mu    sync.RWMutex
}

// NewFuzzyClassifier creates a classifier seeded with the built-in known
// payees.
func NewFuzzyClassifier() *FuzzyClassifier {
	f := &FuzzyClassifier{index: make(map[string]int)}
	for _, r := range knownEntities {
		f.add(r)
	}
	return f
}

// Learn adds a previously classified payee to the reference set.
func (f *FuzzyClassifier) Learn(name string, result model.ClassificationResult) {
	f.add(Reference{
		Name:           name,
		Classification: result.Classification,
		SICCode:        result.SICCode,
		SICDescription: result.SICDescription,
	})
}

// Len returns the size of the reference set.
func (f *FuzzyClassifier) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.refs)
}

func (f *FuzzyClassifier) add(r Reference) {
	normalized := normalize.Name(r.Name)
	if normalized == "" {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if i, ok := f.index[normalized]; ok {
		f.refs[i].Reference = r
		return
	}
	f.index[normalized] = len(f.refs)
	f.refs = append(f.refs, reference{Reference: r, normalized: normalized})
}

// Apply returns a result for the closest reference at or above
// FuzzyMatchThreshold, else a token-indicator verdict, else nil.
func (f *FuzzyClassifier) Apply(name string) *model.ClassificationResult {
	n := normalize.Normalize(name)
	if n.Normalized == "" {
		return nil
	}

	best, scores, ok := f.closest(n.Normalized)
	if ok && scores.Combined >= FuzzyMatchThreshold {
		return &model.ClassificationResult{
			Classification:   best.Classification,
			Confidence:       min(model.ConfidenceHigh, int(math.Round(scores.Combined))),
			Reasoning:        fmt.Sprintf("Similar to known payee %q (%.1f%% combined similarity)", best.Name, scores.Combined),
			ProcessingTier:   model.TierNLPBased,
			ProcessingMethod: MethodFuzzyMatch,
			MatchingRules:    []string{"Fuzzy match: " + best.Name},
			SimilarityScores: &scores,
			SICCode:          best.SICCode,
			SICDescription:   best.SICDescription,
		}
	}

	business, individual := normalize.IndicatorCounts(n.Tokens)
	var result *model.ClassificationResult
	switch {
	case business > individual:
		result = &model.ClassificationResult{
			Classification: model.Business,
			Confidence:     min(90, 70+10*(business-individual)),
			Reasoning:      fmt.Sprintf("%d business indicator token(s) outweigh %d individual", business, individual),
		}
	case individual > business:
		result = &model.ClassificationResult{
			Classification: model.Individual,
			Confidence:     min(90, 70+8*(individual-business)),
			Reasoning:      fmt.Sprintf("%d individual indicator token(s) outweigh %d business", individual, business),
		}
	default:
		return nil
	}

	result.ProcessingTier = model.TierNLPBased
	result.ProcessingMethod = MethodTokenNLP
	result.MatchingRules = []string{fmt.Sprintf("Indicator tokens: business=%d individual=%d", business, individual)}
	if ok {
		result.SimilarityScores = &scores
	}
	return result
}

func (f *FuzzyClassifier) closest(normalized string) (Reference, model.SimilarityScores, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var (
		best       Reference
		bestScores model.SimilarityScores
		found      bool
	)
	for _, r := range f.refs {
		scores := similarity.Combined(normalized, r.normalized)
		if !found || scores.Combined > bestScores.Combined {
			best, bestScores, found = r.Reference, scores, true
		}
	}
	return best, bestScores, found
}

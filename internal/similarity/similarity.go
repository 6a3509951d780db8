// Package similarity implements the string distance metrics used for fuzzy
// payee matching.
//
// All scores are percentages in the range 0-100. The combined score uses a
// fixed weighting:
//
//	0.30*Levenshtein + 0.20*Jaro + 0.20*JaroWinkler + 0.15*Dice + 0.15*TokenSort
//
// The weights are deliberately not configurable per call so that every
// component of the pipeline ranks candidates the same way.
package similarity

import (
	"math"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/Veraticus/payee-classifier/internal/model"
)

// Weights of the combined score.
const (
	WeightLevenshtein = 0.30
	WeightJaro        = 0.20
	WeightJaroWinkler = 0.20
	WeightDice        = 0.15
	WeightTokenSort   = 0.15
)

// Combined computes every metric for a and b (case-insensitively) and the
// weighted combined score rounded to two decimals.
func Combined(a, b string) model.SimilarityScores {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	scores := model.SimilarityScores{
		Levenshtein: Levenshtein(a, b),
		Jaro:        Jaro(a, b),
		JaroWinkler: JaroWinkler(a, b),
		Dice:        Dice(a, b),
		TokenSort:   TokenSortRatio(a, b),
	}

	combined := WeightLevenshtein*scores.Levenshtein +
		WeightJaro*scores.Jaro +
		WeightJaroWinkler*scores.JaroWinkler +
		WeightDice*scores.Dice +
		WeightTokenSort*scores.TokenSort

	scores.Combined = round2(combined)
	return scores
}

// LevenshteinDistance returns the edit distance between a and b in runes.
func LevenshteinDistance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// Levenshtein returns (maxLen - distance) / maxLen as a percentage. Two empty
// strings are 100% similar.
func Levenshtein(a, b string) float64 {
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 100
	}
	distance := LevenshteinDistance(a, b)
	return float64(maxLen-distance) / float64(maxLen) * 100
}

// Jaro returns the Jaro similarity of a and b as a percentage.
func Jaro(a, b string) float64 {
	return jaro(a, b) * 100
}

// JaroWinkler adds a prefix bonus of up to four characters to the Jaro score,
// applied only when the base score is at least 0.7.
func JaroWinkler(a, b string) float64 {
	j := jaro(a, b)
	if j < 0.7 {
		return j * 100
	}

	ra, rb := []rune(a), []rune(b)
	prefix := 0
	for i := 0; i < min(len(ra), len(rb), 4); i++ {
		if ra[i] != rb[i] {
			break
		}
		prefix++
	}

	return (j + float64(prefix)*0.1*(1-j)) * 100
}

// jaro computes the base Jaro similarity in the range 0-1.
func jaro(a, b string) float64 {
	if a == b {
		return 1
	}
	// Fix the argument order so the greedy matching is symmetric.
	if a > b {
		a, b = b, a
	}

	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 || lb == 0 {
		return 0
	}

	window := max(la, lb)/2 - 1
	if window < 0 {
		return 0
	}

	aMatched := make([]bool, la)
	bMatched := make([]bool, lb)
	matches := 0

	for i := 0; i < la; i++ {
		start := max(0, i-window)
		end := min(i+window+1, lb)
		for j := start; j < end; j++ {
			if bMatched[j] || ra[i] != rb[j] {
				continue
			}
			aMatched[i] = true
			bMatched[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0
	}

	transpositions := 0
	k := 0
	for i := 0; i < la; i++ {
		if !aMatched[i] {
			continue
		}
		for !bMatched[k] {
			k++
		}
		if ra[i] != rb[k] {
			transpositions++
		}
		k++
	}

	m := float64(matches)
	return (m/float64(la) + m/float64(lb) + (m-float64(transpositions)/2)/m) / 3
}

// Dice returns the bigram-set Dice coefficient as a percentage. Strings
// shorter than two characters score 0 unless they are identical.
func Dice(a, b string) float64 {
	if a == b {
		return 100
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) < 2 || len(rb) < 2 {
		return 0
	}

	setA := bigrams(ra)
	setB := bigrams(rb)

	intersection := 0
	for bg := range setA {
		if _, ok := setB[bg]; ok {
			intersection++
		}
	}

	return 2 * float64(intersection) / float64(len(setA)+len(setB)) * 100
}

func bigrams(r []rune) map[string]struct{} {
	set := make(map[string]struct{}, len(r)-1)
	for i := 0; i < len(r)-1; i++ {
		set[string(r[i:i+2])] = struct{}{}
	}
	return set
}

// TokenSortRatio sorts the lowercase tokens of each string, rejoins them and
// returns their Levenshtein similarity.
func TokenSortRatio(a, b string) float64 {
	return Levenshtein(sortedTokens(a), sortedTokens(b))
}

func sortedTokens(s string) string {
	tokens := strings.Fields(strings.ToLower(s))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b     string
		distance int
		want     float64
	}{
		{"kitten", "sitting", 3, float64(7-3) / 7 * 100},
		{"", "", 0, 100},
		{"abc", "", 3, 0},
		{"same", "same", 0, 100},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.distance, LevenshteinDistance(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
		assert.InDelta(t, tt.want, Levenshtein(tt.a, tt.b), 0.0001, "%q vs %q", tt.a, tt.b)
	}
}

func TestJaroAndJaroWinkler(t *testing.T) {
	assert.InDelta(t, 94.44, Jaro("martha", "marhta"), 0.01)
	assert.InDelta(t, 96.11, JaroWinkler("martha", "marhta"), 0.01)

	assert.InDelta(t, 82.22, Jaro("dwayne", "duane"), 0.01)
	assert.InDelta(t, 84.00, JaroWinkler("dwayne", "duane"), 0.01)

	// Single characters have a negative window and never match.
	assert.Zero(t, Jaro("a", "b"))
	assert.Equal(t, float64(100), Jaro("a", "a"))
}

func TestJaroWinkler_NoBonusBelowThreshold(t *testing.T) {
	j := Jaro("abcxyz", "abqrst")
	assert.Less(t, j, 70.0)
	assert.Equal(t, j, JaroWinkler("abcxyz", "abqrst"))
}

func TestDice(t *testing.T) {
	assert.Equal(t, float64(100), Dice("a", "a"))
	assert.Zero(t, Dice("a", "ab"))
	// night: ni ig gh ht; nacht: na ac ch ht -> 1 shared of 8.
	assert.InDelta(t, 25.0, Dice("night", "nacht"), 0.0001)
}

func TestTokenSortRatio(t *testing.T) {
	assert.Equal(t, float64(100), TokenSortRatio("Smith John", "john smith"))
	assert.Less(t, TokenSortRatio("john smith", "jane smith"), 100.0)
}

func TestCombined_Identity(t *testing.T) {
	for _, s := range []string{"x", "Bank of America", "ACME LLC", "  padded  ", "ünïcode"} {
		assert.Equal(t, float64(100), Combined(s, s).Combined, "input %q", s)
	}
}

func TestCombined_Symmetry(t *testing.T) {
	pairs := [][2]string{
		{"Valley", "VA"},
		{"AMAZON", "AMAZN"},
		{"John Smith", "Smith John"},
		{"crate", "trace"},
		{"abcdefgh", "hgfedcba"},
		{"", "nonempty"},
		{"MARTHA", "MARHTA"},
		{"aab", "aba"},
	}

	for _, p := range pairs {
		ab := Combined(p[0], p[1])
		ba := Combined(p[1], p[0])
		assert.Equal(t, ab.Combined, ba.Combined, "%q vs %q", p[0], p[1])
		assert.Equal(t, ab.Jaro, ba.Jaro, "%q vs %q", p[0], p[1])
	}
}

func TestCombined_CaseInsensitive(t *testing.T) {
	assert.Equal(t, Combined("walmart", "WALMART").Combined, float64(100))
}

func TestCombined_WeightsSumToOne(t *testing.T) {
	sum := WeightLevenshtein + WeightJaro + WeightJaroWinkler + WeightDice + WeightTokenSort
	assert.InDelta(t, 1.0, sum, 1e-9)
}

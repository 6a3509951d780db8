package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRow_SetOverwritesInPlace(t *testing.T) {
	row := NewRow([]string{"Payee", "Amount"}, []string{"Acme", "10"})

	row.Set("Amount", "20")
	row.Set("Memo", "x")

	assert.Equal(t, []string{"Payee", "Amount", "Memo"}, row.Keys())
	v, ok := row.Get("Amount")
	assert.True(t, ok)
	assert.Equal(t, "20", v)
}

func TestRow_NewRowPadsMissingValues(t *testing.T) {
	row := NewRow([]string{"A", "B", "C"}, []string{"1"})

	assert.Equal(t, 3, row.Len())
	v, ok := row.Get("C")
	assert.True(t, ok)
	assert.Empty(t, v)
}

func TestRow_JSONPreservesOrder(t *testing.T) {
	row := NewRow([]string{"zeta", "alpha", "mid"}, []string{"1", "2", "3"})

	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":"1","alpha":"2","mid":"3"}`, string(data))

	var decoded Row
	require.NoError(t, json.Unmarshal([]byte(`{"b":"x","a":7,"c":null}`), &decoded))
	assert.Equal(t, []string{"b", "a", "c"}, decoded.Keys())
	v, _ := decoded.Get("a")
	assert.Equal(t, "7", v)
}

func TestRow_CloneIsIndependent(t *testing.T) {
	row := NewRow([]string{"k"}, []string{"v"})
	clone := row.Clone()
	clone.Set("k", "changed")

	v, _ := row.Get("k")
	assert.Equal(t, "v", v)
}

func TestNewKeywordExclusion_FlagMatchesKeywords(t *testing.T) {
	excluded := NewKeywordExclusion([]string{"BANK"}, 100, "matched")
	assert.True(t, excluded.IsExcluded)

	clear := NewKeywordExclusion(nil, 80, "none")
	assert.False(t, clear.IsExcluded)
	assert.NotNil(t, clear.MatchedKeywords)
	assert.Zero(t, clear.Confidence)
}

func TestClampConfidence(t *testing.T) {
	assert.Equal(t, 0, ClampConfidence(-5))
	assert.Equal(t, 100, ClampConfidence(140))
	assert.Equal(t, 42, ClampConfidence(42))
}

func TestConfidenceThresholdsDescend(t *testing.T) {
	thresholds := []int{
		ConfidenceHigh,
		ConfidenceMedium,
		ConfidenceReviewRequired,
		ConfidenceEscalateToAI,
		ConfidenceForceWebSearch,
	}
	assert.Equal(t, []int{95, 85, 75, 65, 50}, thresholds)
}

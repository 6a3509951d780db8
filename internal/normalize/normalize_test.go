package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		normalized string
		tokens     []string
	}{
		{
			name:       "ampersand expands",
			input:      "AT&T Wireless",
			normalized: "AT AND T WIRELESS",
			tokens:     []string{"AT", "AND", "T", "WIRELESS"},
		},
		{
			name:       "symbols expand and punctuation is stripped",
			input:      "  joe's bar @ 5th #2 * + ",
			normalized: "JOE S BAR AT 5TH NUMBER 2 STAR PLUS",
			tokens:     []string{"JOE", "S", "BAR", "AT", "5TH", "NUMBER", "2", "STAR", "PLUS"},
		},
		{
			name:       "whitespace collapses",
			input:      "Bank\tof \n  America",
			normalized: "BANK OF AMERICA",
			tokens:     []string{"BANK", "OF", "AMERICA"},
		},
		{
			name:       "accents fold",
			input:      "José Núñez",
			normalized: "JOSE NUNEZ",
			tokens:     []string{"JOSE", "NUNEZ"},
		},
		{
			name:       "empty input",
			input:      "",
			normalized: "",
			tokens:     []string{},
		},
		{
			name:       "whitespace only",
			input:      "   \t ",
			normalized: "",
			tokens:     []string{},
		},
		{
			name:       "punctuation only",
			input:      "!!!",
			normalized: "",
			tokens:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			assert.Equal(t, tt.normalized, got.Normalized)
			assert.Equal(t, tt.tokens, got.Tokens)
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"AT&T Wireless",
		"Dr. Jane O'Neil, Esq.",
		"  mixed   CASE  name ",
		"Smith & Sons + Co @ #1 *",
		"Ünïcödé Straße",
		"12345",
		"under_score-name",
		"!!!",
		"",
	}

	for _, in := range inputs {
		once := Normalize(in).Normalized
		twice := Normalize(once).Normalized
		assert.Equal(t, once, twice, "input %q", in)
	}
}

func TestIndicatorCounts(t *testing.T) {
	business, individual := IndicatorCounts(Normalize("John Smith Consulting LLC").Tokens)
	assert.Equal(t, 2, business)
	assert.Equal(t, 1, individual)

	assert.True(t, IsBusinessIndicator("LLC"))
	assert.False(t, IsBusinessIndicator("SMITH"))
	assert.True(t, IsIndividualIndicator("JR"))
}

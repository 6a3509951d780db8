package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeywordFile(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{
			name:  "yaml list",
			input: "- first national\n- Acme Holdings\n",
			want:  []string{"FIRST NATIONAL", "ACME HOLDINGS"},
		},
		{
			name:  "yaml mapping",
			input: "keywords:\n  - credit union\n  - credit union\n  - county treasurer\n",
			want:  []string{"CREDIT UNION", "COUNTY TREASURER"},
		},
		{
			name:  "plain text with comments",
			input: "# agencies\nirs\n\n  state of montana  \n# done\n",
			want:  []string{"IRS", "STATE OF MONTANA"},
		},
		{
			name:  "empty",
			input: "  \n",
			want:  nil,
		},
		{
			name:    "malformed yaml",
			input:   "keywords: [unterminated",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseKeywordFile([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultOutputPath(t *testing.T) {
	assert.Equal(t, "data/payments_classified.csv", defaultOutputPath("data/payments.csv"))
	assert.Equal(t, "ledger_classified.xlsx", defaultOutputPath("ledger.XLSX"))
	assert.Equal(t, "vendors_classified.csv", defaultOutputPath("vendors.tsv"))
}

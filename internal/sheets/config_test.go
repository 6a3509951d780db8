package sheets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/payee-classifier/internal/common"
)

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		c := DefaultConfig()
		c.ServiceAccountPath = "/path/to/key.json"
		return c
	}

	tests := []struct {
		want   error
		mutate func(*Config)
		name   string
	}{
		{name: "service account", mutate: func(*Config) {}},
		{name: "oauth", mutate: func(c *Config) {
			c.ServiceAccountPath = ""
			c.ClientID, c.ClientSecret, c.RefreshToken = "id", "secret", "token"
		}},
		{name: "zero retries and delay", mutate: func(c *Config) {
			c.RetryAttempts, c.RetryDelay = 0, 0
		}},
		{name: "partial oauth", want: common.ErrMissingConfig, mutate: func(c *Config) {
			c.ServiceAccountPath = ""
			c.ClientID, c.RefreshToken = "id", "token"
		}},
		{name: "both auth methods", want: common.ErrInvalidConfig, mutate: func(c *Config) {
			c.ClientID, c.ClientSecret, c.RefreshToken = "id", "secret", "token"
		}},
		{name: "empty sheet name", want: common.ErrInvalidConfig, mutate: func(c *Config) { c.SheetName = "" }},
		{name: "zero batch size", want: common.ErrInvalidConfig, mutate: func(c *Config) { c.BatchSize = 0 }},
		{name: "negative retries", want: common.ErrInvalidConfig, mutate: func(c *Config) { c.RetryAttempts = -1 }},
		{name: "negative delay", want: common.ErrInvalidConfig, mutate: func(c *Config) { c.RetryDelay = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
		})
	}
}

package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/Veraticus/payee-classifier/internal/sheets"
)

// LoadSheetsConfig loads Google Sheets configuration from Viper and environment variables.
// It follows this precedence:
// 1. Viper configuration (from config file or PAYEE_ env vars)
// 2. Direct environment variables (GOOGLE_SHEETS_*)
// 3. Default values
func LoadSheetsConfig(v *viper.Viper) (*sheets.Config, error) {
	config := sheets.DefaultConfig()

	if s := v.GetString("sheets.service_account_path"); s != "" {
		config.ServiceAccountPath = ExpandPath(s)
	}
	if s := v.GetString("sheets.client_id"); s != "" {
		config.ClientID = s
	}
	if s := v.GetString("sheets.client_secret"); s != "" {
		config.ClientSecret = s
	}
	if s := v.GetString("sheets.refresh_token"); s != "" {
		config.RefreshToken = s
	}
	if s := v.GetString("sheets.spreadsheet_id"); s != "" {
		config.SpreadsheetID = s
	}
	if s := v.GetString("sheets.spreadsheet_name"); s != "" {
		config.SpreadsheetName = s
	}
	if s := v.GetString("sheets.sheet_name"); s != "" {
		config.SheetName = s
	}
	if n := v.GetInt("sheets.batch_size"); n != 0 {
		config.BatchSize = n
	}

	fromEnv := func(dst *string, key string) {
		if *dst == "" {
			*dst = os.Getenv(key)
		}
	}
	if config.ServiceAccountPath == "" {
		config.ServiceAccountPath = ExpandPath(os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"))
	}
	fromEnv(&config.ClientID, "GOOGLE_SHEETS_CLIENT_ID")
	fromEnv(&config.ClientSecret, "GOOGLE_SHEETS_CLIENT_SECRET")
	fromEnv(&config.RefreshToken, "GOOGLE_SHEETS_REFRESH_TOKEN")
	fromEnv(&config.SpreadsheetID, "GOOGLE_SHEETS_SPREADSHEET_ID")

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

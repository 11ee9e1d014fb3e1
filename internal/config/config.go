// Package config resolves runtime settings from environment variables.
package config

import "os"

// Defaults used when neither a flag nor the environment overrides them.
const (
	DefaultInputDir   = "input-sheets"
	DefaultOutputFile = "output/risk_analysis.xlsx"
	DefaultSheetName  = "Risk Analysis"
)

// Config holds the scanner's runtime settings.
type Config struct {
	InputDir   string // env: DDRSCAN_INPUT_DIR
	OutputFile string // env: DDRSCAN_OUTPUT_FILE
	SheetName  string // env: DDRSCAN_SHEET_NAME
}

// Load reads configuration from environment variables, falling back to
// the built-in defaults.
func Load() *Config {
	return &Config{
		InputDir:   getEnv("DDRSCAN_INPUT_DIR", DefaultInputDir),
		OutputFile: getEnv("DDRSCAN_OUTPUT_FILE", DefaultOutputFile),
		SheetName:  getEnv("DDRSCAN_SHEET_NAME", DefaultSheetName),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

package config

import "os"

// Environment variable names for overrides.
const (
	EnvConfig  = "LEDGERFLOW_CONFIG"
	EnvBaseURL = "LEDGERFLOW_BASE_URL"
	EnvEmail   = "LEDGERFLOW_EMAIL"
	EnvFolder  = "LEDGERFLOW_FOLDER"
)

// EnvOverrides holds values derived from environment variables.
// These sit between the config file and CLI flags in precedence.
type EnvOverrides struct {
	ConfigPath string // LEDGERFLOW_CONFIG: override config file path
	BaseURL    string // LEDGERFLOW_BASE_URL: override API endpoint
	Email      string // LEDGERFLOW_EMAIL: account email
	Folder     string // LEDGERFLOW_FOLDER: scoping folder
}

// ReadEnvOverrides reads environment variables and returns any overrides
// found. It does not modify a Config; callers apply the relevant fields.
func ReadEnvOverrides() EnvOverrides {
	return EnvOverrides{
		ConfigPath: os.Getenv(EnvConfig),
		BaseURL:    os.Getenv(EnvBaseURL),
		Email:      os.Getenv(EnvEmail),
		Folder:     os.Getenv(EnvFolder),
	}
}

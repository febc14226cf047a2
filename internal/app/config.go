package app

import "ignition/internal/config"

// Config holds the application-level settings derived from CLI flags.
type Config struct {
	// Debug enables debug-level logging regardless of the manifest setting.
	Debug bool

	// Silent suppresses all log output.
	Silent bool

	// ConfigPath points at the manifest file. Empty means the default
	// location; a missing file falls back to the built-in manifest.
	ConfigPath string

	// Manifest is populated during bootstrap.
	Manifest *config.Config
}

// NewConfig creates the application configuration from CLI flags.
func NewConfig(debug, silent bool, configPath string) *Config {
	return &Config{
		Debug:      debug,
		Silent:     silent,
		ConfigPath: configPath,
	}
}

// DefaultManifestPath is where up and validate look for the manifest when
// --config is not given.
const DefaultManifestPath = "ignition.yaml"

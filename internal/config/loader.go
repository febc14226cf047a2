package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"ignition/pkg/logging"
)

// Load reads the manifest from the given path. A missing file is not an
// error: the built-in default manifest is returned so the process can come
// up without any on-disk configuration.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No manifest found at %s, using built-in defaults", path)
			return Default(), nil
		}
		return Config{}, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	cfg := Config{Settings: Default().Settings}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if len(cfg.Systems) == 0 {
		return Config{}, fmt.Errorf("manifest %s declares no systems", path)
	}

	logging.Info("ConfigLoader", "Loaded manifest from %s (%d systems)", path, len(cfg.Systems))
	return cfg, nil
}

package config

import "ignition/internal/dependency"

// SystemConfig is the YAML shape of one system declaration in the manifest.
type SystemConfig struct {
	Name         string   `yaml:"name"`
	Tier         int      `yaml:"tier"`
	Dependencies []string `yaml:"dependencies,omitempty"`
	Required     bool     `yaml:"required"`
	Order        int      `yaml:"order,omitempty"`
	Capabilities []string `yaml:"capabilities,omitempty"`
}

// Settings holds process-level settings that are not system declarations.
type Settings struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"logLevel,omitempty"`
}

// Config is the full ignition manifest.
type Config struct {
	Settings Settings       `yaml:"settings,omitempty"`
	Systems  []SystemConfig `yaml:"systems"`
}

// Descriptors converts the manifest's system declarations into the
// descriptor table's input form. Structural validation (uniqueness, tiers,
// cycles) belongs to the dependency package.
func (c Config) Descriptors() []dependency.SystemDescriptor {
	descriptors := make([]dependency.SystemDescriptor, 0, len(c.Systems))
	for _, s := range c.Systems {
		descriptors = append(descriptors, dependency.SystemDescriptor{
			Name:         s.Name,
			Tier:         s.Tier,
			Dependencies: s.Dependencies,
			Required:     s.Required,
			Order:        s.Order,
			Capabilities: s.Capabilities,
		})
	}
	return descriptors
}

package config

// Default returns the built-in manifest: the narrative engine's standard
// system set. Tier 1 holds the stores, tier 2 the domain services built on
// them, tier 3 the optional analysis layer.
func Default() Config {
	return Config{
		Settings: Settings{
			LogLevel: "info",
		},
		Systems: []SystemConfig{
			{
				Name:         "memory-store",
				Tier:         1,
				Required:     true,
				Order:        1,
				Capabilities: []string{"memory"},
			},
			{
				Name:         "parameter-store",
				Tier:         1,
				Required:     true,
				Order:        2,
				Capabilities: []string{"parameters"},
			},
			{
				Name:         "character-service",
				Tier:         2,
				Dependencies: []string{"memory-store", "parameter-store"},
				Required:     true,
				Order:        1,
				Capabilities: []string{"characters"},
			},
			{
				Name:         "plot-service",
				Tier:         2,
				Dependencies: []string{"memory-store", "parameter-store"},
				Required:     true,
				Order:        2,
				Capabilities: []string{"plots"},
			},
			{
				Name:         "analysis-service",
				Tier:         3,
				Dependencies: []string{"character-service", "plot-service"},
				Required:     false,
				Order:        1,
				Capabilities: []string{"analysis"},
			},
		},
	}
}

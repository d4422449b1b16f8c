package config

import (
	_ "embed"
)

//go:embed defaults/tissues.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Game: GameConfig{
			InitialBatch: 10,
			LowWater:     4,
			RefillBatch:  5,
			SpeedSeconds: 30,
			MaxRotation:  3.0,
		},
		Messages: MessagesConfig{
			Provider:         ProviderNone,
			BacklogThreshold: 5,
			BatchSize:        5,
			TimeoutSeconds:   15,
			Temperature:      0.9,
		},
	}
}

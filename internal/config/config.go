// Package config provides YAML-based configuration loading for the tissue box.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tissue-box/internal/session"
)

// Config is the full application configuration.
type Config struct {
	Game     GameConfig     `yaml:"game"`
	Messages MessagesConfig `yaml:"messages"`
}

// GameConfig defines the pool and countdown rules.
type GameConfig struct {
	InitialBatch int     `yaml:"initial_batch"` // Tissues at session start
	LowWater     int     `yaml:"low_water"`     // Refill at or below this size
	RefillBatch  int     `yaml:"refill_batch"`  // Tissues per refill
	SpeedSeconds int     `yaml:"speed_seconds"` // Speed challenge length
	MaxRotation  float64 `yaml:"max_rotation"`  // Cosmetic tilt in degrees
}

// MessagesConfig defines the Zen message source.
type MessagesConfig struct {
	Provider         string   `yaml:"provider"` // "none", "openai" or "anthropic"
	Model            string   `yaml:"model"`
	APIKey           string   `yaml:"api_key"`
	BaseURL          string   `yaml:"base_url"`
	BacklogThreshold int      `yaml:"backlog_threshold"`
	BatchSize        int      `yaml:"batch_size"`
	TimeoutSeconds   int      `yaml:"timeout_seconds"`
	Temperature      float64  `yaml:"temperature"`
	Fallback         []string `yaml:"fallback"`
}

// Provider names.
const (
	ProviderNone      = "none"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Validate checks that the configuration describes a playable game.
func (c Config) Validate() error {
	var errs []error

	g := c.Game
	if g.InitialBatch <= 0 {
		errs = append(errs, fmt.Errorf("game.initial_batch must be positive, got %d", g.InitialBatch))
	}
	if g.RefillBatch <= 0 {
		errs = append(errs, fmt.Errorf("game.refill_batch must be positive, got %d", g.RefillBatch))
	}
	if g.LowWater < 0 {
		errs = append(errs, fmt.Errorf("game.low_water must not be negative, got %d", g.LowWater))
	}
	if g.LowWater >= g.InitialBatch {
		errs = append(errs, fmt.Errorf("game.low_water (%d) must be below game.initial_batch (%d)", g.LowWater, g.InitialBatch))
	}
	if g.SpeedSeconds <= 0 {
		errs = append(errs, fmt.Errorf("game.speed_seconds must be positive, got %d", g.SpeedSeconds))
	}

	m := c.Messages
	switch m.Provider {
	case "", ProviderNone, ProviderOpenAI, ProviderAnthropic:
	default:
		errs = append(errs, fmt.Errorf("messages.provider %q is not one of none, openai, anthropic", m.Provider))
	}
	if m.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("messages.batch_size must be positive, got %d", m.BatchSize))
	}
	if m.BacklogThreshold < 0 {
		errs = append(errs, fmt.Errorf("messages.backlog_threshold must not be negative, got %d", m.BacklogThreshold))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
	}
	return nil
}

// Settings converts the configuration to session rules.
func (c Config) Settings() session.Settings {
	s := session.DefaultSettings()
	s.InitialBatch = c.Game.InitialBatch
	s.LowWater = c.Game.LowWater
	s.RefillBatch = c.Game.RefillBatch
	s.SpeedDuration = c.Game.SpeedSeconds
	s.MaxRotation = c.Game.MaxRotation
	s.BacklogThreshold = c.Messages.BacklogThreshold
	s.BacklogRequest = c.Messages.BatchSize
	if c.Messages.TimeoutSeconds > 0 {
		s.RequestTimeout = time.Duration(c.Messages.TimeoutSeconds) * time.Second
	}
	return s
}

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/lixenwraith/kcc/controller"
	"github.com/lixenwraith/kcc/parameter"
)

// ErrInvalid marks a config value outside its allowed range
var ErrInvalid = errors.New("invalid config")

// Config holds runtime overrides of the compiled-in parameters
type Config struct {
	TickHz           int     `toml:"tick_hz"`
	PlayerSpeed      float64 `toml:"player_speed"`
	SkinWidth        float64 `toml:"skin_width"`
	MaxBounces       int     `toml:"max_bounces"`
	MaxTicksPerFrame int     `toml:"max_ticks_per_frame"`
	FrameMs          int     `toml:"frame_ms"`
	KeyHoldMs        int     `toml:"key_hold_ms"`

	// Level and Keymap are optional file paths
	Level  string `toml:"level,omitempty"`
	Keymap string `toml:"keymap,omitempty"`

	Feed  FeedConfig  `toml:"feed"`
	Audio AudioConfig `toml:"audio"`
}

// FeedConfig controls the websocket pose feed
type FeedConfig struct {
	Enabled bool   `toml:"enabled"`
	Address string `toml:"address"`
}

// AudioConfig controls contact and mode cues
type AudioConfig struct {
	Enabled bool    `toml:"enabled"`
	Volume  float64 `toml:"volume"`
}

// Default returns the compiled-in configuration
func Default() *Config {
	return &Config{
		TickHz:           parameter.TickHz,
		PlayerSpeed:      parameter.PlayerSpeed,
		SkinWidth:        parameter.SkinWidth,
		MaxBounces:       parameter.MaxBounces,
		MaxTicksPerFrame: parameter.MaxTicksPerFrame,
		FrameMs:          int(parameter.FrameUpdateInterval / time.Millisecond),
		KeyHoldMs:        int(parameter.KeyHoldWindow / time.Millisecond),
		Feed: FeedConfig{
			Address: parameter.FeedDefaultAddress,
		},
		Audio: AudioConfig{
			Volume: parameter.AudioDefaultVolume,
		},
	}
}

// Load reads path over the defaults and validates the result
// Keys absent from the file keep their default
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%s: config parse: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the simulation cannot run with
func (c *Config) Validate() error {
	switch {
	case c.TickHz <= 0:
		return fmt.Errorf("%w: tick_hz must be positive, got %d", ErrInvalid, c.TickHz)
	case c.PlayerSpeed <= 0:
		return fmt.Errorf("%w: player_speed must be positive, got %v", ErrInvalid, c.PlayerSpeed)
	case c.SkinWidth <= 0:
		return fmt.Errorf("%w: skin_width must be positive, got %v", ErrInvalid, c.SkinWidth)
	case c.MaxBounces <= 0:
		return fmt.Errorf("%w: max_bounces must be positive, got %d", ErrInvalid, c.MaxBounces)
	case c.MaxTicksPerFrame < 0:
		return fmt.Errorf("%w: max_ticks_per_frame must be zero or positive, got %d", ErrInvalid, c.MaxTicksPerFrame)
	case c.FrameMs <= 0:
		return fmt.Errorf("%w: frame_ms must be positive, got %d", ErrInvalid, c.FrameMs)
	case c.KeyHoldMs <= 0:
		return fmt.Errorf("%w: key_hold_ms must be positive, got %d", ErrInvalid, c.KeyHoldMs)
	case c.Audio.Volume < 0 || c.Audio.Volume > 1:
		return fmt.Errorf("%w: audio.volume must be within [0,1], got %v", ErrInvalid, c.Audio.Volume)
	case c.Feed.Enabled && c.Feed.Address == "":
		return fmt.Errorf("%w: feed.address required when feed is enabled", ErrInvalid)
	}
	return nil
}

// TickDuration returns the fixed simulation step
func (c *Config) TickDuration() time.Duration {
	return time.Second / time.Duration(c.TickHz)
}

// FrameInterval returns the presentation frame interval
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.FrameMs) * time.Millisecond
}

// KeyHold returns the key hold window
func (c *Config) KeyHold() time.Duration {
	return time.Duration(c.KeyHoldMs) * time.Millisecond
}

// Mover returns the sweep-and-slide tuning with config overrides applied
func (c *Config) Mover() controller.MoverConfig {
	m := controller.DefaultMoverConfig()
	m.SkinWidth = c.SkinWidth
	m.MaxBounces = c.MaxBounces
	return m
}

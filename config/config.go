// SPDX-License-Identifier: EPL-2.0

// Package config loads the audio manager settings from YAML.
package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/ik5/audmgr/effects"
	"github.com/ik5/audmgr/sound"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Volumes Volumes                        `yaml:"volumes"`
	Engine  Engine                         `yaml:"engine"`
	Presets map[string]sound.ChainTemplate `yaml:"presets,omitempty"`
	Sounds  Sounds                         `yaml:"sounds"`
	Log     Log                            `yaml:"log"`
}

type Volumes struct {
	Global float64 `yaml:"global"`
	// Categories is keyed by category name. Missing categories stay at 1.
	Categories map[string]float64 `yaml:"categories,omitempty"`
}

type Engine struct {
	SampleRate int `yaml:"sample_rate"`
	Channels   int `yaml:"channels"`
	// TickRate is the number of manager ticks per second.
	TickRate int           `yaml:"tick_rate"`
	Buffer   time.Duration `yaml:"buffer,omitempty"`
}

type Sounds struct {
	Dir   string   `yaml:"dir,omitempty"`
	Files []string `yaml:"files,omitempty"`
}

type Log struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Volumes: Volumes{Global: 1},
		Engine: Engine{
			SampleRate: 48000,
			Channels:   2,
			TickRate:   60,
		},
		Log: Log{Level: "info", Console: true},
	}
}

// Load reads and validates the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes data over Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Marshal encodes cfg as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate reports every problem in c at once.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if !unit(c.Volumes.Global) {
		bad("global volume %v outside [0,1]", c.Volumes.Global)
	}
	for _, name := range slices.Sorted(maps.Keys(c.Volumes.Categories)) {
		v := c.Volumes.Categories[name]
		if _, err := sound.ParseCategory(name); err != nil {
			bad("volume for unknown category %q", name)
		} else if !unit(v) {
			bad("%s volume %v outside [0,1]", name, v)
		}
	}

	if c.Engine.SampleRate <= 0 {
		bad("sample rate %d", c.Engine.SampleRate)
	}
	if c.Engine.Channels < 1 || c.Engine.Channels > 8 {
		bad("%d output channels", c.Engine.Channels)
	}
	if c.Engine.TickRate <= 0 {
		bad("tick rate %d", c.Engine.TickRate)
	}
	if c.Engine.Buffer < 0 {
		bad("negative buffer %v", c.Engine.Buffer)
	}

	for _, name := range slices.Sorted(maps.Keys(c.Presets)) {
		if _, err := sound.ParsePreset(name); err != nil {
			bad("unknown preset %q", name)
			continue
		}
		if err := effects.Validate(c.Presets[name]); err != nil {
			bad("preset %s: %v", name, err)
		}
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		bad("log level %q", c.Log.Level)
	}

	return errors.Join(errs...)
}

func unit(v float64) bool { return v >= 0 && v <= 1 }

// TickInterval is the time between manager ticks.
func (c Config) TickInterval() time.Duration {
	if c.Engine.TickRate <= 0 {
		return sound.DefaultTickInterval
	}

	return time.Second / time.Duration(c.Engine.TickRate)
}

// LogLevel parses Log.Level. An empty level is info.
func (c Config) LogLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil || c.Log.Level == "" {
		return zerolog.InfoLevel
	}

	return lvl
}

// PresetRegistry returns the stock presets with the configured ones
// replacing them.
func (c Config) PresetRegistry() (sound.Presets, error) {
	presets := sound.DefaultPresets()
	for name, tmpl := range c.Presets {
		p, err := sound.ParsePreset(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		presets[p] = tmpl
	}

	return presets, nil
}

// ManagerOptions turns the volume and preset sections into manager
// options.
func (c Config) ManagerOptions() ([]sound.Option, error) {
	categories := make(map[sound.Category]float64, len(c.Volumes.Categories))
	for name, v := range c.Volumes.Categories {
		cat, err := sound.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		categories[cat] = v
	}

	presets, err := c.PresetRegistry()
	if err != nil {
		return nil, err
	}

	return []sound.Option{
		sound.WithVolumes(c.Volumes.Global, categories),
		sound.WithPresets(presets),
	}, nil
}

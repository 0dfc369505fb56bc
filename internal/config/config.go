// Package config reads the TOML configuration of the swraster command.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrInvalid is returned for configuration values out of range.
var ErrInvalid = errors.New("config: invalid value")

// Config holds the command settings. Command-line flags override it.
type Config struct {
	Strategy      string  `toml:"strategy"`
	Scale         float64 `toml:"scale"`
	Tolerance     float64 `toml:"tolerance"`
	RampCacheSize int     `toml:"ramp_cache_size"`
	// MemoryBudget limits texture memory of the host device in bytes.
	// Zero means unlimited.
	MemoryBudget int64 `toml:"memory_budget"`

	Log   Log   `toml:"log"`
	Watch Watch `toml:"watch"`
}

// Log configures logging output.
type Log struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// Watch configures re-rendering on scene changes.
type Watch struct {
	DebounceMS int `toml:"debounce_ms"`
}

// Debounce returns the debounce interval.
func (w Watch) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Strategy:      "direct",
		Scale:         1,
		Tolerance:     0.1,
		RampCacheSize: 64,
		Log:           Log{Level: "info", Format: "text"},
		Watch:         Watch{DebounceMS: 300},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
// Unknown keys are rejected so that typos do not pass silently.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Parse decodes a TOML document over the defaults.
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, cfg.Validate()
}

func checkUndecoded(md toml.MetaData) error {
	keys := md.Undecoded()
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return fmt.Errorf("unknown keys %s", strings.Join(names, ", "))
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch c.Strategy {
	case "direct", "mask":
	default:
		return fmt.Errorf("%w: strategy %q", ErrInvalid, c.Strategy)
	}
	if !(c.Scale > 0) {
		return fmt.Errorf("%w: scale %v", ErrInvalid, c.Scale)
	}
	if !(c.Tolerance > 0) {
		return fmt.Errorf("%w: tolerance %v", ErrInvalid, c.Tolerance)
	}
	if c.MemoryBudget < 0 {
		return fmt.Errorf("%w: memory_budget %d", ErrInvalid, c.MemoryBudget)
	}
	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("%w: debounce_ms %d", ErrInvalid, c.Watch.DebounceMS)
	}
	return nil
}

// Write encodes c as TOML.
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

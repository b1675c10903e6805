package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/dreamware/largemap/pkg/largemap"
)

// DefaultEnvPrefix is the environment variable prefix.
const DefaultEnvPrefix = "LARGEMAP_"

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config holds the settings of a load run.
type Config struct {
	Limit       int    `koanf:"limit" yaml:"limit" json:"limit"`                      // Per-shard capacity
	Keys        int    `koanf:"keys" yaml:"keys" json:"keys"`                         // Synthetic keys to insert when Input is empty
	DeleteEvery int    `koanf:"delete_every" yaml:"delete_every" json:"delete_every"` // Delete every Nth inserted key; 0 disables
	Seed        uint64 `koanf:"seed" yaml:"seed" json:"seed"`                         // Key generator seed
	Input       string `koanf:"input" yaml:"input" json:"input"`                      // File with one key per line; "-" is stdin
	Output      string `koanf:"output" yaml:"output" json:"output"`                   // text, json or yaml
	Metrics     bool   `koanf:"metrics" yaml:"metrics" json:"metrics"`                // Append Prometheus text exposition
	LogLevel    string `koanf:"log_level" yaml:"log_level" json:"log_level"`          // hclog level name
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Limit:    largemap.DefaultLimit,
		Keys:     100000,
		Output:   "text",
		LogLevel: "info",
	}
}

// Validate checks that the configuration can drive a run.
func (c Config) Validate() error {
	var errs []error
	if c.Limit <= 0 {
		errs = append(errs, fmt.Errorf("limit must be positive, got %d", c.Limit))
	}
	if c.Keys < 0 {
		errs = append(errs, fmt.Errorf("keys must not be negative, got %d", c.Keys))
	}
	if c.DeleteEvery < 0 {
		errs = append(errs, fmt.Errorf("delete_every must not be negative, got %d", c.DeleteEvery))
	}
	switch c.Output {
	case "text", "json", "yaml":
	default:
		errs = append(errs, fmt.Errorf("unknown output format %q", c.Output))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Loader loads configuration from multiple sources.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
}

// Option is a function that configures the Loader.
type Option func(*Loader)

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithConfigFile sets the configuration file path.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

// NewLoader creates a new configuration loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		envPrefix: DefaultEnvPrefix,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the file (if any) and the environment, applies overrides and
// returns the merged, validated configuration. Keys absent from every source
// keep their Default value.
func (l *Loader) Load(overrides map[string]any) (Config, error) {
	if l.filePath != "" {
		if err := l.k.Load(file.Provider(l.filePath), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load file %s: %w", l.filePath, err)
		}
	}

	// LARGEMAP_DELETE_EVERY -> delete_every
	transform := func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, l.envPrefix))
	}
	if err := l.k.Load(env.Provider(l.envPrefix, ".", transform), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	if len(overrides) > 0 {
		if err := l.k.Load(mapProvider(overrides), nil); err != nil {
			return Config{}, fmt.Errorf("load overrides: %w", err)
		}
	}

	cfg := Default()
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// mapProvider is a koanf provider over an in-memory map.
type mapProvider map[string]any

// ReadBytes is not supported; koanf falls back to Read.
func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("config: map provider does not support ReadBytes")
}

// Read returns the map.
func (m mapProvider) Read() (map[string]any, error) {
	return m, nil
}

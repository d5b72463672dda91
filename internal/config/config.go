// Package config implements the strata.yaml project file.
//
// The file is optional. When present it sets project-wide defaults the
// command line can override: output style, extra include directories,
// cache and color toggles.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level strata.yaml configuration.
type Config struct {
	// Style selects the output format: "nested" or "compressed".
	// Defaults to nested.
	Style string `yaml:"style,omitempty"`

	// IncludePaths are extra directories scanned for source files,
	// relative to the config file.
	IncludePaths []string `yaml:"include_paths,omitempty"`

	// Cache toggles the compile cache. Defaults to on; set to false to
	// force every build to recompile.
	Cache *bool `yaml:"cache,omitempty"`

	// Color controls diagnostic coloring: "auto", "always" or "never".
	// Defaults to auto (color when stderr is a terminal).
	Color string `yaml:"color,omitempty"`
}

// Default returns the configuration used when no project file exists.
func Default() *Config {
	return &Config{Style: DefaultStyle, Color: "auto"}
}

// CacheEnabled reports the cache toggle with its default applied.
func (c *Config) CacheEnabled() bool {
	return c.Cache == nil || *c.Cache
}

// Load reads and parses a strata.yaml file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses strata.yaml content from bytes. The path argument is used
// only for error messages.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// Discover searches for a project file starting from dir and walking up
// to parent directories. Returns the path if found, or empty string and
// nil error if no project file exists.
func Discover(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range []string{ConfigFileName, ConfigFileAlt} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (c *Config) validate(path string) error {
	switch c.Style {
	case "", "nested", "compressed":
	default:
		return fmt.Errorf("%s: unsupported style %q (want nested or compressed)", path, c.Style)
	}
	switch c.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("%s: unsupported color mode %q (want auto, always or never)", path, c.Color)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Style == "" {
		c.Style = DefaultStyle
	}
	if c.Color == "" {
		c.Color = "auto"
	}
}

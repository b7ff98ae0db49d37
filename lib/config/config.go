// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/onelo-foundation/onelo/lib/compress"
	"github.com/onelo-foundation/onelo/lib/source"
)

// EnvironmentVariable names the variable [Load] reads.
const EnvironmentVariable = "ONELO_CONFIG"

// Config is the onelo configuration file.
type Config struct {
	// Cache configures the SQLite cache database.
	Cache CacheConfig `yaml:"cache"`

	// Sources lists the note trees to index, in build order.
	Sources []SourceConfig `yaml:"sources"`

	// Build tunes the build driver.
	Build BuildConfig `yaml:"build"`

	// Log configures the command logger.
	Log LogConfig `yaml:"log"`
}

// CacheConfig configures the cache database.
type CacheConfig struct {
	// Path is the database file. ":memory:" keeps the cache in memory
	// for the lifetime of one command, which is only useful in tests.
	// Default: ${HOME}/.cache/onelo/cache.db
	Path string `yaml:"path"`

	// Compression is the blob compression policy: auto, none, lz4 or
	// zstd. Default: auto
	Compression string `yaml:"compression"`
}

// SourceConfig is one named note tree.
type SourceConfig struct {
	// ID is the source identifier used in qualified names. Must not
	// contain ':'. May be empty for a single unnamed source.
	ID string `yaml:"id"`

	// Route is the directory holding the notes.
	Route string `yaml:"route"`
}

// BuildConfig tunes the build driver.
type BuildConfig struct {
	// Prune deletes entries whose files disappeared, and content no
	// entry references any more. Default: false (removals are only
	// counted).
	Prune bool `yaml:"prune"`

	// Shallow indexes only the top level of each route.
	Shallow bool `yaml:"shallow"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn or error. Default: info
	Level string `yaml:"level"`

	// Format is auto, text or json. auto picks text on a terminal and
	// json otherwise. Default: auto
	Format string `yaml:"format"`
}

// Default returns the configuration used before a file is applied.
func Default() *Config {
	return &Config{
		Cache: CacheConfig{
			Path:        filepath.Join("${HOME}", ".cache", "onelo", "cache.db"),
			Compression: "auto",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Load loads configuration from the file named by ONELO_CONFIG.
//
// There is no fallback: if the variable is unset this fails, so a
// command never silently runs against an unexpected cache.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your onelo.yaml config file, or use --config flag", EnvironmentVariable)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	absolute, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}
	cfg.Resolve(filepath.Dir(absolute))
	return cfg, nil
}

// Resolve expands variables in path fields and anchors relative paths
// at base. [LoadFile] calls it with the config file's directory; flag
// overrides are resolved against the working directory by the caller.
func (c *Config) Resolve(base string) {
	vars := map[string]string{
		"CONFIG_DIR": base,
		"HOME":       os.Getenv("HOME"),
	}

	c.Cache.Path = resolvePath(expandVars(c.Cache.Path, vars), base)
	for i := range c.Sources {
		c.Sources[i].Route = resolvePath(expandVars(c.Sources[i].Route, vars), base)
	}
}

func resolvePath(path, base string) string {
	if path == "" || path == ":memory:" || filepath.IsAbs(path) || strings.HasPrefix(path, "file:") {
		return path
	}
	return filepath.Join(base, path)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// SourceIDs parses the configured source ids in order.
func (c *Config) SourceIDs() ([]source.ID, error) {
	ids := make([]source.ID, 0, len(c.Sources))
	for i, entry := range c.Sources {
		id, err := source.ParseID(entry.ID)
		if err != nil {
			return nil, fmt.Errorf("sources[%d].id: %w", i, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// CompressionPolicy parses Cache.Compression.
func (c *Config) CompressionPolicy() (compress.Policy, error) {
	policy, err := compress.ParsePolicy(c.Cache.Compression)
	if err != nil {
		return compress.Policy{}, fmt.Errorf("cache.compression: %w", err)
	}
	return policy, nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.Cache.Path == "" {
		errs = append(errs, fmt.Errorf("cache.path is required"))
	}
	if _, err := c.CompressionPolicy(); err != nil {
		errs = append(errs, err)
	}

	seen := make(map[string]int, len(c.Sources))
	for i, entry := range c.Sources {
		if _, err := source.ParseID(entry.ID); err != nil {
			errs = append(errs, fmt.Errorf("sources[%d].id: %w", i, err))
		}
		if entry.Route == "" {
			errs = append(errs, fmt.Errorf("sources[%d].route is required", i))
		}
		if previous, ok := seen[entry.ID]; ok {
			errs = append(errs, fmt.Errorf("sources[%d].id %q duplicates sources[%d]", i, entry.ID, previous))
			continue
		}
		seen[entry.ID] = i
	}

	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	formats := []string{"auto", "text", "json"}
	if !contains(formats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be one of: %v", formats))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// EnsureCacheDir creates the directory holding the cache file.
func (c *Config) EnsureCacheDir() error {
	if c.Cache.Path == ":memory:" || strings.HasPrefix(c.Cache.Path, "file:") {
		return nil
	}
	directory := filepath.Dir(c.Cache.Path)
	if err := os.MkdirAll(directory, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", directory, err)
	}
	return nil
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}

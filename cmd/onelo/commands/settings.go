// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/onelo-foundation/onelo/cmd/onelo/cli"
	"github.com/onelo-foundation/onelo/lib/config"
)

// CacheParams are the flags shared by every command that touches the
// cache. Non-empty values override the configuration file.
type CacheParams struct {
	Config      string `json:"config"      flag:"config"      desc:"config file (default: $ONELO_CONFIG)"`
	Cache       string `json:"cache"       flag:"cache"       desc:"cache database path"`
	Compression string `json:"compression" flag:"compression" desc:"blob compression: auto, none, lz4 or zstd"`
	cli.LogParams
}

// SourceFlags binds the repeatable --source flag. A value is
// "id=route"; a bare route names the unnamed source.
type SourceFlags struct {
	Pairs []string
}

// AddFlags implements [cli.FlagBinder]. StringArray keeps commas inside
// routes intact.
func (s *SourceFlags) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringArrayVar(&s.Pairs, "source", nil, "source to index as id=route (repeatable, replaces configured sources)")
}

func (s *SourceFlags) sources() []config.SourceConfig {
	var sources []config.SourceConfig
	for _, pair := range s.Pairs {
		id, route, found := strings.Cut(pair, "=")
		if !found {
			id, route = "", pair
		}
		sources = append(sources, config.SourceConfig{ID: id, Route: route})
	}
	return sources
}

// load reads the configuration, applies flag overrides and validates
// the result. The file is --config if given, else $ONELO_CONFIG if set,
// else the defaults. Relative paths from flags resolve against the
// working directory.
func (p *CacheParams) load(overrides ...func(*config.Config)) (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case p.Config != "":
		cfg, err = config.LoadFile(p.Config)
	case os.Getenv(config.EnvironmentVariable) != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
	}
	if err != nil {
		return nil, err
	}

	if p.Cache != "" {
		cfg.Cache.Path = p.Cache
	}
	if p.Compression != "" {
		cfg.Cache.Compression = p.Compression
	}
	if p.Level != "" {
		cfg.Log.Level = p.Level
	}
	if p.Format != "" {
		cfg.Log.Format = p.Format
	}
	for _, override := range overrides {
		override(cfg)
	}

	workingDirectory, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}
	// Paths from the file are already absolute, so this only anchors
	// defaults and flag values.
	cfg.Resolve(workingDirectory)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration:\n%w", err)
	}
	return cfg, nil
}

// commandLogger builds the command logger described by cfg.
func commandLogger(cfg *config.Config, stderr io.Writer, command string) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	logger, err := cli.NewCommandLogger(stderr, level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	return logger.With("command", command), nil
}

// existingCache fails early with a hint when the cache file has not
// been created by a build yet.
func existingCache(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no cache at %s (run 'onelo build' first)", filepath.Clean(path))
		}
		return err
	}
	return nil
}

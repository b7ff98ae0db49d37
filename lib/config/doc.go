// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the YAML configuration for onelo.
//
// Configuration comes from a single file named either by the
// ONELO_CONFIG environment variable (via [Load]) or by a --config flag
// (via [LoadFile]). There is no discovery and no search path. Command
// line flags override file values after loading; nothing else does.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${CONFIG_DIR} (the directory holding the file) and
// ${VAR:-default} patterns are expanded. Relative source routes and a
// relative cache path are resolved against the config file's
// directory so a config behaves the same from any working directory.
//
// Key exports:
//
//   - [Config] -- cache, sources and log sections
//   - [Default] -- a Config with an empty source list
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Config.Validate] -- checks ids, routes and enum fields
package config

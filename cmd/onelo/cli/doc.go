// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the onelo CLI.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a parameter struct or
// [pflag.FlagSet] factory, and a Run function. Commands are assembled
// into a tree in cmd/onelo/commands and dispatched via [Command.Execute],
// which handles flag parsing, subcommand routing, and structured help
// output with examples.
//
// Parameters are declared as tagged struct fields and bound to pflag by
// [FlagsFromParams]; see [BindFlags] for the tag syntax. [JSONOutput]
// adds a --json flag to any parameter struct.
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3). This is implemented in
// suggest.go.
//
// [NewCommandLogger] builds the slog logger every command uses: text on
// a terminal, JSON otherwise.
package cli

// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the onelo command tree. main wires it to the
// process streams; tests wire it to buffers.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/onelo-foundation/onelo/cmd/onelo/cli"
	"github.com/onelo-foundation/onelo/lib/version"
)

// Root builds the complete onelo command tree. Command output goes to
// stdout; logs and help go to stderr.
func Root(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name: "onelo",
		Description: `onelo: content-addressed note cache.

Indexes trees of markdown notes into a SQLite cache keyed by BLAKE3
checksums. Unchanged files are detected by checksum and skipped, so
rebuilding a large tree only reparses what changed.`,
		Subcommands: []*cli.Command{
			buildCommand(stdout, stderr),
			statusCommand(stdout, stderr),
			showCommand(stdout, stderr),
			checksumCommand(stdout),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string) error {
					if len(args) > 0 {
						return fmt.Errorf("unexpected argument %q", args[0])
					}
					_, err := fmt.Fprintf(stdout, "onelo %s\n", version.Full())
					return err
				},
			},
		},
		Stderr: stderr,
	}
}

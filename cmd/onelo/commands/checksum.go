// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/onelo-foundation/onelo/cmd/onelo/cli"
	"github.com/onelo-foundation/onelo/lib/checksum"
)

type checksumParams struct {
	cli.JSONOutput
}

type fileChecksum struct {
	Path     string            `json:"path"`
	Checksum checksum.Checksum `json:"checksum"`
}

func checksumCommand(stdout io.Writer) *cli.Command {
	var params checksumParams

	return &cli.Command{
		Name:    "checksum",
		Summary: "Print the content checksum of files",
		Description: `Hash each file the way the cache keys content and print
"<checksum>  <path>". The output of a file matches the content id
'onelo show' accepts.`,
		Usage: "onelo checksum <file>... [flags]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("checksum requires at least one file")
			}
			results := make([]fileChecksum, 0, len(args))
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				results = append(results, fileChecksum{Path: path, Checksum: checksum.New(data)})
			}

			if done, err := params.EmitJSON(stdout, results); done {
				return err
			}
			for _, result := range results {
				if _, err := fmt.Fprintf(stdout, "%s  %s\n", result.Checksum, result.Path); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

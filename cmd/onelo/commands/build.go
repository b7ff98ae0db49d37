// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/onelo-foundation/onelo/cmd/onelo/cli"
	"github.com/onelo-foundation/onelo/lib/build"
	"github.com/onelo-foundation/onelo/lib/clock"
	"github.com/onelo-foundation/onelo/lib/config"
)

type buildParams struct {
	CacheParams
	SourceFlags
	cli.JSONOutput
	Prune   bool `json:"prune"   flag:"prune"   desc:"delete entries whose files are gone and unreferenced content"`
	Shallow bool `json:"shallow" flag:"shallow" desc:"index only the top level of each source"`
}

func buildCommand(stdout, stderr io.Writer) *cli.Command {
	var params buildParams

	return &cli.Command{
		Name:    "build",
		Summary: "Index note sources into the cache",
		Description: `Walk every configured source, hash each markdown file and store new or
changed content in the cache. Files whose checksum matches the cached
entry are skipped without parsing.

Files that cannot be named, read or parsed are logged and counted as
failed; the build continues. The exit code is 2 when any file failed.`,
		Usage: "onelo build [flags]",
		Examples: []cli.Example{
			{
				Description: "Build from the configuration file",
				Command:     "onelo build --config ~/notes/onelo.yaml",
			},
			{
				Description: "Build two sources into a local cache",
				Command:     "onelo build --cache ./cache.db --source docs=./docs --source wiki=./wiki",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}

			cfg, err := params.load(func(cfg *config.Config) {
				if len(params.Pairs) > 0 {
					cfg.Sources = params.sources()
				}
				cfg.Build.Prune = cfg.Build.Prune || params.Prune
				cfg.Build.Shallow = cfg.Build.Shallow || params.Shallow
			})
			if err != nil {
				return err
			}
			logger, err := commandLogger(cfg, stderr, "build")
			if err != nil {
				return err
			}

			ids, err := cfg.SourceIDs()
			if err != nil {
				return err
			}
			specs := make([]build.Spec, len(ids))
			for i, id := range ids {
				specs[i] = build.Spec{ID: id, Route: cfg.Sources[i].Route}
			}
			policy, err := cfg.CompressionPolicy()
			if err != nil {
				return err
			}
			if err := cfg.EnsureCacheDir(); err != nil {
				return err
			}

			report, err := build.Run(ctx, build.RunConfig{
				CachePath:   cfg.Cache.Path,
				Compression: policy,
				Sources:     specs,
				Prune:       cfg.Build.Prune,
				Shallow:     cfg.Build.Shallow,
				Logger:      logger,
				Clock:       clock.Real(),
			})
			if err != nil {
				return err
			}

			done, err := params.EmitJSON(stdout, report)
			if err != nil {
				return err
			}
			if !done {
				printReport(stdout, report)
			}

			if report.Counts.Failed > 0 {
				return &cli.ExitError{Code: 2}
			}
			return nil
		},
	}
}

func printReport(w io.Writer, report build.Report) {
	for _, sourceReport := range report.Sources {
		name := sourceReport.ID.String()
		if name == "" {
			name = "(unnamed)"
		}
		counts := sourceReport.Counts
		fmt.Fprintf(w, "%s: %s files parsed (%d added, %d changed, %d unchanged, %d removed, %d failed)\n",
			name, humanize.Comma(int64(counts.Files())),
			counts.Added, counts.Changed, counts.Unchanged, counts.Removed, counts.Failed)
		fmt.Fprintf(w, "  tree %s\n", sourceReport.Tree)
	}
	if report.PrunedBlobs > 0 {
		fmt.Fprintf(w, "pruned %d unreferenced blobs\n", report.PrunedBlobs)
	}
	fmt.Fprintf(w, "%s files parsed in %s (run %s)\n",
		humanize.Comma(int64(report.Counts.Files())),
		report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond), report.RunID)
}

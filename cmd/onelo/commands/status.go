// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/onelo-foundation/onelo/cmd/onelo/cli"
	"github.com/onelo-foundation/onelo/lib/cache"
	"github.com/onelo-foundation/onelo/lib/source"
)

type statusParams struct {
	CacheParams
	cli.JSONOutput
	Source string `json:"source" flag:"source" desc:"show only this source"`
	Runs   int    `json:"runs"   flag:"runs"   desc:"number of recent builds to list" default:"5"`
}

type statusResult struct {
	Cache   string         `json:"cache"`
	Stats   cache.Stats    `json:"stats"`
	Sources []sourceStatus `json:"sources"`
	Runs    []runStatus    `json:"runs"`
}

type sourceStatus struct {
	ID        string    `json:"id"`
	Route     string    `json:"route"`
	Tree      string    `json:"tree,omitempty"`
	Entries   int       `json:"entries"`
	UpdatedAt time.Time `json:"updated_at"`
}

type runStatus struct {
	ID         string    `json:"id"`
	Version    string    `json:"version"`
	Commit     string    `json:"commit"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Added      int       `json:"added"`
	Changed    int       `json:"changed"`
	Unchanged  int       `json:"unchanged"`
	Removed    int       `json:"removed"`
	Failed     int       `json:"failed"`
}

func statusCommand(stdout, stderr io.Writer) *cli.Command {
	var params statusParams

	return &cli.Command{
		Name:    "status",
		Summary: "Summarize the cache contents",
		Description: `Show what the cache holds: per-source entry counts and tree checksums,
blob storage totals, and the most recent builds. Reads through a
read-only connection pool. It may run during a build; the build's
final disconnect waits for it to finish.`,
		Usage: "onelo status [flags]",
		Examples: []cli.Example{
			{
				Description: "Summarize one source as JSON",
				Command:     "onelo status --source docs --json",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			cfg, err := params.load()
			if err != nil {
				return err
			}
			logger, err := commandLogger(cfg, stderr, "status")
			if err != nil {
				return err
			}
			if err := existingCache(cfg.Cache.Path); err != nil {
				return err
			}

			reader, err := cache.OpenReader(cache.ReaderConfig{Path: cfg.Cache.Path, Logger: logger})
			if err != nil {
				return err
			}
			result, err := collectStatus(ctx, reader, cfg.Cache.Path, params.Source, params.Runs)
			err = errors.Join(err, reader.Close())
			if err != nil {
				return err
			}

			if done, err := params.EmitJSON(stdout, result); done {
				return err
			}
			printStatus(stdout, result)
			return nil
		},
	}
}

func collectStatus(ctx context.Context, reader *cache.Reader, path, only string, runLimit int) (statusResult, error) {
	result := statusResult{Cache: path}

	stats, err := reader.Stats(ctx)
	if err != nil {
		return statusResult{}, err
	}
	result.Stats = stats

	sources, err := reader.Sources(ctx)
	if err != nil {
		return statusResult{}, err
	}
	found := only == ""
	for _, src := range sources {
		if only != "" && src.ID().String() != only {
			continue
		}
		found = true
		entries, err := reader.Entries(ctx, src.ID())
		if err != nil {
			return statusResult{}, err
		}
		status := sourceStatus{
			ID:        src.ID().String(),
			Route:     src.Route(),
			Entries:   len(entries),
			UpdatedAt: src.Timestamp(),
		}
		if tree, ok := src.Tree(); ok {
			status.Tree = tree.String()
		}
		result.Sources = append(result.Sources, status)
	}
	if !found {
		if _, err := source.ParseID(only); err != nil {
			return statusResult{}, err
		}
		return statusResult{}, fmt.Errorf("source %q is not in the cache", only)
	}

	if runLimit > 0 {
		runs, err := reader.Runs(ctx, runLimit)
		if err != nil {
			return statusResult{}, err
		}
		for _, run := range runs {
			result.Runs = append(result.Runs, runStatus(run))
		}
	}
	return result, nil
}

func printStatus(w io.Writer, result statusResult) {
	fmt.Fprintf(w, "cache %s\n", result.Cache)
	fmt.Fprintf(w, "  %s entries in %d sources, %s blobs, %s links\n",
		humanize.Comma(int64(result.Stats.Entries)), result.Stats.Sources,
		humanize.Comma(int64(result.Stats.Blobs)), humanize.Comma(int64(result.Stats.Links)))
	fmt.Fprintf(w, "  content %s, stored %s\n",
		humanize.Bytes(uint64(result.Stats.ContentBytes)), humanize.Bytes(uint64(result.Stats.StoredBytes)))

	if len(result.Sources) > 0 {
		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SOURCE\tENTRIES\tUPDATED\tROUTE")
		for _, src := range result.Sources {
			name := src.ID
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", name, src.Entries, humanize.Time(src.UpdatedAt), src.Route)
		}
		tw.Flush()
	}

	if len(result.Runs) > 0 {
		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "RUN\tFINISHED\tVERSION\tADDED\tCHANGED\tUNCHANGED\tREMOVED\tFAILED")
		for _, run := range result.Runs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
				run.ID, humanize.Time(run.FinishedAt), run.Version,
				run.Added, run.Changed, run.Unchanged, run.Removed, run.Failed)
		}
		tw.Flush()
	}
}

// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/onelo-foundation/onelo/cmd/onelo/cli"
	"github.com/onelo-foundation/onelo/lib/cache"
	"github.com/onelo-foundation/onelo/lib/checksum"
	"github.com/onelo-foundation/onelo/lib/codec"
	"github.com/onelo-foundation/onelo/lib/content"
	"github.com/onelo-foundation/onelo/lib/source"
)

type showParams struct {
	CacheParams
	cli.JSONOutput
	Raw bool `json:"raw" flag:"raw" desc:"write the stored content bytes and nothing else"`
}

type showResult struct {
	Entry       string         `json:"entry,omitempty"`
	ContentType string         `json:"content_type,omitempty"`
	Content     string         `json:"content"`
	Size        int            `json:"size"`
	UpdatedAt   *time.Time     `json:"updated_at,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	LinksTo     []string       `json:"links_to,omitempty"`
	LinkedFrom  []string       `json:"linked_from,omitempty"`

	// Entries lists every entry sharing the content. Only set when the
	// lookup was by checksum.
	Entries []string `json:"entries,omitempty"`
}

func showCommand(stdout, stderr io.Writer) *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "show",
		Summary: "Show a cached entry or blob",
		Description: `Look up an entry by qualified id ("source:path", ":path" for the
unnamed source) or a blob by checksum. Entries print their content
checksum, frontmatter metadata and links; blobs print every entry
that shares them. --raw writes the stored bytes instead.`,
		Usage: "onelo show <source:path | checksum> [flags]",
		Examples: []cli.Example{
			{
				Description: "Show an entry and its links",
				Command:     "onelo show docs:guide/intro.md",
			},
			{
				Description: "Print a blob",
				Command:     "onelo show 1e20cabe0427e7fdaa13ec1d49de58a6179a2ecb6dd6fd674261421949fab0acc525 --raw",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("show takes exactly one entry id or checksum, got %d arguments", len(args))
			}
			cfg, err := params.load()
			if err != nil {
				return err
			}
			logger, err := commandLogger(cfg, stderr, "show")
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
			result, blob, err := lookup(ctx, reader, args[0])
			err = errors.Join(err, reader.Close())
			if err != nil {
				return err
			}

			if params.Raw {
				_, err := stdout.Write(blob.Blob())
				return err
			}
			if done, err := params.EmitJSON(stdout, result); done {
				return err
			}
			return printShow(stdout, result)
		},
	}
}

// lookup resolves target as a checksum first. A qualified id can never
// parse as one because ':' is not a hex digit.
func lookup(ctx context.Context, reader *cache.Reader, target string) (showResult, content.Content, error) {
	if sum, err := checksum.Parse(target); err == nil {
		return lookupContent(ctx, reader, sum)
	}
	entry, err := source.ParseEntry(target)
	if err != nil {
		return showResult{}, content.Content{}, fmt.Errorf("%q is neither a checksum nor an entry id: %w", target, err)
	}
	return lookupEntry(ctx, reader, entry.QualifiedID())
}

func lookupContent(ctx context.Context, reader *cache.Reader, sum checksum.Checksum) (showResult, content.Content, error) {
	blob, err := reader.Content(ctx, sum)
	if errors.Is(err, cache.ErrNotFound) {
		return showResult{}, content.Content{}, fmt.Errorf("no content %s in the cache", sum)
	}
	if err != nil {
		return showResult{}, content.Content{}, err
	}
	records, err := reader.EntriesByContent(ctx, sum)
	if err != nil {
		return showResult{}, content.Content{}, err
	}

	result := showResult{Content: sum.String(), Size: blob.Len()}
	for _, record := range records {
		result.Entries = append(result.Entries, record.Entry.QualifiedID())
	}
	return result, blob, nil
}

func lookupEntry(ctx context.Context, reader *cache.Reader, qualifiedID string) (showResult, content.Content, error) {
	record, err := reader.Entry(ctx, qualifiedID)
	if errors.Is(err, cache.ErrNotFound) {
		return showResult{}, content.Content{}, fmt.Errorf("no entry %s in the cache", qualifiedID)
	}
	if err != nil {
		return showResult{}, content.Content{}, err
	}
	sum, ok := record.Entry.ContentID()
	if !ok {
		return showResult{}, content.Content{}, fmt.Errorf("entry %s has no content", qualifiedID)
	}
	blob, err := reader.Content(ctx, sum)
	if err != nil {
		return showResult{}, content.Content{}, err
	}
	linksTo, linkedFrom, err := reader.Links(ctx, qualifiedID)
	if err != nil {
		return showResult{}, content.Content{}, err
	}

	updatedAt := record.UpdatedAt
	return showResult{
		Entry:       qualifiedID,
		ContentType: record.Entry.ContentType().String(),
		Content:     sum.String(),
		Size:        blob.Len(),
		UpdatedAt:   &updatedAt,
		Metadata:    record.Metadata,
		LinksTo:     linksTo,
		LinkedFrom:  linkedFrom,
	}, blob, nil
}

func printShow(w io.Writer, result showResult) error {
	if result.Entry != "" {
		fmt.Fprintf(w, "entry    %s\n", result.Entry)
		fmt.Fprintf(w, "type     %s\n", result.ContentType)
	}
	fmt.Fprintf(w, "content  %s\n", result.Content)
	fmt.Fprintf(w, "size     %s\n", humanize.Bytes(uint64(result.Size)))
	if result.UpdatedAt != nil {
		fmt.Fprintf(w, "updated  %s\n", result.UpdatedAt.Format(time.RFC3339))
	}
	if result.Metadata != nil {
		encoded, err := codec.Marshal(result.Metadata)
		if err != nil {
			return fmt.Errorf("encoding metadata: %w", err)
		}
		diagnostic, err := codec.Diagnose(encoded)
		if err != nil {
			return fmt.Errorf("formatting metadata: %w", err)
		}
		fmt.Fprintf(w, "metadata %s\n", diagnostic)
	}
	printList(w, "links to", result.LinksTo)
	printList(w, "linked from", result.LinkedFrom)
	printList(w, "entries", result.Entries)
	return nil
}

func printList(w io.Writer, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n  %s\n", label, strings.Join(items, "\n  "))
}

// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package build

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/onelo-foundation/onelo/lib/cache"
	"github.com/onelo-foundation/onelo/lib/checksum"
	"github.com/onelo-foundation/onelo/lib/clock"
	"github.com/onelo-foundation/onelo/lib/content"
	"github.com/onelo-foundation/onelo/lib/markdown"
	"github.com/onelo-foundation/onelo/lib/scan"
	"github.com/onelo-foundation/onelo/lib/source"
)

// Spec names one source to index.
type Spec struct {
	ID    source.ID
	Route string
}

// Options tunes a Builder.
type Options struct {
	// Logger receives per-source summaries and per-file warnings. If
	// nil, a no-op logger is used.
	Logger *slog.Logger

	// Clock stamps sources and the run. If nil, the real clock is used.
	Clock clock.Clock

	// Prune deletes entries whose file disappeared and then blobs no
	// entry references.
	Prune bool

	// Shallow indexes only the top level of each route.
	Shallow bool
}

// Builder indexes sources into a bootstrapped store. It is not safe
// for concurrent use.
type Builder struct {
	store   *cache.Store
	logger  *slog.Logger
	clock   clock.Clock
	prune   bool
	shallow bool
}

// NewBuilder returns a Builder writing to store.
func NewBuilder(store *cache.Store, options Options) *Builder {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Builder{
		store:   store,
		logger:  logger,
		clock:   clock.OrReal(options.Clock),
		prune:   options.Prune,
		shallow: options.Shallow,
	}
}

// Build indexes specs in order and records the run. Source IDs must be
// unique. Links are kept only when they point into one of specs.
func (b *Builder) Build(ctx context.Context, buildContext Context, specs []Spec) (Report, error) {
	registered := make(map[source.ID]bool, len(specs))
	for _, spec := range specs {
		if registered[spec.ID] {
			return Report{}, fmt.Errorf("source %q listed twice", spec.ID)
		}
		registered[spec.ID] = true
	}

	report := Report{
		RunID:     buildContext.RunID,
		StartedAt: buildContext.Created,
		Sources:   make([]SourceReport, 0, len(specs)),
	}

	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		sourceReport, err := b.buildSource(ctx, spec, registered)
		if err != nil {
			return report, fmt.Errorf("source %q: %w", spec.ID, err)
		}
		report.Sources = append(report.Sources, sourceReport)
		report.Counts.add(sourceReport.Counts)
	}

	if b.prune {
		pruned, err := b.store.PruneContent()
		if err != nil {
			return report, err
		}
		report.PrunedBlobs = pruned
		if pruned > 0 {
			b.logger.Info("pruned unreferenced content", "blobs", pruned)
		}
	}

	report.FinishedAt = b.clock.Now()
	err := b.store.RecordRun(cache.Run{
		ID:         buildContext.RunID,
		Version:    buildContext.Version.Version,
		Commit:     buildContext.Version.Commit,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Added:      report.Counts.Added,
		Changed:    report.Counts.Changed,
		Unchanged:  report.Counts.Unchanged,
		Removed:    report.Counts.Removed,
		Failed:     report.Counts.Failed,
	})
	if err != nil {
		return report, err
	}

	b.logger.Info("build finished",
		"run", report.RunID,
		"sources", len(report.Sources),
		"files", report.Counts.Files(),
		"added", report.Counts.Added,
		"changed", report.Counts.Changed,
		"unchanged", report.Counts.Unchanged,
		"removed", report.Counts.Removed,
		"failed", report.Counts.Failed,
		"duration", clock.Since(b.clock, report.StartedAt),
	)
	return report, nil
}

func (b *Builder) buildSource(ctx context.Context, spec Spec, registered map[source.ID]bool) (SourceReport, error) {
	src := source.New(spec.ID, spec.Route, b.clock)
	paths, err := scan.Dir(ctx, src.Route(), scan.Options{Shallow: b.shallow})
	if err != nil {
		return SourceReport{}, err
	}

	previous, err := b.store.EntriesBySource(spec.ID)
	if err != nil {
		return SourceReport{}, err
	}
	cached := make(map[string]checksum.Checksum, len(previous))
	for _, record := range previous {
		id, _ := record.Entry.ContentID()
		cached[record.Entry.QualifiedID()] = id
	}

	report := SourceReport{ID: spec.ID, Route: src.Route()}
	err = b.store.Transaction(func() error {
		if err := b.store.PutSource(src); err != nil {
			return err
		}

		indexed := make(map[string]checksum.Checksum, len(paths))
		for _, path := range paths {
			if err := ctx.Err(); err != nil {
				return err
			}
			entry, outcome, err := b.indexFile(src, path, cached, registered)
			if err != nil {
				return err
			}
			switch outcome {
			case outcomeFailed:
				report.Counts.Failed++
				// The file is still there, so its old row stays.
				if id, ok := cached[entry.QualifiedID()]; ok && entry.Path() != "" {
					indexed[entry.QualifiedID()] = id
					delete(cached, entry.QualifiedID())
				}
				continue
			case outcomeAdded:
				report.Counts.Added++
			case outcomeChanged:
				report.Counts.Changed++
			case outcomeUnchanged:
				report.Counts.Unchanged++
			}
			id, _ := entry.ContentID()
			indexed[entry.QualifiedID()] = id
			delete(cached, entry.QualifiedID())
		}

		for qualifiedID, id := range cached {
			report.Counts.Removed++
			if !b.prune {
				indexed[qualifiedID] = id
				continue
			}
			if _, err := b.store.DeleteEntry(qualifiedID); err != nil {
				return err
			}
			b.logger.Debug("entry removed", "entry", qualifiedID)
		}

		report.Tree = TreeChecksum(indexed)
		src.Refresh(report.Tree, b.clock)
		return b.store.PutSource(src)
	})
	if err != nil {
		return SourceReport{}, err
	}

	b.logger.Info("source indexed",
		"source", spec.ID.String(),
		"route", report.Route,
		"tree", report.Tree.String(),
		"files", report.Counts.Files(),
		"added", report.Counts.Added,
		"changed", report.Counts.Changed,
		"unchanged", report.Counts.Unchanged,
		"removed", report.Counts.Removed,
		"failed", report.Counts.Failed,
	)
	return report, nil
}

type outcome int

const (
	outcomeFailed outcome = iota
	outcomeAdded
	outcomeChanged
	outcomeUnchanged
)

// indexFile hashes one file and, unless its checksum matches the
// cached one, stores its content, entry row and links. The returned
// error is reserved for cache failures, which abort the source; file
// problems are logged and reported as outcomeFailed.
func (b *Builder) indexFile(src source.Source, path string, cached map[string]checksum.Checksum, registered map[source.ID]bool) (source.Entry, outcome, error) {
	entry, err := source.NewEntry(src.ID(), path)
	if err != nil {
		b.logger.Warn("skipping file", "source", src.ID().String(), "path", path, "error", err)
		return source.Entry{}, outcomeFailed, nil
	}

	data, err := os.ReadFile(src.Path(path))
	if err != nil {
		b.logger.Warn("skipping file", "entry", entry.QualifiedID(), "error", err)
		return entry, outcomeFailed, nil
	}
	blob := content.New(data)
	entry = entry.WithContent(blob.ID())

	previous, known := cached[entry.QualifiedID()]
	if known && previous == blob.ID() {
		return entry, outcomeUnchanged, nil
	}

	document, err := markdown.Parse(data)
	if err != nil {
		b.logger.Warn("skipping file", "entry", entry.QualifiedID(), "error", err)
		return entry, outcomeFailed, nil
	}

	if _, err := b.store.PutContent(blob, entry.ContentType()); err != nil {
		return entry, outcomeFailed, err
	}
	if err := b.store.PutEntry(entry, document.Metadata); err != nil {
		return entry, outcomeFailed, err
	}
	links := make([]source.Entry, 0, len(document.Links))
	for _, link := range document.Links {
		if registered[link.Source()] {
			links = append(links, link)
		}
	}
	if err := b.store.PutLinks(entry.QualifiedID(), links); err != nil {
		return entry, outcomeFailed, err
	}

	if known {
		b.logger.Debug("entry changed", "entry", entry.QualifiedID(), "content", blob.ID().String())
		return entry, outcomeChanged, nil
	}
	b.logger.Debug("entry added", "entry", entry.QualifiedID(), "content", blob.ID().String())
	return entry, outcomeAdded, nil
}

// TreeChecksum hashes the sorted "qualified-id<TAB>checksum" lines of
// entries. Entries without content contribute an empty checksum field.
func TreeChecksum(entries map[string]checksum.Checksum) checksum.Checksum {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	var buffer bytes.Buffer
	for _, name := range names {
		buffer.WriteString(name)
		buffer.WriteByte('\t')
		if id := entries[name]; !id.IsZero() {
			buffer.WriteString(id.String())
		}
		buffer.WriteByte('\n')
	}
	return checksum.New(buffer.Bytes())
}

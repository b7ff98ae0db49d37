// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package cache_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/onelo-foundation/onelo/lib/cache"
	"github.com/onelo-foundation/onelo/lib/content"
	"github.com/onelo-foundation/onelo/lib/contenttype"
	"github.com/onelo-foundation/onelo/lib/source"
	"github.com/onelo-foundation/onelo/lib/testutil"
)

func openTestReader(t *testing.T, path string) *cache.Reader {
	t.Helper()
	reader, err := cache.OpenReader(cache.ReaderConfig{Path: path, PoolSize: 4})
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	t.Cleanup(func() {
		if err := reader.Close(); err != nil {
			t.Errorf("reader Close: %v", err)
		}
	})
	return reader
}

func TestReaderSeesCommittedData(t *testing.T) {
	store, path := openTestStore(t)
	putSource(t, store, "docs")
	intro := putEntry(t, store, "docs:intro.md", "# Intro\n", map[string]any{"title": "Intro"})
	putEntry(t, store, "docs:outro.md", "# Outro\n", nil)
	if err := store.PutLinks("docs:intro.md", []source.Entry{source.MustParseEntry("docs:outro.md")}); err != nil {
		t.Fatalf("PutLinks: %v", err)
	}

	reader := openTestReader(t, path)
	ctx := context.Background()

	sources, err := reader.Sources(ctx)
	if err != nil || len(sources) != 1 {
		t.Fatalf("Sources = %v, %v", sources, err)
	}

	entries, err := reader.Entries(ctx, source.MustParseID("docs"))
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 2 || entries[0].Entry != intro {
		t.Errorf("Entries = %v", entries)
	}

	record, err := reader.Entry(ctx, "docs:intro.md")
	if err != nil {
		t.Fatalf("Entry: %v", err)
	}
	if record.Metadata["title"] != "Intro" {
		t.Errorf("metadata = %v", record.Metadata)
	}

	id, _ := intro.ContentID()
	blob, err := reader.Content(ctx, id)
	if err != nil {
		t.Fatalf("Content: %v", err)
	}
	if string(blob.Blob()) != "# Intro\n" {
		t.Errorf("Content = %q", blob.Blob())
	}

	from, to, err := reader.Links(ctx, "docs:outro.md")
	if err != nil {
		t.Fatalf("Links: %v", err)
	}
	if len(from) != 0 || len(to) != 1 || to[0] != "docs:intro.md" {
		t.Errorf("Links(outro) = %v, %v", from, to)
	}

	stats, err := reader.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Sources != 1 || stats.Entries != 2 || stats.Links != 1 {
		t.Errorf("Stats = %+v", stats)
	}
}

func TestReaderDoesNotSeeUncommittedWrites(t *testing.T) {
	store, path := openTestStore(t)
	putSource(t, store, "docs")
	reader := openTestReader(t, path)
	ctx := context.Background()

	release := make(chan struct{})
	observed := make(chan int)
	done := make(chan error)

	go func() {
		<-release
		stats, err := reader.Stats(ctx)
		if err != nil {
			observed <- -1
			return
		}
		observed <- stats.Entries
	}()

	go func() {
		done <- store.Transaction(func() error {
			blob := content.New([]byte("# Pending\n"))
			if _, err := store.PutContent(blob, contenttype.Markdown); err != nil {
				return err
			}
			if err := store.PutEntry(source.MustParseEntry("docs:pending.md").WithContent(blob.ID()), nil); err != nil {
				return err
			}
			close(release)
			if count := <-observed; count != 0 {
				return errors.New("reader observed an uncommitted entry")
			}
			return nil
		})
	}()

	if err := <-done; err != nil {
		t.Fatalf("Transaction: %v", err)
	}

	stats, err := reader.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats after commit: %v", err)
	}
	if stats.Entries != 1 {
		t.Errorf("entries after commit = %d, want 1", stats.Entries)
	}
}

func TestConcurrentReaders(t *testing.T) {
	store, path := openTestStore(t)
	putSource(t, store, "docs")
	putEntry(t, store, "docs:intro.md", "# Intro\n", nil)
	reader := openTestReader(t, path)

	var waitGroup sync.WaitGroup
	failures := make(chan error, 8)
	for range 8 {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			if _, err := reader.Entry(context.Background(), "docs:intro.md"); err != nil {
				failures <- err
			}
		}()
	}
	done := make(chan struct{})
	go func() {
		waitGroup.Wait()
		close(done)
	}()
	testutil.RequireClosed(t, done, 10*time.Second, "readers finished")
	close(failures)
	for err := range failures {
		t.Error(err)
	}
}

func TestOpenReaderRejectsMemory(t *testing.T) {
	if _, err := cache.OpenReader(cache.ReaderConfig{Path: ":memory:"}); err == nil {
		t.Error("OpenReader(:memory:) succeeded")
	}
}

func TestReaderMissingEntry(t *testing.T) {
	_, path := openTestStore(t)
	reader := openTestReader(t, filepath.Clean(path))
	_, err := reader.Entry(context.Background(), "docs:absent.md")
	if !errors.Is(err, cache.ErrNotFound) {
		t.Errorf("Entry(absent) = %v, want ErrNotFound", err)
	}
}

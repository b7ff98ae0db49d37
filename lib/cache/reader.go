// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"fmt"
	"log/slog"

	"zombiezen.com/go/sqlite"

	"github.com/onelo-foundation/onelo/lib/checksum"
	"github.com/onelo-foundation/onelo/lib/content"
	"github.com/onelo-foundation/onelo/lib/source"
	"github.com/onelo-foundation/onelo/lib/sqlitepool"
)

// ReaderConfig holds the parameters for opening a Reader.
type ReaderConfig struct {
	// Path is an existing cache file. In-memory caches cannot be
	// observed from another connection.
	Path string

	// PoolSize is the number of read connections. Defaults to 2.
	PoolSize int

	// Logger receives pool lifecycle messages.
	Logger *slog.Logger
}

// Reader answers queries against a cache file through a pool of
// read-only connections. Unlike Store it is safe for concurrent use
// and may be open while a build writes the same file.
type Reader struct {
	pool *sqlitepool.Pool
}

// OpenReader opens a read-only pool over an existing cache file. It
// does not create the file or its schema.
func OpenReader(cfg ReaderConfig) (*Reader, error) {
	if IsMemoryPath(cfg.Path) {
		return nil, storageError("open reader", fmt.Errorf("in-memory caches have no readers"))
	}
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 2
	}
	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:     cfg.Path,
		PoolSize: poolSize,
		ReadOnly: true,
		Logger:   cfg.Logger,
	})
	if err != nil {
		return nil, storageError("open reader", err)
	}
	return &Reader{pool: pool}, nil
}

// Close releases the pool.
func (r *Reader) Close() error {
	return storageError("close reader", r.pool.Close())
}

// with borrows a connection for the duration of fn.
func (r *Reader) with(ctx context.Context, op string, fn func(conn *sqlite.Conn) error) error {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return storageError(op, err)
	}
	defer r.pool.Put(conn)
	return storageError(op, fn(conn))
}

// Sources lists all sources ordered by ID.
func (r *Reader) Sources(ctx context.Context) ([]source.Source, error) {
	var sources []source.Source
	err := r.with(ctx, "list sources", func(conn *sqlite.Conn) (err error) {
		sources, err = selectSources(conn)
		return err
	})
	return sources, err
}

// Entries lists a source's entries ordered by path.
func (r *Reader) Entries(ctx context.Context, id source.ID) ([]EntryRecord, error) {
	var records []EntryRecord
	err := r.with(ctx, "list entries", func(conn *sqlite.Conn) (err error) {
		records, err = selectEntries(conn, id)
		return err
	})
	return records, err
}

// EntriesByContent lists every entry whose content is id.
func (r *Reader) EntriesByContent(ctx context.Context, id checksum.Checksum) ([]EntryRecord, error) {
	var records []EntryRecord
	err := r.with(ctx, "list entries by content", func(conn *sqlite.Conn) (err error) {
		records, err = selectEntriesByContent(conn, id)
		return err
	})
	return records, err
}

// Entry returns the entry stored under a qualified ID.
func (r *Reader) Entry(ctx context.Context, qualifiedID string) (EntryRecord, error) {
	var record EntryRecord
	err := r.with(ctx, "get entry", func(conn *sqlite.Conn) (err error) {
		record, err = selectEntry(conn, qualifiedID)
		return err
	})
	return record, err
}

// Content loads and verifies a blob.
func (r *Reader) Content(ctx context.Context, id checksum.Checksum) (content.Content, error) {
	var c content.Content
	err := r.with(ctx, "get content", func(conn *sqlite.Conn) (err error) {
		c, err = selectContent(conn, id)
		return err
	})
	return c, err
}

// Links returns the outgoing and incoming links of an entry.
func (r *Reader) Links(ctx context.Context, qualifiedID string) (from, to []string, err error) {
	err = r.with(ctx, "links", func(conn *sqlite.Conn) error {
		var err error
		if from, err = selectLinksFrom(conn, qualifiedID); err != nil {
			return err
		}
		to, err = selectLinksTo(conn, qualifiedID)
		return err
	})
	return from, to, err
}

// Runs lists build summaries newest first.
func (r *Reader) Runs(ctx context.Context, limit int) ([]Run, error) {
	var runs []Run
	err := r.with(ctx, "list runs", func(conn *sqlite.Conn) (err error) {
		runs, err = selectRuns(conn, limit)
		return err
	})
	return runs, err
}

// Stats counts the cache contents.
func (r *Reader) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := r.with(ctx, "stats", func(conn *sqlite.Conn) (err error) {
		stats, err = selectStats(conn)
		return err
	})
	return stats, err
}

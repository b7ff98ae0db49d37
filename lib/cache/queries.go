// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"fmt"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/onelo-foundation/onelo/lib/checksum"
	"github.com/onelo-foundation/onelo/lib/codec"
	"github.com/onelo-foundation/onelo/lib/compress"
	"github.com/onelo-foundation/onelo/lib/content"
	"github.com/onelo-foundation/onelo/lib/source"
)

// The select* functions take a bare connection so the writer Store and
// the pooled Reader share one implementation of every read.

// EntryRecord is a cached entry with the data stored alongside it.
type EntryRecord struct {
	Entry source.Entry

	// Metadata is the decoded frontmatter, nil if the file had none.
	Metadata map[string]any

	// UpdatedAt is when the row was last written.
	UpdatedAt time.Time
}

// Run summarizes one build.
type Run struct {
	ID         string
	Version    string
	Commit     string
	StartedAt  time.Time
	FinishedAt time.Time
	Added      int
	Changed    int
	Unchanged  int
	Removed    int
	Failed     int
}

// Stats counts what the cache holds.
type Stats struct {
	Sources int `json:"sources"`
	Entries int `json:"entries"`
	Blobs   int `json:"blobs"`
	Links   int `json:"links"`
	Runs    int `json:"runs"`

	// ContentBytes is the total uncompressed size of distinct blobs;
	// StoredBytes is what they occupy after compression.
	ContentBytes int64 `json:"content_bytes"`
	StoredBytes  int64 `json:"stored_bytes"`
}

func fromNanos(nanos int64) time.Time {
	return time.Unix(0, nanos).UTC()
}

func columnBlob(stmt *sqlite.Stmt, column int) []byte {
	data := make([]byte, stmt.ColumnLen(column))
	stmt.ColumnBytes(column, data)
	return data
}

func scanSource(stmt *sqlite.Stmt) (source.Source, error) {
	id, err := source.ParseID(stmt.ColumnText(0))
	if err != nil {
		return source.Source{}, err
	}
	var tree checksum.Checksum
	if !stmt.ColumnIsNull(2) {
		tree, err = checksum.Parse(stmt.ColumnText(2))
		if err != nil {
			return source.Source{}, fmt.Errorf("source %q tree: %w", id, err)
		}
	}
	return source.Restore(id, stmt.ColumnText(1), tree, fromNanos(stmt.ColumnInt64(3))), nil
}

func selectSource(conn *sqlite.Conn, id source.ID) (source.Source, error) {
	var (
		result source.Source
		found  bool
	)
	err := sqlitex.Execute(conn,
		"SELECT id, route, tree, updated_at FROM source WHERE id = ?",
		&sqlitex.ExecOptions{
			Args: []any{id.String()},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				result, err = scanSource(stmt)
				found = true
				return err
			},
		})
	if err != nil {
		return source.Source{}, err
	}
	if !found {
		return source.Source{}, fmt.Errorf("source %q: %w", id, ErrNotFound)
	}
	return result, nil
}

func selectSources(conn *sqlite.Conn) ([]source.Source, error) {
	var sources []source.Source
	err := sqlitex.Execute(conn,
		"SELECT id, route, tree, updated_at FROM source ORDER BY id",
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				src, err := scanSource(stmt)
				if err != nil {
					return err
				}
				sources = append(sources, src)
				return nil
			},
		})
	return sources, err
}

const entryColumns = "source_id, path, content_id, metadata, updated_at"

func scanEntry(stmt *sqlite.Stmt) (EntryRecord, error) {
	id, err := source.ParseID(stmt.ColumnText(0))
	if err != nil {
		return EntryRecord{}, err
	}
	entry, err := source.NewEntry(id, stmt.ColumnText(1))
	if err != nil {
		return EntryRecord{}, err
	}
	if !stmt.ColumnIsNull(2) {
		contentID, err := checksum.Parse(stmt.ColumnText(2))
		if err != nil {
			return EntryRecord{}, fmt.Errorf("entry %s content: %w", entry, err)
		}
		entry = entry.WithContent(contentID)
	}
	record := EntryRecord{
		Entry:     entry,
		UpdatedAt: fromNanos(stmt.ColumnInt64(4)),
	}
	if !stmt.ColumnIsNull(3) {
		if err := codec.Unmarshal(columnBlob(stmt, 3), &record.Metadata); err != nil {
			return EntryRecord{}, fmt.Errorf("entry %s metadata: %w", entry, err)
		}
	}
	return record, nil
}

func selectEntry(conn *sqlite.Conn, qualifiedID string) (EntryRecord, error) {
	var (
		record EntryRecord
		found  bool
	)
	err := sqlitex.Execute(conn,
		"SELECT "+entryColumns+" FROM source_entry WHERE qualified_id = ?",
		&sqlitex.ExecOptions{
			Args: []any{qualifiedID},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				record, err = scanEntry(stmt)
				found = true
				return err
			},
		})
	if err != nil {
		return EntryRecord{}, err
	}
	if !found {
		return EntryRecord{}, fmt.Errorf("entry %q: %w", qualifiedID, ErrNotFound)
	}
	return record, nil
}

func selectEntries(conn *sqlite.Conn, id source.ID) ([]EntryRecord, error) {
	var records []EntryRecord
	err := sqlitex.Execute(conn,
		"SELECT "+entryColumns+" FROM source_entry WHERE source_id = ? ORDER BY path",
		&sqlitex.ExecOptions{
			Args: []any{id.String()},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				record, err := scanEntry(stmt)
				if err != nil {
					return err
				}
				records = append(records, record)
				return nil
			},
		})
	return records, err
}

func selectEntriesByContent(conn *sqlite.Conn, id checksum.Checksum) ([]EntryRecord, error) {
	var records []EntryRecord
	err := sqlitex.Execute(conn,
		"SELECT "+entryColumns+" FROM source_entry WHERE content_id = ? ORDER BY qualified_id",
		&sqlitex.ExecOptions{
			Args: []any{id.String()},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				record, err := scanEntry(stmt)
				if err != nil {
					return err
				}
				records = append(records, record)
				return nil
			},
		})
	return records, err
}

func selectContentExists(conn *sqlite.Conn, id checksum.Checksum) (bool, error) {
	var found bool
	err := sqlitex.Execute(conn,
		"SELECT 1 FROM content WHERE id = ?",
		&sqlitex.ExecOptions{
			Args: []any{id.String()},
			ResultFunc: func(*sqlite.Stmt) error {
				found = true
				return nil
			},
		})
	return found, err
}

func selectContent(conn *sqlite.Conn, id checksum.Checksum) (content.Content, error) {
	var (
		tag    compress.Tag
		size   int
		stored []byte
		found  bool
	)
	err := sqlitex.Execute(conn,
		"SELECT compression, size, blob FROM content WHERE id = ?",
		&sqlitex.ExecOptions{
			Args: []any{id.String()},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				tag = compress.Tag(stmt.ColumnInt(0))
				size = stmt.ColumnInt(1)
				stored = columnBlob(stmt, 2)
				found = true
				return nil
			},
		})
	if err != nil {
		return content.Content{}, err
	}
	if !found {
		return content.Content{}, fmt.Errorf("content %s: %w", id, ErrNotFound)
	}

	blob, err := compress.Decompress(stored, tag, size)
	if err != nil {
		return content.Content{}, fmt.Errorf("content %s: %w: %w", id, ErrContentMismatch, err)
	}
	restored, err := content.Restore(id, blob)
	if err != nil {
		return content.Content{}, fmt.Errorf("%w: %w", ErrContentMismatch, err)
	}
	return restored, nil
}

func selectStrings(conn *sqlite.Conn, query string, args ...any) ([]string, error) {
	var values []string
	err := sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			values = append(values, stmt.ColumnText(0))
			return nil
		},
	})
	return values, err
}

func selectLinksFrom(conn *sqlite.Conn, qualifiedID string) ([]string, error) {
	return selectStrings(conn,
		"SELECT to_id FROM entry_link WHERE from_id = ? ORDER BY to_id", qualifiedID)
}

func selectLinksTo(conn *sqlite.Conn, qualifiedID string) ([]string, error) {
	return selectStrings(conn,
		"SELECT from_id FROM entry_link WHERE to_id = ? ORDER BY from_id", qualifiedID)
}

func selectRuns(conn *sqlite.Conn, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	var runs []Run
	err := sqlitex.Execute(conn,
		`SELECT id, version, commit_id, started_at, finished_at,
		        added, changed, unchanged, removed, failed
		 FROM build_run ORDER BY started_at DESC, id LIMIT ?`,
		&sqlitex.ExecOptions{
			Args: []any{limit},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				runs = append(runs, Run{
					ID:         stmt.ColumnText(0),
					Version:    stmt.ColumnText(1),
					Commit:     stmt.ColumnText(2),
					StartedAt:  fromNanos(stmt.ColumnInt64(3)),
					FinishedAt: fromNanos(stmt.ColumnInt64(4)),
					Added:      stmt.ColumnInt(5),
					Changed:    stmt.ColumnInt(6),
					Unchanged:  stmt.ColumnInt(7),
					Removed:    stmt.ColumnInt(8),
					Failed:     stmt.ColumnInt(9),
				})
				return nil
			},
		})
	return runs, err
}

func selectStats(conn *sqlite.Conn) (Stats, error) {
	var stats Stats
	err := sqlitex.Execute(conn,
		`SELECT
			(SELECT count(*) FROM source),
			(SELECT count(*) FROM source_entry),
			(SELECT count(*) FROM content),
			(SELECT count(*) FROM entry_link),
			(SELECT count(*) FROM build_run),
			(SELECT coalesce(sum(size), 0) FROM content),
			(SELECT coalesce(sum(length(blob)), 0) FROM content)`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				stats = Stats{
					Sources:      stmt.ColumnInt(0),
					Entries:      stmt.ColumnInt(1),
					Blobs:        stmt.ColumnInt(2),
					Links:        stmt.ColumnInt(3),
					Runs:         stmt.ColumnInt(4),
					ContentBytes: stmt.ColumnInt64(5),
					StoredBytes:  stmt.ColumnInt64(6),
				}
				return nil
			},
		})
	return stats, err
}

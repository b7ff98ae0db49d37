// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"fmt"

	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/onelo-foundation/onelo/lib/checksum"
	"github.com/onelo-foundation/onelo/lib/codec"
	"github.com/onelo-foundation/onelo/lib/source"
)

// PutEntry inserts or updates the row for entry, keyed by its
// qualified ID. The entry's source must already be stored, as must its
// content if it has a content ID. Empty metadata is stored as NULL.
func (s *Store) PutEntry(entry source.Entry, metadata map[string]any) error {
	if err := s.require("put entry", StateBootstrapped); err != nil {
		return err
	}

	var contentID any
	if id, ok := entry.ContentID(); ok {
		contentID = id.String()
	}
	var encoded any
	if len(metadata) > 0 {
		data, err := codec.Marshal(metadata)
		if err != nil {
			return storageError("put entry", fmt.Errorf("entry %s metadata: %w", entry, err))
		}
		encoded = data
	}

	err := sqlitex.Execute(s.conn,
		`INSERT INTO source_entry
			(qualified_id, source_id, path, content_type, content_id, metadata, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(qualified_id) DO UPDATE SET
			content_type = excluded.content_type,
			content_id = excluded.content_id,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at`,
		&sqlitex.ExecOptions{
			Args: []any{
				entry.QualifiedID(),
				entry.Source().String(),
				entry.Path(),
				entry.ContentType().String(),
				contentID,
				encoded,
				s.clock.Now().UnixNano(),
			},
		})
	if err != nil {
		return storageError("put entry", fmt.Errorf("entry %s: %w", entry, err))
	}
	return nil
}

// GetEntry returns the entry stored under a qualified ID such as
// "docs:notes/intro.md", or an error wrapping ErrNotFound.
func (s *Store) GetEntry(qualifiedID string) (EntryRecord, error) {
	if err := s.require("get entry", StateBootstrapped); err != nil {
		return EntryRecord{}, err
	}
	record, err := selectEntry(s.conn, qualifiedID)
	return record, storageError("get entry", err)
}

// EntriesBySource lists a source's entries ordered by path.
func (s *Store) EntriesBySource(id source.ID) ([]EntryRecord, error) {
	if err := s.require("list entries", StateBootstrapped); err != nil {
		return nil, err
	}
	records, err := selectEntries(s.conn, id)
	return records, storageError("list entries", err)
}

// EntriesByContent lists every entry whose content is id.
func (s *Store) EntriesByContent(id checksum.Checksum) ([]EntryRecord, error) {
	if err := s.require("list entries by content", StateBootstrapped); err != nil {
		return nil, err
	}
	records, err := selectEntriesByContent(s.conn, id)
	return records, storageError("list entries by content", err)
}

// DeleteEntry removes an entry and its outgoing links. It reports
// whether a row existed. The entry's content is left for PruneContent.
func (s *Store) DeleteEntry(qualifiedID string) (bool, error) {
	if err := s.require("delete entry", StateBootstrapped); err != nil {
		return false, err
	}
	err := sqlitex.Execute(s.conn,
		"DELETE FROM source_entry WHERE qualified_id = ?",
		&sqlitex.ExecOptions{Args: []any{qualifiedID}})
	if err != nil {
		return false, storageError("delete entry", err)
	}
	return s.conn.Changes() > 0, nil
}

// PutLinks replaces the outgoing links of the entry named from.
// Duplicate targets collapse to one row.
func (s *Store) PutLinks(from string, targets []source.Entry) error {
	if err := s.require("put links", StateBootstrapped); err != nil {
		return err
	}
	return s.Transaction(func() error {
		err := sqlitex.Execute(s.conn,
			"DELETE FROM entry_link WHERE from_id = ?",
			&sqlitex.ExecOptions{Args: []any{from}})
		if err != nil {
			return storageError("put links", err)
		}
		for _, target := range targets {
			err := sqlitex.Execute(s.conn,
				"INSERT OR IGNORE INTO entry_link (from_id, to_id) VALUES (?, ?)",
				&sqlitex.ExecOptions{Args: []any{from, target.QualifiedID()}})
			if err != nil {
				return storageError("put links", fmt.Errorf("%s -> %s: %w", from, target, err))
			}
		}
		return nil
	})
}

// LinksFrom lists the qualified IDs the entry links to.
func (s *Store) LinksFrom(qualifiedID string) ([]string, error) {
	if err := s.require("links from", StateBootstrapped); err != nil {
		return nil, err
	}
	links, err := selectLinksFrom(s.conn, qualifiedID)
	return links, storageError("links from", err)
}

// LinksTo lists the qualified IDs of entries linking to the entry.
func (s *Store) LinksTo(qualifiedID string) ([]string, error) {
	if err := s.require("links to", StateBootstrapped); err != nil {
		return nil, err
	}
	links, err := selectLinksTo(s.conn, qualifiedID)
	return links, storageError("links to", err)
}

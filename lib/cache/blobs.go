// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/onelo-foundation/onelo/lib/checksum"
	"github.com/onelo-foundation/onelo/lib/content"
	"github.com/onelo-foundation/onelo/lib/contenttype"
)

// PutContent stores a blob under its checksum unless one is already
// stored there. It reports whether a row was inserted. The content type
// only guides compression.
func (s *Store) PutContent(c content.Content, contentType contenttype.ContentType) (bool, error) {
	if err := s.require("put content", StateBootstrapped); err != nil {
		return false, err
	}
	exists, err := selectContentExists(s.conn, c.ID())
	if err != nil {
		return false, storageError("put content", err)
	}
	if exists {
		return false, nil
	}

	blob := c.Blob()
	stored, tag, err := s.compression.Apply(blob, contentType.IANA())
	if err != nil {
		return false, storageError("put content", err)
	}
	err = sqlitex.Execute(s.conn,
		`INSERT INTO content (id, compression, size, blob) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		&sqlitex.ExecOptions{
			Args: []any{c.ID().String(), int(tag), len(blob), stored},
		})
	if err != nil {
		return false, storageError("put content", err)
	}
	return s.conn.Changes() > 0, nil
}

// GetContent loads and verifies the blob stored under id. A blob that
// no longer matches its checksum fails with ErrContentMismatch.
func (s *Store) GetContent(id checksum.Checksum) (content.Content, error) {
	if err := s.require("get content", StateBootstrapped); err != nil {
		return content.Content{}, err
	}
	c, err := selectContent(s.conn, id)
	return c, storageError("get content", err)
}

// HasContent reports whether a blob is stored under id.
func (s *Store) HasContent(id checksum.Checksum) (bool, error) {
	if err := s.require("has content", StateBootstrapped); err != nil {
		return false, err
	}
	exists, err := selectContentExists(s.conn, id)
	return exists, storageError("has content", err)
}

// PruneContent deletes blobs no entry references and returns how many
// were removed.
func (s *Store) PruneContent() (int, error) {
	if err := s.require("prune content", StateBootstrapped); err != nil {
		return 0, err
	}
	err := sqlitex.Execute(s.conn,
		`DELETE FROM content WHERE id NOT IN
			(SELECT content_id FROM source_entry WHERE content_id IS NOT NULL)`,
		nil)
	if err != nil {
		return 0, storageError("prune content", err)
	}
	return s.conn.Changes(), nil
}

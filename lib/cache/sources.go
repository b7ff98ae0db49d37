// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/onelo-foundation/onelo/lib/source"
)

// PutSource inserts or replaces a source row.
func (s *Store) PutSource(src source.Source) error {
	if err := s.require("put source", StateBootstrapped); err != nil {
		return err
	}
	var tree any
	if sum, ok := src.Tree(); ok {
		tree = sum.String()
	}
	err := sqlitex.Execute(s.conn,
		`INSERT INTO source (id, route, tree, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			route = excluded.route,
			tree = excluded.tree,
			updated_at = excluded.updated_at`,
		&sqlitex.ExecOptions{
			Args: []any{src.ID().String(), src.Route(), tree, src.Timestamp().UnixNano()},
		})
	return storageError("put source", err)
}

// GetSource returns the source with the given ID, or an error wrapping
// ErrNotFound.
func (s *Store) GetSource(id source.ID) (source.Source, error) {
	if err := s.require("get source", StateBootstrapped); err != nil {
		return source.Source{}, err
	}
	src, err := selectSource(s.conn, id)
	return src, storageError("get source", err)
}

// Sources lists all sources ordered by ID.
func (s *Store) Sources() ([]source.Source, error) {
	if err := s.require("list sources", StateBootstrapped); err != nil {
		return nil, err
	}
	sources, err := selectSources(s.conn)
	return sources, storageError("list sources", err)
}

// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"zombiezen.com/go/sqlite/sqlitex"
)

// RecordRun stores a build summary.
func (s *Store) RecordRun(run Run) error {
	if err := s.require("record run", StateBootstrapped); err != nil {
		return err
	}
	err := sqlitex.Execute(s.conn,
		`INSERT INTO build_run
			(id, version, commit_id, started_at, finished_at,
			 added, changed, unchanged, removed, failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []any{
				run.ID,
				run.Version,
				run.Commit,
				run.StartedAt.UnixNano(),
				run.FinishedAt.UnixNano(),
				run.Added,
				run.Changed,
				run.Unchanged,
				run.Removed,
				run.Failed,
			},
		})
	return storageError("record run", err)
}

// Runs lists build summaries newest first. A limit of zero or less
// returns all of them.
func (s *Store) Runs(limit int) ([]Run, error) {
	if err := s.require("list runs", StateBootstrapped); err != nil {
		return nil, err
	}
	runs, err := selectRuns(s.conn, limit)
	return runs, storageError("list runs", err)
}

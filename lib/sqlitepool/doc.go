// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool provides the SQLite connection setup shared by the
// cache writer and its read-only observers.
//
// It wraps zombiezen.com/go/sqlite with fixed defaults. Writable
// connections get:
//
//   - journal_mode=WAL: readers never block the writer and see a
//     consistent snapshot while a build is in progress.
//   - synchronous=NORMAL: transactions survive process crashes. The
//     cache can always be rebuilt from the note sources, so durability
//     across power loss is not worth an fsync per commit.
//
// Every connection gets busy_timeout=5000, an 8 MB page cache and
// in-memory temp storage. Read-only connections add query_only=ON and
// leave the journal mode alone. Foreign key enforcement is opt-in
// through [Config.ForeignKeys].
//
// # Usage
//
//	pool, err := sqlitepool.Open(sqlitepool.Config{
//	    Path:     cachePath,
//	    ReadOnly: true,
//	    Logger:   logger,
//	})
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	conn, err := pool.Take(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Put(conn)
//
// The package applies pragmas and exposes the zombiezen types directly.
// Callers write SQL, use sqlitex.Execute for cached statements, and
// manage transactions with sqlitex.ImmediateTransaction.
package sqlitepool

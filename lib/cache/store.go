// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/onelo-foundation/onelo/lib/clock"
	"github.com/onelo-foundation/onelo/lib/compress"
	"github.com/onelo-foundation/onelo/lib/sqlitepool"
)

//go:embed schema.sql
var schema string

// State is the lifecycle position of a Store.
type State int

const (
	StateClosed State = iota
	StateConnected
	StateBootstrapped
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateConnected:
		return "connected"
	case StateBootstrapped:
		return "bootstrapped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Config holds the parameters for connecting a Store.
type Config struct {
	// Path is the database file. The parent directory must exist.
	// Empty or ":memory:" opens a private in-memory database.
	Path string

	// Compression decides how blobs are stored. The zero value stores
	// them raw; use compress.Auto for per-blob selection.
	Compression compress.Policy

	// Logger receives lifecycle messages. If nil, a no-op logger is
	// used.
	Logger *slog.Logger

	// Clock stamps rows. If nil, the real clock is used.
	Clock clock.Clock

	// DetachTimeout bounds how long Disconnect waits for readers on
	// other connections to close before the file can leave WAL mode.
	// Default: 10s.
	DetachTimeout time.Duration
}

const defaultDetachTimeout = 10 * time.Second

// Store is the single writer of a cache database. It is not safe for
// concurrent use; a build drives it from one goroutine.
type Store struct {
	conn        *sqlite.Conn
	state       State
	path        string
	memory      bool
	compression compress.Policy
	logger      *slog.Logger
	clock       clock.Clock
	detach      time.Duration

	// transactionDepth lets Transaction nest by falling back to
	// savepoints inside an open IMMEDIATE transaction.
	transactionDepth int
}

// IsMemoryPath reports whether path selects an in-memory database.
func IsMemoryPath(path string) bool {
	return path == "" || path == ":memory:"
}

// Connect opens the database and applies the standard pragmas. The
// returned Store is Connected; call Bootstrap before entity operations.
func Connect(cfg Config) (*Store, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	memory := IsMemoryPath(cfg.Path)
	path := cfg.Path
	if memory {
		path = ":memory:"
	}

	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite|sqlite.OpenCreate|sqlite.OpenURI)
	if err != nil {
		return nil, storageError("connect", fmt.Errorf("opening %s: %w", path, err))
	}
	if err := sqlitepool.ApplyPragmas(conn, sqlitepool.Pragmas(false, true)); err != nil {
		conn.Close()
		return nil, storageError("connect", err)
	}

	detach := cfg.DetachTimeout
	if detach <= 0 {
		detach = defaultDetachTimeout
	}

	logger.Info("cache connected",
		"path", path,
		"compression", cfg.Compression.String(),
	)

	return &Store{
		conn:        conn,
		state:       StateConnected,
		path:        path,
		memory:      memory,
		compression: cfg.Compression,
		logger:      logger,
		clock:       clock.OrReal(cfg.Clock),
		detach:      detach,
	}, nil
}

// State returns the lifecycle state.
func (s *Store) State() State { return s.state }

// Path returns the database path, ":memory:" for in-memory stores.
func (s *Store) Path() string { return s.path }

// require fails unless the store has reached at least the given state.
func (s *Store) require(op string, minimum State) error {
	if s == nil || s.state == StateClosed {
		return &StorageError{Op: op, Err: ErrClosed}
	}
	if s.state < minimum {
		return &StorageError{Op: op, Err: ErrNotBootstrapped}
	}
	return nil
}

// Bootstrap creates any missing tables and indexes. Running it again
// leaves the schema unchanged.
func (s *Store) Bootstrap() error {
	if err := s.require("bootstrap", StateConnected); err != nil {
		return err
	}
	if err := sqlitex.ExecuteScript(s.conn, schema, nil); err != nil {
		return storageError("bootstrap", err)
	}
	if s.state != StateBootstrapped {
		s.logger.Info("cache bootstrapped", "path", s.path)
	}
	s.state = StateBootstrapped
	return nil
}

// Disconnect flushes the write-ahead log into the main file, switches
// the file back to rollback-journal mode and closes the connection.
// Leaving WAL mode needs every other connection to the file closed, so
// while a Reader is attached Disconnect retries with backoff for up to
// Config.DetachTimeout. The store is Closed afterwards even if a step
// failed; the returned error joins every failure.
func (s *Store) Disconnect() error {
	if err := s.require("disconnect", StateConnected); err != nil {
		return err
	}

	var errs []error
	if !s.memory {
		if err := s.leaveWAL(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.conn.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close: %w", err))
	}

	s.conn = nil
	s.state = StateClosed

	if err := errors.Join(errs...); err != nil {
		s.logger.Error("cache disconnect failed", "path", s.path, "error", err)
		return storageError("disconnect", err)
	}
	s.logger.Info("cache disconnected", "path", s.path)
	return nil
}

// leaveWAL checkpoints and switches to journal_mode=DELETE, retrying
// while other connections hold the file. SQLite reports this conflict
// as SQLITE_BUSY without consulting busy_timeout, or by leaving the
// mode unchanged.
func (s *Store) leaveWAL() error {
	deadline := time.Now().Add(s.detach)
	delay := 5 * time.Millisecond
	for attempt := 1; ; attempt++ {
		err := s.tryLeaveWAL()
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrReadersAttached) || time.Now().Add(delay).After(deadline) {
			return err
		}
		if attempt == 1 {
			s.logger.Info("waiting for cache readers to detach", "path", s.path, "timeout", s.detach)
		}
		time.Sleep(delay)
		delay = min(delay*2, 250*time.Millisecond)
	}
}

func (s *Store) tryLeaveWAL() error {
	var busy bool
	err := sqlitex.ExecuteTransient(s.conn, "PRAGMA wal_checkpoint(TRUNCATE)", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			busy = stmt.ColumnInt(0) != 0
			return nil
		},
	})
	if err != nil {
		return lockError("PRAGMA wal_checkpoint(TRUNCATE)", err)
	}
	if busy {
		return fmt.Errorf("PRAGMA wal_checkpoint(TRUNCATE): %w", ErrReadersAttached)
	}

	var mode string
	err = sqlitex.ExecuteTransient(s.conn, "PRAGMA journal_mode=DELETE", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			mode = stmt.ColumnText(0)
			return nil
		},
	})
	if err != nil {
		return lockError("PRAGMA journal_mode=DELETE", err)
	}
	if mode != "delete" {
		return fmt.Errorf("PRAGMA journal_mode=DELETE: mode is still %q: %w", mode, ErrReadersAttached)
	}
	return nil
}

// lockError maps SQLITE_BUSY and SQLITE_LOCKED to ErrReadersAttached.
func lockError(pragma string, err error) error {
	switch sqlite.ErrCode(err).ToPrimary() {
	case sqlite.ResultBusy, sqlite.ResultLocked:
		return fmt.Errorf("%s: %w: %w", pragma, ErrReadersAttached, err)
	}
	return fmt.Errorf("%s: %w", pragma, err)
}

// Transaction runs fn inside an IMMEDIATE transaction, committing if
// fn returns nil and rolling back otherwise. Nested calls become
// savepoints of the enclosing transaction.
func (s *Store) Transaction(fn func() error) (err error) {
	if err := s.require("transaction", StateBootstrapped); err != nil {
		return err
	}

	var endTransaction func(*error)
	if s.transactionDepth == 0 {
		endTransaction, err = sqlitex.ImmediateTransaction(s.conn)
		if err != nil {
			return storageError("begin transaction", err)
		}
	} else {
		endTransaction = sqlitex.Save(s.conn)
	}
	s.transactionDepth++
	defer func() {
		s.transactionDepth--
		endTransaction(&err)
	}()

	return fn()
}

// JournalMode reports the database's current journal mode.
func (s *Store) JournalMode() (string, error) {
	if err := s.require("journal mode", StateConnected); err != nil {
		return "", err
	}
	var mode string
	err := sqlitex.ExecuteTransient(s.conn, "PRAGMA journal_mode", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			mode = stmt.ColumnText(0)
			return nil
		},
	})
	if err != nil {
		return "", storageError("journal mode", err)
	}
	return mode, nil
}

// Stats counts the cache contents.
func (s *Store) Stats() (Stats, error) {
	if err := s.require("stats", StateBootstrapped); err != nil {
		return Stats{}, err
	}
	stats, err := selectStats(s.conn)
	return stats, storageError("stats", err)
}

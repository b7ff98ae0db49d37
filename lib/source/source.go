// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"path/filepath"
	"time"

	"github.com/onelo-foundation/onelo/lib/checksum"
	"github.com/onelo-foundation/onelo/lib/clock"
)

// Source is a named root directory of notes.
type Source struct {
	id        ID
	route     string
	tree      checksum.Checksum
	timestamp time.Time
}

// New creates a source with no tree checksum, stamped with clk's
// current time. The route is cleaned but not resolved against the
// working directory.
func New(id ID, route string, clk clock.Clock) Source {
	return Source{
		id:        id,
		route:     filepath.Clean(route),
		timestamp: clock.OrReal(clk).Now(),
	}
}

// Restore rebuilds a persisted source. A zero tree means none was
// recorded.
func Restore(id ID, route string, tree checksum.Checksum, timestamp time.Time) Source {
	return Source{id: id, route: route, tree: tree, timestamp: timestamp}
}

// ID returns the source ID.
func (s Source) ID() ID { return s.id }

// Route returns the cleaned root directory.
func (s Source) Route() string { return s.route }

// Tree returns the checksum of the whole tree from the last build, if
// one has been recorded.
func (s Source) Tree() (checksum.Checksum, bool) {
	return s.tree, !s.tree.IsZero()
}

// Timestamp returns when the source was created or last refreshed.
func (s Source) Timestamp() time.Time { return s.timestamp }

// Refresh records the tree checksum produced by a build and restamps
// the source. It is the only mutation a Source supports.
func (s *Source) Refresh(tree checksum.Checksum, clk clock.Clock) {
	s.tree = tree
	s.timestamp = clock.OrReal(clk).Now()
}

// Path joins an entry path onto the route.
func (s Source) Path(entryPath string) string {
	return filepath.Join(s.route, filepath.FromSlash(entryPath))
}

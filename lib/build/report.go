// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package build

import (
	"time"

	"github.com/onelo-foundation/onelo/lib/checksum"
	"github.com/onelo-foundation/onelo/lib/source"
)

// Counts classifies the files of a build against the previous one.
type Counts struct {
	// Added files had no cached entry.
	Added int `json:"added"`

	// Changed files had a cached entry with a different checksum.
	Changed int `json:"changed"`

	// Unchanged files hashed to the cached checksum and were skipped.
	Unchanged int `json:"unchanged"`

	// Removed entries were cached but their file is gone. They are
	// deleted only when pruning.
	Removed int `json:"removed"`

	// Failed files could not be named, read or parsed.
	Failed int `json:"failed"`
}

// Files returns the number of files found on disk.
func (c Counts) Files() int {
	return c.Added + c.Changed + c.Unchanged + c.Failed
}

func (c *Counts) add(other Counts) {
	c.Added += other.Added
	c.Changed += other.Changed
	c.Unchanged += other.Unchanged
	c.Removed += other.Removed
	c.Failed += other.Failed
}

// SourceReport is the outcome for one source.
type SourceReport struct {
	ID     source.ID         `json:"id"`
	Route  string            `json:"route"`
	Tree   checksum.Checksum `json:"tree"`
	Counts Counts            `json:"counts"`
}

// Report is the outcome of a build.
type Report struct {
	RunID      string         `json:"run_id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Sources    []SourceReport `json:"sources"`
	Counts     Counts         `json:"counts"`

	// PrunedBlobs is the number of unreferenced blobs deleted. Always
	// zero unless pruning.
	PrunedBlobs int `json:"pruned_blobs,omitempty"`
}

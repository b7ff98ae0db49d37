// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package build

import (
	"time"

	"github.com/google/uuid"

	"github.com/onelo-foundation/onelo/lib/clock"
	"github.com/onelo-foundation/onelo/lib/version"
)

// Context is the identity of one build. It is created once and passed
// explicitly to everything that records build provenance.
type Context struct {
	// RunID names the build in the build_run table.
	RunID string

	// Version is the stamp of the binary doing the build.
	Version version.Stamp

	// Created is when the build started.
	Created time.Time
}

// NewContext stamps a build with a fresh run ID and clk's current
// time.
func NewContext(stamp version.Stamp, clk clock.Clock) Context {
	return Context{
		RunID:   uuid.NewString(),
		Version: stamp,
		Created: clock.OrReal(clk).Now(),
	}
}

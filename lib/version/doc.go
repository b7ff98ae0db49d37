// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

// Package version carries build version information for the onelo
// binary.
//
// Four package-level variables are injected at build time via
// -ldflags -X:
//
//   - [GitCommit] -- short git SHA of the build
//   - [GitDirty] -- "true" if there were uncommitted changes
//   - [BuildTime] -- UTC timestamp of the build
//   - [Version] -- semantic version string (set manually for releases)
//
// They default to "unknown" / "0.1.0-dev" during development builds and
// test runs. Nothing else in the module reads these variables directly:
// the build driver receives a [Stamp] explicitly, so tests can pin it.
package version

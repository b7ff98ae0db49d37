// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
)

// These variables are set via -ldflags at build time, for example:
//
//	go build -ldflags "-X github.com/onelo-foundation/onelo/lib/version.GitCommit=$(git rev-parse --short HEAD)"
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// GitDirty indicates whether there were uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the semantic version. This is set manually for releases.
	Version = "0.1.0-dev"
)

// Stamp is the version identity recorded alongside a build run.
type Stamp struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Dirty   bool   `json:"dirty,omitempty"`
}

// Current returns the stamp of the running binary.
func Current() Stamp {
	return Stamp{
		Version: Version,
		Commit:  GitCommit,
		Dirty:   GitDirty == "true",
	}
}

// String formats the stamp as "version (commit[-dirty])".
func (s Stamp) String() string {
	dirty := ""
	if s.Dirty {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s)", s.Version, s.Commit, dirty)
}

// Info returns a formatted version string suitable for --version output.
func Info() string {
	dirty := ""
	if GitDirty == "true" {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, GitCommit, dirty, BuildTime)
}

// Full returns detailed version information including Go version.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Short returns just the version number.
func Short() string {
	return Version
}

// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable source of the current time.
//
// Code that stamps records (source timestamps, build runs, cache rows)
// accepts a Clock instead of calling time.Now directly. Production
// wiring passes Real(); tests pass Fake() and move time explicitly:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	src := source.New(id, "notes", c)
//	c.Advance(time.Minute)
//	src.Refresh(tree, c)
package clock

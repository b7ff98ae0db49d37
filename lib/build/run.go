// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package build

import (
	"context"
	"errors"
	"log/slog"

	"github.com/onelo-foundation/onelo/lib/cache"
	"github.com/onelo-foundation/onelo/lib/clock"
	"github.com/onelo-foundation/onelo/lib/compress"
	"github.com/onelo-foundation/onelo/lib/version"
)

// ErrNoSources is returned by Run when there is nothing to index.
var ErrNoSources = errors.New("no sources configured")

// RunConfig holds everything one build needs.
type RunConfig struct {
	// CachePath is the cache database file.
	CachePath string

	// Compression is the blob compression policy.
	Compression compress.Policy

	// Sources are indexed in order.
	Sources []Spec

	// Prune and Shallow are passed to the Builder.
	Prune   bool
	Shallow bool

	// Version is recorded with the run. The zero value records the
	// running binary's stamp.
	Version version.Stamp

	Logger *slog.Logger
	Clock  clock.Clock
}

// Run connects the cache, bootstraps it, builds and disconnects. The
// store is disconnected on every path out of Run and a disconnect
// failure is joined into the returned error.
func Run(ctx context.Context, cfg RunConfig) (report Report, err error) {
	if len(cfg.Sources) == 0 {
		return Report{}, ErrNoSources
	}
	stamp := cfg.Version
	if stamp == (version.Stamp{}) {
		stamp = version.Current()
	}

	store, err := cache.Connect(cache.Config{
		Path:        cfg.CachePath,
		Compression: cfg.Compression,
		Logger:      cfg.Logger,
		Clock:       cfg.Clock,
	})
	if err != nil {
		return Report{}, err
	}
	defer func() {
		err = errors.Join(err, store.Disconnect())
	}()

	if err := store.Bootstrap(); err != nil {
		return Report{}, err
	}

	builder := NewBuilder(store, Options{
		Logger:  cfg.Logger,
		Clock:   cfg.Clock,
		Prune:   cfg.Prune,
		Shallow: cfg.Shallow,
	})
	return builder.Build(ctx, NewContext(stamp, cfg.Clock), cfg.Sources)
}

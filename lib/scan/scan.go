// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

// Package scan finds the note files under a source route.
//
// A file is a candidate when the extension of its name resolves
// through lib/contenttype. Everything else is skipped silently: a
// source directory may hold images, editor backups and the like. Dot
// directories (".git", ".obsidian") are not descended into.
//
// Paths are reported relative to the root and '/' separated on every
// platform, which is the form entry names use.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/onelo-foundation/onelo/lib/contenttype"
	"github.com/onelo-foundation/onelo/lib/source"
)

// Options tunes a walk.
type Options struct {
	// Shallow stops the walk at the root directory.
	Shallow bool
}

// Dir walks the directory at root. See [FS].
func Dir(ctx context.Context, root string, options Options) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan %s: not a directory", root)
	}
	paths, err := FS(ctx, os.DirFS(root), options)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return paths, nil
}

// FS walks fsys from its root and returns candidate paths in sorted
// order.
func FS(ctx context.Context, fsys fs.FS, options Options) ([]string, error) {
	var paths []string
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			if path == "." {
				return nil
			}
			if options.Shallow || strings.HasPrefix(entry.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		if IsCandidate(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// IsCandidate reports whether path names a file of a known content
// type.
func IsCandidate(path string) bool {
	extension, ok := source.Extension(path)
	if !ok {
		return false
	}
	_, err := contenttype.FromExtension(extension)
	return err == nil
}

// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTree writes files under root. Keys are slash-separated paths
// relative to root; values are file contents. Existing files are
// overwritten, so calling WriteTree twice on one root models an edit.
//
//	testutil.WriteTree(t, root, map[string]string{
//		"intro.md":       "# Intro\n",
//		"notes/outro.md": "# Outro\n",
//	})
func WriteTree(t testing.TB, root string, files map[string]string) {
	t.Helper()
	for path, body := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("creating directory for %s: %v", path, err)
		}
		if err := os.WriteFile(full, []byte(body), 0o644); err != nil {
			t.Fatalf("writing %s: %v", path, err)
		}
	}
}

// RemoveTree deletes the named slash-separated paths under root.
func RemoveTree(t testing.TB, root string, paths ...string) {
	t.Helper()
	for _, path := range paths {
		if err := os.Remove(filepath.Join(root, filepath.FromSlash(path))); err != nil {
			t.Fatalf("removing %s: %v", path, err)
		}
	}
}

// CachePath returns the path of a not yet existing cache database in
// a fresh temporary directory.
func CachePath(t testing.TB) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "cache.db")
}

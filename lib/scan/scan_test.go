// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package scan

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

func testTree() fstest.MapFS {
	file := &fstest.MapFile{Data: []byte("# Note\n")}
	return fstest.MapFS{
		"intro.md":                  file,
		"notes/deep/nested.md":      file,
		"notes/outro.md":            file,
		"notes/image.png":           file,
		"notes/README":              file,
		"notes/draft.md~":           file,
		".git/HEAD.md":              file,
		"notes/.obsidian/config.md": file,
		".hidden-file.md":           file,
		"weird:name.md":             file,
	}
}

func TestFSRecursive(t *testing.T) {
	paths, err := FS(context.Background(), testTree(), Options{})
	if err != nil {
		t.Fatalf("FS: %v", err)
	}
	want := ".hidden-file.md,intro.md,notes/deep/nested.md,notes/outro.md,weird:name.md"
	if got := strings.Join(paths, ","); got != want {
		t.Errorf("paths = %s\nwant    %s", got, want)
	}
}

func TestFSShallow(t *testing.T) {
	paths, err := FS(context.Background(), testTree(), Options{Shallow: true})
	if err != nil {
		t.Fatalf("FS: %v", err)
	}
	want := ".hidden-file.md,intro.md,weird:name.md"
	if got := strings.Join(paths, ","); got != want {
		t.Errorf("paths = %s, want %s", got, want)
	}
}

func TestFSCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := FS(ctx, testTree(), Options{}); err == nil {
		t.Error("FS with a cancelled context succeeded")
	}
}

func TestDir(t *testing.T) {
	root := t.TempDir()
	for _, path := range []string{"a.md", "sub/b.md", "sub/c.txt"} {
		full := filepath.Join(root, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	paths, err := Dir(context.Background(), root, Options{})
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}
	if got := strings.Join(paths, ","); got != "a.md,sub/b.md" {
		t.Errorf("paths = %s", got)
	}

	if _, err := Dir(context.Background(), filepath.Join(root, "missing"), Options{}); err == nil {
		t.Error("Dir on a missing directory succeeded")
	}
	if _, err := Dir(context.Background(), filepath.Join(root, "a.md"), Options{}); err == nil {
		t.Error("Dir on a file succeeded")
	}
}

func TestIsCandidate(t *testing.T) {
	for path, want := range map[string]bool{
		"a.md":        true,
		"dir.md/file": false,
		"a.markdown":  false,
		"a.MD":        false,
		"a":           false,
	} {
		if got := IsCandidate(path); got != want {
			t.Errorf("IsCandidate(%q) = %v, want %v", path, got, want)
		}
	}
}

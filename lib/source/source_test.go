// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/onelo-foundation/onelo/lib/checksum"
	"github.com/onelo-foundation/onelo/lib/clock"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestNewSource(t *testing.T) {
	clk := clock.Fake(epoch)
	src := New(MustParseID("docs"), "notes/./drafts/../", clk)

	if src.ID().String() != "docs" {
		t.Errorf("ID() = %q, want docs", src.ID())
	}
	if src.Route() != filepath.Clean("notes") {
		t.Errorf("Route() = %q, want %q", src.Route(), filepath.Clean("notes"))
	}
	if _, ok := src.Tree(); ok {
		t.Error("new source already has a tree checksum")
	}
	if !src.Timestamp().Equal(epoch) {
		t.Errorf("Timestamp() = %v, want %v", src.Timestamp(), epoch)
	}
}

func TestRefresh(t *testing.T) {
	clk := clock.Fake(epoch)
	src := New(MustParseID("docs"), "notes", clk)

	clk.Advance(time.Hour)
	tree := checksum.New([]byte("docs:intro.md\t1e20..."))
	src.Refresh(tree, clk)

	got, ok := src.Tree()
	if !ok || got != tree {
		t.Errorf("Tree() = %s, %v; want %s, true", got, ok, tree)
	}
	if !src.Timestamp().Equal(epoch.Add(time.Hour)) {
		t.Errorf("Timestamp() = %v, want one hour after epoch", src.Timestamp())
	}
}

func TestRestoreSource(t *testing.T) {
	tree := checksum.New([]byte("tree"))
	src := Restore(MustParseID("docs"), "notes", tree, epoch)
	if got, _ := src.Tree(); got != tree {
		t.Errorf("Tree() = %s, want %s", got, tree)
	}
	if src.Route() != "notes" || !src.Timestamp().Equal(epoch) {
		t.Errorf("restored %+v", src)
	}
}

func TestSourcePath(t *testing.T) {
	src := New(MustParseID("docs"), "notes", clock.Fake(epoch))
	want := filepath.Join("notes", "drafts", "intro.md")
	if got := src.Path("drafts/intro.md"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/onelo-foundation/onelo/lib/checksum"
)

type sampleRecord struct {
	Title   string            `cbor:"title"`
	Tags    []string          `cbor:"tags,omitempty"`
	Content checksum.Checksum `cbor:"content"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleRecord{
		Title:   "Lorem ipsum",
		Tags:    []string{"draft", "notes"},
		Content: checksum.New([]byte("onelo")),
	}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded sampleRecord
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Title != original.Title || decoded.Content != original.Content {
		t.Errorf("decoded %+v, want %+v", decoded, original)
	}
	if len(decoded.Tags) != 2 || decoded.Tags[1] != "notes" {
		t.Errorf("decoded tags %v", decoded.Tags)
	}
}

func TestChecksumEncodesAsText(t *testing.T) {
	data, err := Marshal(checksum.New([]byte("onelo")))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	diagnostic, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	want := `"1e20cabe0427e7fdaa13ec1d49de58a6179a2ecb6dd6fd674261421949fab0acc525"`
	if diagnostic != want {
		t.Errorf("Diagnose = %s, want %s", diagnostic, want)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	first := map[string]any{"zeta": "z", "alpha": "a", "mid": "m"}
	second := map[string]any{"mid": "m", "zeta": "z", "alpha": "a"}

	firstData, err := Marshal(first)
	if err != nil {
		t.Fatalf("Marshal first: %v", err)
	}
	for range 20 {
		secondData, err := Marshal(second)
		if err != nil {
			t.Fatalf("Marshal second: %v", err)
		}
		if !bytes.Equal(firstData, secondData) {
			t.Fatalf("encodings differ: %x vs %x", firstData, secondData)
		}
	}
}

func TestUntypedMapsDecodeWithStringKeys(t *testing.T) {
	// YAML frontmatter produces map[any]any for nested tables.
	original := map[string]any{
		"title": "Intro",
		"author": map[any]any{
			"name": "Ada",
		},
	}
	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded map[string]any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	author, ok := decoded["author"].(map[string]any)
	if !ok {
		t.Fatalf("author decoded as %T, want map[string]any", decoded["author"])
	}
	if author["name"] != "Ada" {
		t.Errorf("author.name = %v, want Ada", author["name"])
	}
}

func TestTimeEncodesAsRFC3339(t *testing.T) {
	created := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	data, err := Marshal(map[string]any{"created": created})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	diagnostic, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(diagnostic, "2026-03-14T15:09:26Z") {
		t.Errorf("Diagnose = %s, want RFC 3339 timestamp", diagnostic)
	}
}

func TestUnmarshalInvalidCBOR(t *testing.T) {
	var decoded map[string]any
	if err := Unmarshal([]byte{0xff, 0xfe}, &decoded); err == nil {
		t.Error("Unmarshal of invalid CBOR succeeded")
	}
}

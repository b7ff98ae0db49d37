// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package markdown

import (
	"encoding/json"
	"strings"
	"testing"
)

func qualifiedIDs(t *testing.T, document Document) string {
	t.Helper()
	var ids []string
	for _, link := range document.Links {
		ids = append(ids, link.QualifiedID())
	}
	return strings.Join(ids, ",")
}

func TestSplitTOML(t *testing.T) {
	input := "+++\nid = \"01\"\ntitle = \"Lorem ipsum\"\ntags = [\"a\", \"b\"]\n+++\n\n# Heading\n\nBody.\n"
	metadata, body, err := Split([]byte(input))
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if metadata["id"] != "01" || metadata["title"] != "Lorem ipsum" {
		t.Errorf("metadata = %v", metadata)
	}
	tags, ok := metadata["tags"].([]any)
	if !ok || len(tags) != 2 {
		t.Errorf("tags = %#v", metadata["tags"])
	}
	if !strings.Contains(string(body), "# Heading") || strings.Contains(string(body), "+++") {
		t.Errorf("body = %q", body)
	}
}

func TestSplitYAML(t *testing.T) {
	input := "---\ntitle: Lorem ipsum\nauthor:\n  name: Ada\n---\n# Heading\n"
	metadata, body, err := Split([]byte(input))
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if metadata["title"] != "Lorem ipsum" {
		t.Errorf("title = %v", metadata["title"])
	}
	author, ok := metadata["author"].(map[string]any)
	if !ok {
		t.Fatalf("author = %T, want map[string]any", metadata["author"])
	}
	if author["name"] != "Ada" {
		t.Errorf("author.name = %v", author["name"])
	}
	if _, err := json.Marshal(metadata); err != nil {
		t.Errorf("metadata does not marshal to JSON: %v", err)
	}
	if strings.TrimSpace(string(body)) != "# Heading" {
		t.Errorf("body = %q", body)
	}
}

func TestSplitWithoutFrontmatter(t *testing.T) {
	input := "# Just a note\n\nNo metadata here.\n"
	metadata, body, err := Split([]byte(input))
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if metadata != nil {
		t.Errorf("metadata = %v, want nil", metadata)
	}
	if string(body) != input {
		t.Errorf("body = %q, want the whole input", body)
	}
}

func TestSplitMalformedFrontmatter(t *testing.T) {
	input := "+++\ntitle = = broken\n+++\n# Heading\n"
	if _, _, err := Split([]byte(input)); err == nil {
		t.Error("Split of malformed TOML succeeded")
	}
}

func TestLinks(t *testing.T) {
	body := `# Intro

See [the outro](docs:outro.md), [a section](docs:notes/deep.md#part-two)
and <journal:2026/03/01.md>. Again [outro](docs:outro.md).

Not links: [web](https://example.com/page.md), [relative](notes/other.md),
[no extension](docs:notes/intro), [unknown](docs:image.png), ![img](docs:pic.md).

` + "```\n[in code](docs:code.md)\n```\n"

	document, err := Parse([]byte(body))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := "docs:outro.md,docs:notes/deep.md,journal:2026/03/01.md"
	if got := qualifiedIDs(t, document); got != want {
		t.Errorf("links = %s, want %s", got, want)
	}
}

func TestEmptySourceLink(t *testing.T) {
	document, err := Parse([]byte("[root](:index.md)\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := qualifiedIDs(t, document); got != ":index.md" {
		t.Errorf("links = %q, want :index.md", got)
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"heading", "# Lorem *ipsum*\n\ntext\n", "Lorem ipsum"},
		{"frontmatter wins", "+++\ntitle = \"From metadata\"\n+++\n# From heading\n", "From metadata"},
		{"second level ignored", "## Sub\n\ntext\n", ""},
		{"first of several", "# One\n\n# Two\n", "One"},
		{"non-string title", "+++\ntitle = 3\n+++\n# Heading\n", "Heading"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			document, err := Parse([]byte(test.input))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if document.Title != test.want {
				t.Errorf("Title = %q, want %q", document.Title, test.want)
			}
		})
	}
}

func TestLinksFunction(t *testing.T) {
	links := Links([]byte("[a](docs:a.md) [b](docs:b.md)"))
	if len(links) != 2 || links[1].Path() != "b.md" {
		t.Errorf("Links = %v", links)
	}
}

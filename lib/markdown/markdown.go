// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package markdown

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/onelo-foundation/onelo/lib/source"
)

// Document is a note split into metadata and body, with the facts
// derived from the body.
type Document struct {
	// Metadata is the decoded frontmatter, nil when there is none.
	Metadata map[string]any

	// Body is the markdown after the frontmatter block.
	Body []byte

	// Title is the frontmatter "title" if it is a string, otherwise
	// the text of the first level-one heading, otherwise empty.
	Title string

	// Links are the qualified entry names the body links to, in order
	// of first appearance, without duplicates.
	Links []source.Entry
}

// The parser configuration never changes and goldmark parsers are safe
// to share; per-call state lives in the text.Reader.
var (
	parserInstance goldmark.Markdown
	parserOnce     sync.Once
)

func markdownParser() goldmark.Markdown {
	parserOnce.Do(func() {
		parserInstance = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return parserInstance
}

// Parse splits data and analyzes the body.
func Parse(data []byte) (Document, error) {
	metadata, body, err := Split(data)
	if err != nil {
		return Document{}, err
	}
	document := Document{Metadata: metadata, Body: body}

	analysis := analyze(body)
	document.Links = analysis.links
	document.Title = analysis.title
	if title, ok := metadata["title"].(string); ok && title != "" {
		document.Title = title
	}
	return document, nil
}

// Split separates frontmatter from the body. An empty frontmatter
// block yields nil metadata.
func Split(data []byte) (map[string]any, []byte, error) {
	var metadata map[string]any
	body, err := frontmatter.Parse(bytes.NewReader(data), &metadata)
	if err != nil {
		return nil, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	if len(metadata) == 0 {
		return nil, body, nil
	}
	return normalizeMap(metadata), body, nil
}

// Links returns the qualified links in body. See [Document.Links].
func Links(body []byte) []source.Entry {
	return analyze(body).links
}

type analysis struct {
	title string
	links []source.Entry
}

func analyze(body []byte) analysis {
	var result analysis
	seen := make(map[string]struct{})

	add := func(destination string) {
		entry, ok := linkTarget(destination)
		if !ok {
			return
		}
		if _, duplicate := seen[entry.QualifiedID()]; duplicate {
			return
		}
		seen[entry.QualifiedID()] = struct{}{}
		result.links = append(result.links, entry)
	}

	document := markdownParser().Parser().Parse(text.NewReader(body))
	ast.Walk(document, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := node.(type) {
		case *ast.Heading:
			if node.Level == 1 && result.title == "" {
				result.title = strings.TrimSpace(inlineText(node, body))
			}
		case *ast.Link:
			add(string(node.Destination))
		case *ast.AutoLink:
			if node.AutoLinkType == ast.AutoLinkURL {
				add(string(node.URL(body)))
			}
		case *ast.Image:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return result
}

// linkTarget interprets a link destination as a qualified entry name.
func linkTarget(destination string) (source.Entry, bool) {
	if index := strings.IndexAny(destination, "#?"); index >= 0 {
		destination = destination[:index]
	}
	entry, err := source.ParseEntry(destination)
	if err != nil {
		return source.Entry{}, false
	}
	// "https://host/a.md" parses as source "https" with path
	// "//host/a.md"; entry paths are always relative.
	if strings.HasPrefix(entry.Path(), "/") {
		return source.Entry{}, false
	}
	return entry, true
}

// inlineText concatenates the text segments under node.
func inlineText(node ast.Node, body []byte) string {
	var builder strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch child := child.(type) {
		case *ast.Text:
			builder.Write(child.Segment.Value(body))
			if child.SoftLineBreak() {
				builder.WriteByte(' ')
			}
		case *ast.String:
			builder.Write(child.Value)
		default:
			builder.WriteString(inlineText(child, body))
		}
	}
	return builder.String()
}

// normalizeMap rewrites the map[any]any values YAML decoding produces
// into map[string]any, recursively, so metadata marshals to JSON.
func normalizeMap(input map[string]any) map[string]any {
	output := make(map[string]any, len(input))
	for key, value := range input {
		output[key] = normalizeValue(value)
	}
	return output
}

func normalizeValue(value any) any {
	switch value := value.(type) {
	case map[string]any:
		return normalizeMap(value)
	case map[any]any:
		output := make(map[string]any, len(value))
		for key, inner := range value {
			output[fmt.Sprint(key)] = normalizeValue(inner)
		}
		return output
	case []any:
		output := make([]any, len(value))
		for i, inner := range value {
			output[i] = normalizeValue(inner)
		}
		return output
	default:
		return value
	}
}

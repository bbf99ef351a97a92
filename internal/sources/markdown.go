// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package sources

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"textmark/internal/catalog"
	"textmark/internal/document"
)

// markdownMeta is the front matter understood by MarkdownSource
type markdownMeta struct {
	Title    string               `yaml:"title" toml:"title" json:"title"`
	Catalogs []catalog.Definition `yaml:"catalogs" toml:"catalogs" json:"catalogs"`
}

// MarkdownSource reads markdown files. Every paragraph, heading and list
// item becomes one document paragraph; code blocks and raw HTML are left
// out. Front matter may set the title and declare extra catalogs.
type MarkdownSource struct {
	md goldmark.Markdown
}

// NewMarkdownSource creates a markdown source
func NewMarkdownSource() *MarkdownSource {
	return &MarkdownSource{md: goldmark.New()}
}

// Name returns the source name
func (s *MarkdownSource) Name() string { return "markdown" }

// Extensions returns the handled extensions
func (s *MarkdownSource) Extensions() []string { return []string{".md", ".markdown"} }

// Load reads a markdown file
func (s *MarkdownSource) Load(path string) (*Loaded, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return s.parse(data)
}

func (s *MarkdownSource) parse(data []byte) (*Loaded, error) {
	var meta markdownMeta
	body, err := frontmatter.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		return nil, fmt.Errorf("error parsing front matter: %w", err)
	}

	var catalogs []catalog.Catalog
	if len(meta.Catalogs) > 0 {
		catalogs, err = catalog.FromDefinitions(meta.Catalogs)
		if err != nil {
			return nil, fmt.Errorf("front matter catalogs: %w", err)
		}
	}

	doc := document.New(strings.TrimSpace(meta.Title))
	root := s.md.Parser().Parse(text.NewReader(body))
	err = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindParagraph, ast.KindHeading, ast.KindTextBlock:
			if p := strings.TrimSpace(inlineText(n, body)); p != "" {
				doc.AppendParagraph(p)
			}
			return ast.WalkSkipChildren, nil
		case ast.KindFencedCodeBlock, ast.KindCodeBlock, ast.KindHTMLBlock:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error reading markdown: %w", err)
	}

	return &Loaded{Document: doc, Catalogs: catalogs}, nil
}

// inlineText collects the literal text below a block node. Soft and hard
// line breaks become spaces.
func inlineText(block ast.Node, source []byte) string {
	var buf strings.Builder
	_ = ast.Walk(block, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		case *ast.AutoLink:
			buf.Write(t.Label(source))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

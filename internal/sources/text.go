// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package sources

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"textmark/internal/document"
)

// TextSource reads plain text files. Paragraphs are separated by blank
// lines; line breaks inside a paragraph become single spaces.
type TextSource struct{}

// NewTextSource creates a plain text source
func NewTextSource() *TextSource {
	return &TextSource{}
}

// Name returns the source name
func (s *TextSource) Name() string { return "text" }

// Extensions returns the handled extensions
func (s *TextSource) Extensions() []string { return []string{".txt", ".text"} }

// Load reads a plain text file
func (s *TextSource) Load(path string) (*Loaded, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	doc := document.New("")
	for _, p := range splitParagraphs(string(data)) {
		doc.AppendParagraph(p)
	}
	return &Loaded{Document: doc}, nil
}

// splitParagraphs splits text on blank lines and folds the remaining line
// breaks into spaces. Empty paragraphs are dropped.
func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var paragraphs []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = current[:0]
		}
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return paragraphs
}

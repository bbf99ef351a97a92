// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package sources

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"textmark/internal/document"
)

// PDFSource reads the plain text of PDF pages. Each non-empty line becomes
// a paragraph and the document keeps a map from pages to paragraphs.
type PDFSource struct {
	// MaxPages limits how many pages are read; zero reads all pages
	MaxPages int
}

// NewPDFSource creates a PDF source
func NewPDFSource() *PDFSource {
	return &PDFSource{}
}

// Name returns the source name
func (s *PDFSource) Name() string { return "pdf" }

// Extensions returns the handled extensions
func (s *PDFSource) Extensions() []string { return []string{".pdf"} }

// Load extracts text page by page
func (s *PDFSource) Load(path string) (*Loaded, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening PDF: %w", err)
	}
	defer f.Close()

	pages := r.NumPage()
	if s.MaxPages > 0 && pages > s.MaxPages {
		pages = s.MaxPages
	}

	doc := document.New(pdfTitle(r))
	starts := make([]int, 0, pages)
	for i := 1; i <= pages; i++ {
		starts = append(starts, doc.ParagraphCount())

		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("error reading page %d: %w", i, err)
		}
		for _, line := range pageLines(text) {
			doc.AppendParagraph(line)
		}
	}
	doc.SetPageStarts(starts)

	return &Loaded{Document: doc}, nil
}

func pdfTitle(r *pdf.Reader) string {
	info := r.Trailer().Key("Info")
	if info.IsNull() {
		return ""
	}
	return strings.TrimSpace(info.Key("Title").Text())
}

func pageLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

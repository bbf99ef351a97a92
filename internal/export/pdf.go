// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"textmark/internal/document"
)

// ErrNeedsPDFSource is returned when a PDF export is requested for a
// document that was not read from a PDF file
var ErrNeedsPDFSource = errors.New("pdf export requires a document loaded from a PDF file")

// PDFExporter copies the source PDF and adds one outline entry per
// bookmark, pointing at the page that holds the bookmarked text
type PDFExporter struct {
	pdfConfig *model.Configuration
}

// NewPDFExporter creates a PDF exporter
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{pdfConfig: model.NewDefaultConfiguration()}
}

// Name returns the exporter name
func (e *PDFExporter) Name() string { return "pdf" }

// Extensions returns the handled extensions
func (e *PDFExporter) Extensions() []string { return []string{".pdf"} }

// Export writes the source PDF of doc to outputPath with bookmarks added.
// Existing outlines are replaced.
func (e *PDFExporter) Export(doc *document.Document, outputPath string) error {
	src := doc.Source()
	if !strings.EqualFold(filepath.Ext(src), ".pdf") {
		return ErrNeedsPDFSource
	}
	if filepath.Clean(src) == filepath.Clean(outputPath) {
		return fmt.Errorf("output path must differ from the source PDF")
	}

	if err := api.ValidateFile(src, e.pdfConfig); err != nil {
		return fmt.Errorf("invalid PDF file: %w", err)
	}

	bookmarks := Outline(doc)
	if len(bookmarks) == 0 {
		return copyFile(src, outputPath)
	}
	if err := api.AddBookmarksFile(src, outputPath, bookmarks, true, e.pdfConfig); err != nil {
		return fmt.Errorf("failed to add bookmarks: %w", err)
	}
	return nil
}

// Outline converts document bookmarks into PDF outline entries ordered by
// position. Documents without a page map point every entry at page 1.
func Outline(doc *document.Document) []pdfcpu.Bookmark {
	var out []pdfcpu.Bookmark
	for _, b := range doc.BookmarksByPosition() {
		page := doc.PageOf(b.Range.Paragraph)
		if page < 1 {
			page = 1
		}
		out = append(out, pdfcpu.Bookmark{PageFrom: page, Title: b.Name})
	}
	return out
}

func copyFile(src, dst string) error {
	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

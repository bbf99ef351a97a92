// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"textmark/internal/document"
	"textmark/internal/observability"
)

// Exporter writes a marked document to a file. Exporters never change the
// document text; bookmarks are written in the target format's own markup.
type Exporter interface {
	// Name returns the exporter name
	Name() string

	// Extensions returns the output extensions handled, dot included
	Extensions() []string

	// Export writes doc to outputPath
	Export(doc *document.Document, outputPath string) error
}

// Registry maps output extensions to exporters
type Registry struct {
	byExt    map[string]Exporter
	observer *observability.StandardObserver
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]Exporter)}
}

// DefaultRegistry returns a registry with every built-in exporter
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewDocxExporter())
	r.Register(NewOdtExporter())
	r.Register(NewPDFExporter())
	return r
}

// Register adds an exporter for all of its extensions
func (r *Registry) Register(e Exporter) {
	for _, ext := range e.Extensions() {
		r.byExt[strings.ToLower(ext)] = e
	}
}

// GetComponentName returns the component identifier
func (r *Registry) GetComponentName() string {
	return "export"
}

// SetObserver enables export timing
func (r *Registry) SetObserver(observer *observability.StandardObserver) {
	r.observer = observer
}

// Extensions returns all registered extensions in sorted order
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Export writes doc to outputPath using the exporter for its extension
func (r *Registry) Export(doc *document.Document, outputPath string) error {
	ext := strings.ToLower(filepath.Ext(outputPath))
	e, ok := r.byExt[ext]
	if !ok {
		return fmt.Errorf("export format not supported: %q (supported: %s)", ext, strings.Join(r.Extensions(), ", "))
	}

	var finish func(bool, map[string]interface{})
	if r.observer != nil {
		finish = r.observer.StartComponent(r, "export_"+e.Name(), outputPath)
	}

	if err := ensureDir(outputPath); err != nil {
		return err
	}
	err := e.Export(doc, outputPath)
	if finish != nil {
		finish(err == nil, map[string]interface{}{"bookmarks": len(doc.Bookmarks())})
	}
	if err != nil {
		return fmt.Errorf("failed to export %s: %w", outputPath, err)
	}
	return nil
}

func ensureDir(outputPath string) error {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// part is one entry of a zip package
type part struct {
	name    string
	content string
	store   bool
}

// writePackage writes parts in order to a new zip file at outputPath
func writePackage(outputPath string, parts []part) (err error) {
	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := outFile.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	zipWriter := zip.NewWriter(outFile)
	for _, p := range parts {
		header := &zip.FileHeader{Name: p.name, Method: zip.Deflate}
		if p.store {
			header.Method = zip.Store
		}
		w, err := zipWriter.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("failed to create ZIP entry for %s: %w", p.name, err)
		}
		if _, err := w.Write([]byte(p.content)); err != nil {
			return fmt.Errorf("failed to write content for %s: %w", p.name, err)
		}
	}
	return zipWriter.Close()
}

// mark is a bookmark boundary inside one paragraph
type mark struct {
	offset int
	id     int
	name   string
	start  bool
}

// paragraphMarks returns the bookmark boundaries of every paragraph. At
// the same offset, ends come before starts so adjacent bookmarks do not
// nest. Ids follow bookmark creation order.
func paragraphMarks(doc *document.Document) map[int][]mark {
	out := make(map[int][]mark)
	for id, b := range doc.Bookmarks() {
		p := b.Range.Paragraph
		out[p] = append(out[p],
			mark{offset: b.Range.Start, id: id, name: b.Name, start: true},
			mark{offset: b.Range.End, id: id, name: b.Name, start: false},
		)
	}
	for p := range out {
		marks := out[p]
		sort.SliceStable(marks, func(i, j int) bool {
			if marks[i].offset != marks[j].offset {
				return marks[i].offset < marks[j].offset
			}
			return !marks[i].start && marks[j].start
		})
	}
	return out
}

// walkParagraph splits text at the marks and calls onText and onMark in
// document order. Empty text segments are skipped.
func walkParagraph(text string, marks []mark, onText func(string), onMark func(mark)) {
	pos := 0
	for _, m := range marks {
		if m.offset > pos {
			onText(text[pos:m.offset])
			pos = m.offset
		}
		onMark(m)
	}
	if pos < len(text) {
		onText(text[pos:])
	}
}

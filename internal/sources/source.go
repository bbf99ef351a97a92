// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package sources

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"textmark/internal/catalog"
	"textmark/internal/document"
	"textmark/internal/observability"
)

// Loaded is a document read from disk together with anything the file
// declares about how it should be marked.
type Loaded struct {
	Document *document.Document

	// Format names the source that produced the document
	Format string

	// Catalogs holds catalogs declared inside the file, such as markdown
	// front matter. Most formats declare none.
	Catalogs []catalog.Catalog
}

// Source reads one family of file formats into a document
type Source interface {
	// Name returns the source name (e.g. "text", "docx")
	Name() string

	// Extensions returns the lower-case file extensions handled, dot included
	Extensions() []string

	// Load reads the file at path
	Load(path string) (*Loaded, error)
}

// Registry maps file extensions to sources
type Registry struct {
	byExt    map[string]Source
	observer *observability.StandardObserver
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]Source)}
}

// DefaultRegistry returns a registry with every built-in source
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewTextSource())
	r.Register(NewMarkdownSource())
	r.Register(NewDocxSource())
	r.Register(NewOdtSource())
	r.Register(NewPDFSource())
	return r
}

// Register adds a source for all of its extensions
func (r *Registry) Register(s Source) {
	for _, ext := range s.Extensions() {
		r.byExt[strings.ToLower(ext)] = s
	}
}

// GetComponentName returns the component identifier
func (r *Registry) GetComponentName() string {
	return "sources"
}

// SetObserver enables load timing
func (r *Registry) SetObserver(observer *observability.StandardObserver) {
	r.observer = observer
}

// ForPath returns the source registered for the extension of path
func (r *Registry) ForPath(path string) (Source, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if s, ok := r.byExt[ext]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("file type not supported: %q (supported: %s)", ext, strings.Join(r.Extensions(), ", "))
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

// Load reads path with the matching source. The returned document has its
// source path set.
func (r *Registry) Load(path string) (*Loaded, error) {
	s, err := r.ForPath(path)
	if err != nil {
		return nil, err
	}

	var finish func(bool, map[string]interface{})
	if r.observer != nil {
		finish = r.observer.StartComponent(r, "load_"+s.Name(), path)
	}

	loaded, err := s.Load(path)
	if err != nil {
		if finish != nil {
			finish(false, map[string]interface{}{"error": err.Error()})
		}
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	loaded.Format = s.Name()
	loaded.Document.SetSource(path)
	if loaded.Document.Title() == "" {
		loaded.Document.SetTitle(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}
	if finish != nil {
		finish(true, map[string]interface{}{
			"paragraphs": loaded.Document.ParagraphCount(),
			"characters": loaded.Document.CharCount(),
		})
	}
	return loaded, nil
}

// Example returns a new document holding the sample story
func Example() *Loaded {
	return &Loaded{Document: document.NewExample(), Format: "example"}
}

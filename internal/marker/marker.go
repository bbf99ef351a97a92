// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package marker

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"textmark/internal/catalog"
	"textmark/internal/logging"
	"textmark/internal/observability"
)

const componentName = "marker"

// Marker runs catalogs of patterns against one document and bookmarks the
// first match of every pattern.
//
// A Marker holds no state between calls. Calls against the same document
// must not overlap; MarkCatalogs processes catalogs one at a time. There
// is no timeout: a port that never returns blocks the call.
type Marker[L any] struct {
	searcher Searcher[L]
	sink     BookmarkSink[L]

	out      io.Writer
	colorize bool
	logger   logging.Logger
	observer *observability.StandardObserver
}

// Option configures a Marker
type Option func(*settings)

type settings struct {
	out      io.Writer
	colorize bool
	logger   logging.Logger
	observer *observability.StandardObserver
}

// WithOutput sets where "Insert bookmark: <name>" lines are written
func WithOutput(w io.Writer) Option {
	return func(s *settings) { s.out = w }
}

// WithColor highlights bookmark names in the output
func WithColor(enabled bool) Option {
	return func(s *settings) { s.colorize = enabled }
}

// WithLogger sets the logger for per-pattern diagnostics
func WithLogger(logger logging.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithObserver enables operation timing
func WithObserver(observer *observability.StandardObserver) Option {
	return func(s *settings) { s.observer = observer }
}

// New creates a Marker for a searcher and sink over the same document
func New[L any](searcher Searcher[L], sink BookmarkSink[L], opts ...Option) *Marker[L] {
	s := settings{out: io.Discard}
	for _, opt := range opts {
		opt(&s)
	}
	if s.out == nil {
		s.out = io.Discard
	}
	return &Marker[L]{
		searcher: searcher,
		sink:     sink,
		out:      s.out,
		colorize: s.colorize,
		logger:   logging.OrNoOp(s.logger),
		observer: s.observer,
	}
}

// GetComponentName returns the component identifier
func (m *Marker[L]) GetComponentName() string {
	return componentName
}

// MarkAll searches every pattern of c in order and bookmarks each first
// match as c.BookmarkName(index). Search and bookmark failures are recorded
// as warnings and never stop the run; bookmarks already created stay.
func (m *Marker[L]) MarkAll(c catalog.Catalog) Result {
	var finish func(bool, map[string]interface{})
	if m.observer != nil {
		finish = m.observer.StartComponent(m, "mark_all", c.Prefix())
	}

	log := logging.WithFields(m.logger, map[string]any{"prefix": c.Prefix()})
	result := Result{
		Prefix:   c.Prefix(),
		Total:    c.Len(),
		Created:  []string{},
		Warnings: []Warning{},
	}

	for index, pattern := range c.Patterns() {
		loc, err := m.searcher.FindFirst(pattern)
		if err != nil {
			result.Warnings = append(result.Warnings, newWarning(index, pattern, reasonFor(err, false), err))
			log.Debug("pattern skipped", "index", index, "pattern", pattern, "error", err)
			continue
		}

		name := c.BookmarkName(index)
		if err := m.sink.CreateBookmark(loc, name); err != nil {
			result.Warnings = append(result.Warnings, newWarning(index, pattern, reasonFor(err, true), err))
			log.Warn("bookmark not created", "name", name, "error", err)
			continue
		}

		result.Created = append(result.Created, name)
		m.announce(name)
	}

	if finish != nil {
		finish(true, map[string]interface{}{
			"patterns":  result.Total,
			"bookmarks": len(result.Created),
			"warnings":  len(result.Warnings),
		})
	}
	return result
}

// MarkCatalogs runs MarkAll for each catalog in sequence
func (m *Marker[L]) MarkCatalogs(catalogs []catalog.Catalog) []Result {
	results := make([]Result, 0, len(catalogs))
	for _, c := range catalogs {
		results = append(results, m.MarkAll(c))
	}
	return results
}

func (m *Marker[L]) announce(name string) {
	if m.colorize {
		name = color.New(color.FgGreen, color.Bold).Sprint(name)
	}
	fmt.Fprintf(m.out, "Insert bookmark: %s\n", name)
}

func newWarning(index int, pattern string, reason Reason, err error) Warning {
	w := Warning{Index: index, Pattern: pattern, Reason: reason, Err: err}
	if err != nil {
		w.Detail = err.Error()
	}
	return w
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"fmt"
	"io"

	"textmark/internal/catalog"
	"textmark/internal/document"
	"textmark/internal/export"
	"textmark/internal/formatters"
	"textmark/internal/history"
	"textmark/internal/logging"
	"textmark/internal/marker"
	"textmark/internal/observability"
	"textmark/internal/sources"
)

// MarkConfig holds configuration for one marking run.
type MarkConfig struct {
	// FilePath is the document to mark. Empty marks the example story.
	FilePath string

	// Catalogs run before any catalogs the document declares itself
	Catalogs []catalog.Catalog

	CaseSensitive bool

	// ExportPath, when set, receives the marked document
	ExportPath string

	// Output receives "Insert bookmark" lines; nil discards them
	Output io.Writer
	Color  bool

	Logger   logging.Logger
	Observer *observability.StandardObserver

	// Sources and Exporters default to the built-in registries
	Sources   *sources.Registry
	Exporters *export.Registry

	// History, when non-nil, records the run
	History *history.Store
}

// MarkResult holds the outcome of a marking run.
type MarkResult struct {
	Document *document.Document
	Format   string
	Catalogs []catalog.Catalog
	Results  []marker.Result
	Export   string
	Run      *history.Run
}

// MarkFile loads a document, marks every catalog in order, then exports
// and records the run when configured. Per-pattern problems are warnings
// in the results; only load, catalog, export and history failures are errors.
func MarkFile(ctx context.Context, cfg MarkConfig) (*MarkResult, error) {
	log := logging.OrNoOp(cfg.Logger)

	srcs := cfg.Sources
	if srcs == nil {
		srcs = sources.DefaultRegistry()
	}
	srcs.SetObserver(cfg.Observer)

	var loaded *sources.Loaded
	if cfg.FilePath == "" {
		loaded = sources.Example()
	} else {
		var err error
		if loaded, err = srcs.Load(cfg.FilePath); err != nil {
			return nil, err
		}
	}
	log.Debug("document loaded", "path", cfg.FilePath, "format", loaded.Format,
		"paragraphs", loaded.Document.ParagraphCount())

	catalogs, err := catalog.Merge(cfg.Catalogs, loaded.Catalogs)
	if err != nil {
		return nil, fmt.Errorf("catalogs: %w", err)
	}

	output := cfg.Output
	if output == nil {
		output = io.Discard
	}
	m := document.NewMarker(loaded.Document, document.SearchOptions{CaseSensitive: cfg.CaseSensitive},
		marker.WithOutput(output),
		marker.WithColor(cfg.Color),
		marker.WithLogger(log),
		marker.WithObserver(cfg.Observer),
	)

	result := &MarkResult{
		Document: loaded.Document,
		Format:   loaded.Format,
		Catalogs: catalogs,
		Results:  m.MarkCatalogs(catalogs),
	}

	if cfg.ExportPath != "" {
		exporters := cfg.Exporters
		if exporters == nil {
			exporters = export.DefaultRegistry()
		}
		exporters.SetObserver(cfg.Observer)
		if err := exporters.Export(loaded.Document, cfg.ExportPath); err != nil {
			return result, err
		}
		result.Export = cfg.ExportPath
		log.Info("document exported", "path", cfg.ExportPath)
	}

	if cfg.History != nil {
		run := history.NewRun(documentName(cfg.FilePath), loaded.Format, result.Results)
		run.Export = result.Export
		if err := cfg.History.Record(ctx, run); err != nil {
			return result, fmt.Errorf("failed to record history: %w", err)
		}
		result.Run = &run
	}

	return result, nil
}

func documentName(path string) string {
	if path == "" {
		return "(example)"
	}
	return path
}

// Report converts the result into a formatter report
func (r *MarkResult) Report(observer *observability.StandardObserver) formatters.Report {
	report := formatters.Report{
		RunID:     observer.RunID(),
		Document:  documentName(r.Document.Source()),
		Source:    r.Format,
		Export:    r.Export,
		Catalogs:  r.Catalogs,
		Results:   r.Results,
		Locations: Locations(r.Document),
		Stats:     observer.Stats(),
	}
	return report
}

// Locations describes every bookmark of doc by name
func Locations(doc *document.Document) map[string]formatters.Location {
	locations := make(map[string]formatters.Location)
	for _, b := range doc.Bookmarks() {
		text, err := doc.Text(b.Range)
		if err != nil {
			continue
		}
		locations[b.Name] = formatters.Location{
			Paragraph: b.Range.Paragraph,
			Page:      doc.PageOf(b.Range.Paragraph),
			Text:      text,
		}
	}
	return locations
}

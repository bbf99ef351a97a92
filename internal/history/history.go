// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"textmark/internal/marker"
	"textmark/internal/resilience"
)

// Run is one recorded marking run
type Run struct {
	bun.BaseModel `bun:"table:runs,alias:r"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id" yaml:"id"`
	Document  string    `bun:"document,notnull" json:"document" yaml:"document"`
	Format    string    `bun:"format,notnull" json:"format" yaml:"format"`
	Export    string    `bun:"export" json:"export,omitempty" yaml:"export,omitempty"`
	Patterns  int       `bun:"patterns,notnull" json:"patterns" yaml:"patterns"`
	Created   int       `bun:"created,notnull" json:"created" yaml:"created"`
	Warnings  int       `bun:"warnings,notnull" json:"warnings" yaml:"warnings"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at" yaml:"created_at"`

	Catalogs []CatalogRun `bun:"-" json:"catalogs" yaml:"catalogs"`
}

// CatalogRun is the outcome of one catalog within a run
type CatalogRun struct {
	bun.BaseModel `bun:"table:catalog_runs,alias:cr"`

	ID        int64     `bun:",pk,autoincrement" json:"-" yaml:"-"`
	RunID     uuid.UUID `bun:"run_id,type:uuid,notnull" json:"-" yaml:"-"`
	Position  int       `bun:"position,notnull" json:"-" yaml:"-"`
	Prefix    string    `bun:"prefix,notnull" json:"prefix" yaml:"prefix"`
	Bookmarks []string  `bun:"bookmarks,type:json" json:"bookmarks" yaml:"bookmarks"`
	Warnings  int       `bun:"warnings,notnull" json:"warnings" yaml:"warnings"`
}

// NewRun builds a run record from marking results
func NewRun(documentPath, format string, results []marker.Result) Run {
	summary := marker.Summarize(results)
	run := Run{
		ID:        uuid.New(),
		Document:  documentPath,
		Format:    format,
		Patterns:  summary.Patterns,
		Created:   summary.Created,
		Warnings:  summary.Warnings,
		CreatedAt: time.Now().UTC(),
	}
	for i, r := range results {
		run.Catalogs = append(run.Catalogs, CatalogRun{
			RunID:     run.ID,
			Position:  i,
			Prefix:    r.Prefix,
			Bookmarks: append([]string{}, r.Created...),
			Warnings:  len(r.Warnings),
		})
	}
	return run
}

// Store persists runs in SQLite
type Store struct {
	db    *bun.DB
	retry resilience.RetryConfig
}

// SetRetry replaces the retry behavior used when the database is busy
func (s *Store) SetRetry(cfg resilience.RetryConfig) {
	s.retry = cfg
}

// Open opens the database at dsn and creates the tables when missing
func Open(ctx context.Context, dsn string) (*Store, error) {
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)

	models := []any{(*Run)(nil), (*CatalogRun)(nil)}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("history: create table %T: %w", model, err)
		}
	}
	return &Store{db: db, retry: resilience.DefaultRetryConfig()}, nil
}

// OpenFile opens (or creates) a history database file
func OpenFile(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("history: create directory: %w", err)
	}
	return Open(ctx, "file:"+filepath.ToSlash(path)+"?_busy_timeout=5000")
}

// Close closes the database
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record stores a run and its catalog outcomes in one transaction. The
// transaction is retried while another process holds the database lock.
func (s *Store) Record(ctx context.Context, run Run) error {
	if s == nil || s.db == nil {
		return errors.New("history: store is not open")
	}
	return resilience.RetryWithBackoff(ctx, s.retry, func(ctx context.Context) error {
		if err := s.record(ctx, run); err != nil {
			return classifyRecordError(run, err)
		}
		return nil
	})
}

// classifyRecordError marks a failed write as retryable only while the
// database is busy or locked
func classifyRecordError(run Run, err error) error {
	switch resilience.ClassifyError(err).Type {
	case resilience.ErrorTypeTransient:
		return resilience.NewTransientError(fmt.Sprintf("history: database busy recording run %s: %v", run.ID, err), err)
	case resilience.ErrorTypeCanceled:
		return err
	default:
		return resilience.NewPermanentError(fmt.Sprintf("history: record run %s: %v", run.ID, err), err)
	}
}

func (s *Store) record(ctx context.Context, run Run) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&run).Exec(ctx); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		if len(run.Catalogs) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().Model(&run.Catalogs).Exec(ctx); err != nil {
			return fmt.Errorf("insert catalog runs: %w", err)
		}
		return nil
	})
}

// List returns the most recent runs first. A limit of zero or less returns
// every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("history: store is not open")
	}

	var runs []Run
	q := s.db.NewSelect().Model(&runs).OrderExpr("r.created_at DESC, r.rowid DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("history: list runs: %w", err)
	}
	if len(runs) == 0 {
		return runs, nil
	}

	ids := make([]uuid.UUID, len(runs))
	byID := make(map[uuid.UUID]int, len(runs))
	for i, r := range runs {
		ids[i] = r.ID
		byID[r.ID] = i
	}

	var catalogs []CatalogRun
	err := s.db.NewSelect().
		Model(&catalogs).
		Where("cr.run_id IN (?)", bun.In(ids)).
		Order("cr.position ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("history: list catalog runs: %w", err)
	}
	for _, c := range catalogs {
		i := byID[c.RunID]
		runs[i].Catalogs = append(runs[i].Catalogs, c)
	}
	return runs, nil
}

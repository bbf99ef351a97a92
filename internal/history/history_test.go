// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package history

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textmark/internal/marker"
	"textmark/internal/resilience"
)

func openMemoryStore(t *testing.T) *Store {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	store, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleResults() []marker.Result {
	return []marker.Result{
		{Prefix: "Offending", Total: 4, Created: []string{"Offending1", "Offending2"}, Warnings: make([]marker.Warning, 2)},
		{Prefix: "BadStyle", Total: 3, Created: []string{"BadStyle2"}, Warnings: make([]marker.Warning, 2)},
	}
}

func TestNewRun(t *testing.T) {
	run := NewRun("story.txt", "text", sampleResults())

	assert.NotEqual(t, uuid.Nil, run.ID)
	assert.Equal(t, 7, run.Patterns)
	assert.Equal(t, 3, run.Created)
	assert.Equal(t, 4, run.Warnings)
	require.Len(t, run.Catalogs, 2)
	assert.Equal(t, run.ID, run.Catalogs[1].RunID)
	assert.Equal(t, 1, run.Catalogs[1].Position)
}

func TestRecordAndList(t *testing.T) {
	ctx := context.Background()
	store := openMemoryStore(t)

	first := NewRun("one.txt", "text", sampleResults())
	first.CreatedAt = time.Now().UTC().Add(-time.Minute)
	second := NewRun("two.md", "markdown", nil)

	require.NoError(t, store.Record(ctx, first))
	require.NoError(t, store.Record(ctx, second))

	runs, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, second.ID, runs[0].ID)
	assert.Empty(t, runs[0].Catalogs)

	got := runs[1]
	assert.Equal(t, "one.txt", got.Document)
	require.Len(t, got.Catalogs, 2)
	assert.Equal(t, "Offending", got.Catalogs[0].Prefix)
	assert.Equal(t, []string{"Offending1", "Offending2"}, got.Catalogs[0].Bookmarks)
	assert.Equal(t, []string{"BadStyle2"}, got.Catalogs[1].Bookmarks)

	limited, err := store.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, second.ID, limited[0].ID)
}

func TestRecord_DuplicateIsNotRetried(t *testing.T) {
	ctx := context.Background()
	store := openMemoryStore(t)

	retries := 0
	cfg := resilience.DefaultRetryConfig()
	cfg.OnRetry = func(int, error) { retries++ }
	store.SetRetry(cfg)

	run := NewRun("one.txt", "text", sampleResults())
	require.NoError(t, store.Record(ctx, run))

	err := store.Record(ctx, run)
	require.Error(t, err)
	assert.False(t, resilience.IsRetryable(err))
	assert.Zero(t, retries)

	var classified *resilience.ClassifiedError
	require.ErrorAs(t, err, &classified)
	assert.Equal(t, resilience.ErrorTypePermanent, classified.Type)
	assert.Contains(t, err.Error(), "history: record run "+run.ID.String())

	var sqliteErr sqlite3.Error
	require.ErrorAs(t, err, &sqliteErr)
	assert.Equal(t, sqlite3.ErrConstraint, sqliteErr.Code)
}

func TestClassifyRecordError(t *testing.T) {
	run := NewRun("one.txt", "text", nil)

	busy := classifyRecordError(run, fmt.Errorf("insert run: %w", sqlite3.Error{Code: sqlite3.ErrBusy}))
	assert.True(t, resilience.IsRetryable(busy))
	assert.Contains(t, busy.Error(), "database busy")

	canceled := classifyRecordError(run, fmt.Errorf("insert run: %w", context.Canceled))
	assert.ErrorIs(t, canceled, context.Canceled)
	assert.False(t, resilience.IsRetryable(canceled))

	other := classifyRecordError(run, errors.New("disk I/O error"))
	assert.False(t, resilience.IsRetryable(other))
}

func TestOpenFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "history.db")

	store, err := OpenFile(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Record(ctx, NewRun("a.txt", "text", sampleResults())))
	require.NoError(t, store.Close())

	reopened, err := OpenFile(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	runs, err := reopened.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestClosedStore(t *testing.T) {
	var s *Store
	assert.NoError(t, s.Close())
	assert.Error(t, s.Record(context.Background(), Run{}))
	_, err := s.List(context.Background(), 1)
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	run := NewRun("story.txt", "text", sampleResults())

	text, err := Format([]Run{run}, "text")
	require.NoError(t, err)
	assert.Contains(t, text, "3/7")
	assert.Contains(t, text, "story.txt")
	assert.Contains(t, text, "Offending1, Offending2")

	js, err := Format([]Run{run}, "json")
	require.NoError(t, err)
	assert.Contains(t, js, `"document": "story.txt"`)

	yml, err := Format(nil, "yaml")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", yml)

	empty, err := Format(nil, "text")
	require.NoError(t, err)
	assert.Equal(t, "No runs recorded.", empty)

	_, err = Format(nil, "junit")
	assert.Error(t, err)
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"textmark/internal/logging"
)

// DefaultDelay is how long a file must stay quiet before a change fires
const DefaultDelay = 200 * time.Millisecond

// ErrPathNotExist is returned when the watched file does not exist
var ErrPathNotExist = errors.New("watched file does not exist")

// Watcher reports changes to a single file. The parent directory is
// watched so editors that replace the file on save are still seen.
type Watcher struct {
	path    string
	delay   time.Duration
	logger  logging.Logger
	watcher *fsnotify.Watcher
}

// Option configures a Watcher
type Option func(*Watcher)

// WithDelay sets the quiet period used to coalesce bursts of events
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithLogger sets the logger used for watch errors
func WithLogger(logger logging.Logger) Option {
	return func(w *Watcher) { w.logger = logging.OrNoOp(logger) }
}

// New starts watching path. Call Run to receive changes and Close when done.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(abs); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotExist, path)
		}
		return nil, err
	}

	w := &Watcher{path: abs, delay: DefaultDelay, logger: logging.NoOp()}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	w.watcher = fsw
	return w, nil
}

// Path returns the absolute path being watched
func (w *Watcher) Path() string {
	return w.path
}

// Run calls onChange after every burst of writes to the file until ctx is
// done. Errors from onChange are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context) error) error {
	timer := time.NewTimer(w.delay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				timer.Reset(w.delay)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "path", w.path, "error", err)

		case <-timer.C:
			if err := onChange(ctx); err != nil {
				w.logger.Error("re-run failed", "path", w.path, "error", err)
			}
		}
	}
}

// Close stops watching
func (w *Watcher) Close() error {
	if w.watcher == nil {
		return nil
	}
	return w.watcher.Close()
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mattn/go-sqlite3"
)

func fastConfig(retries int) RetryConfig {
	return RetryConfig{
		MaxRetries:      retries,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2.0,
	}
}

func TestRetryWithBackoff_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), fastConfig(3), func(ctx context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetryWithBackoff_RetriesBusyDatabase(t *testing.T) {
	calls := 0
	busy := fmt.Errorf("history: insert run: %w", sqlite3.Error{Code: sqlite3.ErrBusy})

	err := RetryWithBackoff(context.Background(), fastConfig(3), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return busy
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetryWithBackoff_StopsOnConstraintViolation(t *testing.T) {
	calls := 0
	constraint := sqlite3.Error{Code: sqlite3.ErrConstraint}

	err := RetryWithBackoff(context.Background(), fastConfig(5), func(ctx context.Context) error {
		calls++
		return constraint
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetryWithBackoff_ExhaustsRetries(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), fastConfig(2), func(ctx context.Context) error {
		calls++
		return NewTransientError("locked", nil)
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetryWithBackoff_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	cfg := RetryConfig{
		MaxRetries:      10,
		InitialInterval: 50 * time.Millisecond,
		Multiplier:      1.0,
		OnRetry: func(attempt int, err error) {
			cancel()
		},
	}
	err := RetryWithBackoff(ctx, cfg, func(ctx context.Context) error {
		calls++
		return NewTransientError("locked", nil)
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls before cancellation, got %d", calls)
	}
}

func TestRetryWithBackoff_OnRetryCallback(t *testing.T) {
	var attempts []int
	cfg := fastConfig(2)
	cfg.OnRetry = func(attempt int, err error) {
		attempts = append(attempts, attempt)
	}
	_ = RetryWithBackoff(context.Background(), cfg, func(ctx context.Context) error {
		return NewTransientError("locked", nil)
	})
	if len(attempts) != 2 || attempts[0] != 1 || attempts[1] != 2 {
		t.Errorf("unexpected retry attempts %v", attempts)
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()
	if cfg.MaxRetries <= 0 {
		t.Error("MaxRetries should be positive")
	}
	if cfg.Multiplier <= 1.0 {
		t.Error("Multiplier should be > 1.0 for exponential backoff")
	}
	if cfg.MaxInterval < cfg.InitialInterval {
		t.Error("MaxInterval should be >= InitialInterval")
	}
}

func TestClassifyError(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		wantType  ErrorType
		retryable bool
	}{
		{"busy", sqlite3.Error{Code: sqlite3.ErrBusy}, ErrorTypeTransient, true},
		{"locked wrapped", fmt.Errorf("tx: %w", sqlite3.Error{Code: sqlite3.ErrLocked}), ErrorTypeTransient, true},
		{"constraint", sqlite3.Error{Code: sqlite3.ErrConstraint}, ErrorTypePermanent, false},
		{"canceled", fmt.Errorf("insert: %w", context.Canceled), ErrorTypeCanceled, false},
		{"plain", errors.New("boom"), ErrorTypeUnknown, false},
		{"preclassified", NewPermanentError("nope", nil), ErrorTypePermanent, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyError(tc.err)
			if got.Type != tc.wantType {
				t.Errorf("type = %s, want %s", got.Type, tc.wantType)
			}
			if got.IsRetryable() != tc.retryable {
				t.Errorf("retryable = %v, want %v", got.IsRetryable(), tc.retryable)
			}
			if IsRetryable(tc.err) != tc.retryable {
				t.Errorf("IsRetryable = %v, want %v", IsRetryable(tc.err), tc.retryable)
			}
		})
	}
	if ClassifyError(nil) != nil {
		t.Error("ClassifyError(nil) should be nil")
	}
}

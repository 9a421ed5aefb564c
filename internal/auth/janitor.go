// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/oops"
)

// DefaultJanitorInterval is how often expired rows are purged when no
// interval is configured.
const DefaultJanitorInterval = 15 * time.Minute

// Janitor periodically removes expired sessions and reset tokens. Expired
// rows are already treated as absent, so purging them is housekeeping only.
type Janitor struct {
	sessions SessionRepository
	resets   PasswordResetRepository
	interval time.Duration
	logger   *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewJanitor creates a Janitor. A non-positive interval selects DefaultJanitorInterval.
func NewJanitor(sessions SessionRepository, resets PasswordResetRepository, interval time.Duration, logger *slog.Logger) (*Janitor, error) {
	if sessions == nil {
		return nil, oops.Code("JANITOR_INVALID_DEPENDENCY").Errorf("sessions repository is required")
	}
	if resets == nil {
		return nil, oops.Code("JANITOR_INVALID_DEPENDENCY").Errorf("reset repository is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = DefaultJanitorInterval
	}
	return &Janitor{
		sessions: sessions,
		resets:   resets,
		interval: interval,
		logger:   logger,
	}, nil
}

// RunOnce executes a single purge cycle. Both purges are attempted even if
// the first fails; errors are combined.
func (j *Janitor) RunOnce(ctx context.Context) error {
	var errs []error

	sessions, err := j.sessions.DeleteExpired(ctx)
	if err != nil {
		errs = append(errs, oops.Code("JANITOR_PURGE_FAILED").
			With("operation", "delete expired sessions").
			Wrap(err))
	} else if sessions > 0 {
		j.logger.InfoContext(ctx, "purged expired sessions", "count", sessions)
	}

	resets, err := j.resets.DeleteExpired(ctx)
	if err != nil {
		errs = append(errs, oops.Code("JANITOR_PURGE_FAILED").
			With("operation", "delete expired reset tokens").
			Wrap(err))
	} else if resets > 0 {
		j.logger.InfoContext(ctx, "purged expired reset tokens", "count", resets)
	}

	return errors.Join(errs...)
}

// Start begins periodic purging in a background goroutine.
func (j *Janitor) Start(ctx context.Context) {
	ctx, j.cancel = context.WithCancel(ctx)
	j.wg.Add(1)
	go j.run(ctx)
}

// Stop stops the janitor and waits for the current cycle to finish.
func (j *Janitor) Stop() {
	if j.cancel != nil {
		j.cancel()
	}
	j.wg.Wait()
}

func (j *Janitor) run(ctx context.Context) {
	defer j.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	if err := j.RunOnce(ctx); err != nil {
		j.logger.ErrorContext(ctx, "janitor cycle failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.RunOnce(ctx); err != nil {
				j.logger.ErrorContext(ctx, "janitor cycle failed", "error", err)
			}
		}
	}
}

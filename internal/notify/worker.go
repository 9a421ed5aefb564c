// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/samber/oops"
	"github.com/segmentio/kafka-go"
	"github.com/sethvargo/go-retry"

	"github.com/wardrobe-app/wardrobe/internal/auth"
	"github.com/wardrobe-app/wardrobe/internal/logging"
	"github.com/wardrobe-app/wardrobe/internal/observability"
	"github.com/wardrobe-app/wardrobe/pkg/errutil"
)

// Results recorded in wardrobe_reset_notifications_total.
const (
	ResultSent      = "sent"
	ResultFailed    = "failed"
	ResultMalformed = "malformed"
	ResultDuplicate = "duplicate"
	ResultExpired   = "expired"
)

// DefaultDedupeSize is how many delivered request IDs a Worker remembers.
const DefaultDedupeSize = 4096

// MessageReader is the part of *kafka.Reader the worker uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaReader returns a consumer-group reader for topic.
func NewKafkaReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 1 << 20,
		MaxWait:  time.Second,
	})
}

// Worker turns ResetRequested messages into emails.
type Worker struct {
	reader   MessageReader
	sender   Sender
	linkBase string
	logger   *slog.Logger
	metrics  *observability.Metrics
	backoff  func() retry.Backoff
	seen     *recentSet
	now      func() time.Time
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithWorkerLogger sets the worker logger.
func WithWorkerLogger(logger *slog.Logger) WorkerOption {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithWorkerMetrics records message outcomes in m.
func WithWorkerMetrics(m *observability.Metrics) WorkerOption {
	return func(w *Worker) { w.metrics = m }
}

// WithDeliveryBackoff sets the retry policy for a single delivery. newBackoff
// is called once per message because backoffs are stateful.
func WithDeliveryBackoff(newBackoff func() retry.Backoff) WorkerOption {
	return func(w *Worker) { w.backoff = newBackoff }
}

// WithDedupeSize sets how many delivered tokens are remembered.
func WithDedupeSize(n int) WorkerOption {
	return func(w *Worker) { w.seen = newRecentSet(n) }
}

// WithWorkerClock overrides the time source used to skip expired tokens.
func WithWorkerClock(now func() time.Time) WorkerOption {
	return func(w *Worker) { w.now = now }
}

func defaultDeliveryBackoff() retry.Backoff {
	b := retry.NewExponential(500 * time.Millisecond)
	b = retry.WithCappedDuration(10*time.Second, b)
	return retry.WithMaxRetries(5, b)
}

// NewWorker creates a Worker reading from reader and delivering through sender.
func NewWorker(reader MessageReader, sender Sender, linkBase string, opts ...WorkerOption) (*Worker, error) {
	if reader == nil {
		return nil, oops.Code("NOTIFY_INVALID_DEPENDENCY").Errorf("message reader is required")
	}
	if sender == nil {
		return nil, oops.Code("NOTIFY_INVALID_DEPENDENCY").Errorf("sender is required")
	}
	if linkBase == "" {
		return nil, oops.Code("NOTIFY_INVALID_DEPENDENCY").Errorf("reset link base is required")
	}

	w := &Worker{
		reader:   reader,
		sender:   sender,
		linkBase: linkBase,
		logger:   slog.Default(),
		backoff:  defaultDeliveryBackoff,
		seen:     newRecentSet(DefaultDedupeSize),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run consumes messages until ctx is cancelled, which returns nil. A message
// is committed once it is delivered, a duplicate, expired or malformed. When
// delivery still fails after retries Run returns the error without committing,
// so the message is redelivered when the worker restarts.
func (w *Worker) Run(ctx context.Context) error {
	for {
		msg, err := w.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return oops.Code("NOTIFY_FETCH_FAILED").Wrap(err)
		}

		if err := w.handle(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if err := w.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return oops.Code("NOTIFY_COMMIT_FAILED").
				With("partition", msg.Partition).
				With("offset", msg.Offset).
				Wrap(err)
		}
	}
}

func (w *Worker) handle(ctx context.Context, msg kafka.Message) error {
	var req auth.ResetRequested
	if err := json.Unmarshal(msg.Value, &req); err != nil || req.Email == "" || req.Token == "" {
		w.logger.WarnContext(ctx, "dropping malformed reset notification",
			"partition", msg.Partition,
			"offset", msg.Offset,
			"error", err)
		w.metrics.RecordResetNotification(ResultMalformed)
		return nil
	}

	if req.RequestID == "" {
		req.RequestID = headerValue(msg, RequestIDHeader)
	}
	ctx = logging.WithRequestID(ctx, req.RequestID)

	// Each message carries a freshly minted token; the request id is client
	// supplied and can repeat across unrelated reset requests.
	key := auth.HashResetToken(req.Token)
	if w.seen.Contains(key) {
		w.logger.DebugContext(ctx, "skipping already delivered reset notification")
		w.metrics.RecordResetNotification(ResultDuplicate)
		return nil
	}

	if !req.ExpiresAt.IsZero() && !w.now().Before(req.ExpiresAt) {
		w.logger.InfoContext(ctx, "skipping expired reset notification", "expires_at", req.ExpiresAt)
		w.metrics.RecordResetNotification(ResultExpired)
		return nil
	}

	email, err := RenderResetEmail(w.linkBase, req.Email, req.Token, req.ExpiresAt)
	if err != nil {
		return err
	}

	err = retry.Do(ctx, w.backoff(), func(ctx context.Context) error {
		if err := w.sender.Send(ctx, email); err != nil {
			w.logger.WarnContext(ctx, "reset email delivery attempt failed", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		w.metrics.RecordResetNotification(ResultFailed)
		err = oops.Code("NOTIFY_DELIVERY_FAILED").
			With("request_id", req.RequestID).
			Wrap(err)
		errutil.LogErrorContext(ctx, w.logger, "reset email delivery failed", err)
		return err
	}

	w.seen.Add(key)
	w.metrics.RecordResetNotification(ResultSent)
	w.logger.InfoContext(ctx, "reset email delivered")
	return nil
}

func headerValue(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

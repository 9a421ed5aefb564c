// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

package notify_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/sethvargo/go-retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/wardrobe-app/wardrobe/internal/auth"
	"github.com/wardrobe-app/wardrobe/internal/logging"
	"github.com/wardrobe-app/wardrobe/internal/notify"
	"github.com/wardrobe-app/wardrobe/internal/observability"
	"github.com/wardrobe-app/wardrobe/pkg/errutil"
)

const linkBase = "https://wardrobe.example/reset"

func fastBackoff() retry.Backoff {
	return retry.WithMaxRetries(2, retry.NewConstant(time.Millisecond))
}

type workerFixture struct {
	reader  *fakeReader
	sender  *fakeSender
	metrics *observability.Metrics
	logs    *bytes.Buffer
	worker  *notify.Worker
}

func newWorkerFixture(t *testing.T, sendFailures int, msgs ...kafka.Message) *workerFixture {
	t.Helper()
	f := &workerFixture{
		reader:  newFakeReader(msgs...),
		sender:  newFakeSender(sendFailures),
		metrics: observability.NewMetrics(prometheus.NewRegistry()),
		logs:    &bytes.Buffer{},
	}
	w, err := notify.NewWorker(f.reader, f.sender, linkBase,
		notify.WithWorkerLogger(logging.Setup("wardrobe-worker", "test", "json", slog.LevelDebug, f.logs)),
		notify.WithWorkerMetrics(f.metrics),
		notify.WithDeliveryBackoff(fastBackoff),
	)
	require.NoError(t, err)
	f.worker = w
	return f
}

// runUntil runs the worker until n messages are committed, then stops it.
func (f *workerFixture) runUntil(t *testing.T, n int) error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- f.worker.Run(ctx) }()

	require.Eventually(t, func() bool {
		return len(f.reader.committedOffsets()) >= n
	}, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
		return nil
	}
}

func (f *workerFixture) count(result string) float64 {
	return testutil.ToFloat64(f.metrics.ResetNotifications.WithLabelValues(result))
}

func validRequest(id string) auth.ResetRequested {
	return auth.ResetRequested{
		RequestID: id,
		Email:     "a@x.com",
		Token:     "tok/en+1",
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestNewWorker_Validation(t *testing.T) {
	_, err := notify.NewWorker(nil, newFakeSender(0), linkBase)
	assert.ErrorContains(t, err, "message reader is required")

	_, err = notify.NewWorker(newFakeReader(), nil, linkBase)
	assert.ErrorContains(t, err, "sender is required")

	_, err = notify.NewWorker(newFakeReader(), newFakeSender(0), "")
	assert.ErrorContains(t, err, "reset link base is required")
}

func TestWorker_DeliversAndCommits(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newWorkerFixture(t, 0, resetMessage(t, validRequest("req-1")))
	require.NoError(t, f.runUntil(t, 1))

	emails := f.sender.emails()
	require.Len(t, emails, 1)
	assert.Equal(t, "a@x.com", emails[0].To)
	assert.Equal(t, linkBase+"?token=tok%2Fen%2B1", emails[0].Link)
	assert.Equal(t, []int64{0}, f.reader.committedOffsets())
	assert.InDelta(t, 1, f.count(notify.ResultSent), 0)
	assert.Contains(t, f.logs.String(), `"request_id":"req-1"`)
}

func TestWorker_RetriesTransientFailures(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newWorkerFixture(t, 2, resetMessage(t, validRequest("req-1")))
	require.NoError(t, f.runUntil(t, 1))

	assert.Len(t, f.sender.emails(), 1)
	assert.InDelta(t, 1, f.count(notify.ResultSent), 0)
}

func TestWorker_SkipsRedeliveredDuplicate(t *testing.T) {
	defer goleak.VerifyNone(t)

	msg := resetMessage(t, validRequest("req-1"))
	f := newWorkerFixture(t, 0, msg, msg)
	require.NoError(t, f.runUntil(t, 2))

	assert.Len(t, f.sender.emails(), 1, "second copy must not send another email")
	assert.Equal(t, []int64{0, 1}, f.reader.committedOffsets())
	assert.InDelta(t, 1, f.count(notify.ResultDuplicate), 0)
}

func TestWorker_RepeatedRequestIDWithNewTokenIsDelivered(t *testing.T) {
	defer goleak.VerifyNone(t)

	first := validRequest("shared-id")
	second := validRequest("shared-id")
	second.Email = "b@x.com"
	second.Token = "tok/en+2"

	f := newWorkerFixture(t, 0, resetMessage(t, first), resetMessage(t, second))
	require.NoError(t, f.runUntil(t, 2))

	emails := f.sender.emails()
	require.Len(t, emails, 2, "a reused request id must not suppress another user's email")
	assert.Equal(t, "a@x.com", emails[0].To)
	assert.Equal(t, "b@x.com", emails[1].To)
	assert.InDelta(t, 0, f.count(notify.ResultDuplicate), 0)
}

func TestWorker_DedupesWithoutRequestID(t *testing.T) {
	defer goleak.VerifyNone(t)

	msg := resetMessage(t, validRequest(""))
	f := newWorkerFixture(t, 0, msg, msg)
	require.NoError(t, f.runUntil(t, 2))

	assert.Len(t, f.sender.emails(), 1)
	assert.InDelta(t, 1, f.count(notify.ResultDuplicate), 0)
}

func TestWorker_CommitsPoisonMessages(t *testing.T) {
	defer goleak.VerifyNone(t)

	expired := validRequest("req-old")
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	missingToken := validRequest("req-2")
	missingToken.Token = ""

	f := newWorkerFixture(t, 0,
		kafka.Message{Value: []byte("{not json")},
		resetMessage(t, missingToken),
		resetMessage(t, expired),
		resetMessage(t, validRequest("req-3")),
	)
	require.NoError(t, f.runUntil(t, 4))

	assert.Len(t, f.sender.emails(), 1)
	assert.Equal(t, []int64{0, 1, 2, 3}, f.reader.committedOffsets())
	assert.InDelta(t, 2, f.count(notify.ResultMalformed), 0)
	assert.InDelta(t, 1, f.count(notify.ResultExpired), 0)
	assert.Contains(t, f.logs.String(), "dropping malformed reset notification")
}

func TestWorker_RequestIDFromHeader(t *testing.T) {
	defer goleak.VerifyNone(t)

	req := validRequest("")
	msg := resetMessage(t, req)
	msg.Headers = []kafka.Header{{Key: notify.RequestIDHeader, Value: []byte("hdr-1")}}

	f := newWorkerFixture(t, 0, msg, msg)
	require.NoError(t, f.runUntil(t, 2))

	assert.Len(t, f.sender.emails(), 1)
	assert.Contains(t, f.logs.String(), `"request_id":"hdr-1"`)
}

func TestWorker_DeliveryFailureStopsWithoutCommit(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newWorkerFixture(t, 100, resetMessage(t, validRequest("req-1")))

	err := f.worker.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errSMTPDown)
	errutil.AssertErrorContext(t, err, "request_id", "req-1")
	assert.Empty(t, f.reader.committedOffsets())
	assert.InDelta(t, 1, f.count(notify.ResultFailed), 0)
}

func TestWorker_CommitFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newWorkerFixture(t, 0, resetMessage(t, validRequest("req-1")))
	f.reader.commitErr = errors.New("coordinator not available")

	err := f.worker.Run(context.Background())
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "NOTIFY_COMMIT_FAILED")
}

func TestWorker_StopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newWorkerFixture(t, 0)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- f.worker.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}

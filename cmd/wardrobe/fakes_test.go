// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

package main

import (
	"bytes"
	"context"
	"errors"
	"net"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/wardrobe-app/wardrobe/internal/config"
	"github.com/wardrobe-app/wardrobe/internal/notify"
	"github.com/wardrobe-app/wardrobe/internal/observability"
)

const (
	testAccessSecret  = "access-secret-access-secret-access-secret"
	testRefreshSecret = "refresh-secret-refresh-secret-refresh-secret"
)

// stubPool answers every write with an empty command tag. Reads find no rows.
type stubPool struct {
	mu     sync.Mutex
	execs  []string
	closed bool
}

func (p *stubPool) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.execs = append(p.execs, sql)
	return pgconn.NewCommandTag("DELETE 0"), nil
}

func (p *stubPool) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("stub pool: query not supported")
}

func (p *stubPool) QueryRow(context.Context, string, ...any) pgx.Row {
	return stubRow{}
}

func (p *stubPool) Begin(context.Context) (pgx.Tx, error) {
	return nil, errors.New("stub pool: transactions not supported")
}

func (p *stubPool) Ping(context.Context) error { return nil }

func (p *stubPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

func (p *stubPool) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *stubPool) execCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.execs)
}

type stubRow struct{}

func (stubRow) Scan(...any) error { return pgx.ErrNoRows }

// mockObservabilityServer implements ObservabilityServer for testing.
type mockObservabilityServer struct {
	startFunc func() (<-chan error, error)
	metrics   *observability.Metrics
	ready     observability.ReadinessChecker

	mu      sync.Mutex
	stopped bool
}

func (m *mockObservabilityServer) Start() (<-chan error, error) {
	if m.startFunc != nil {
		return m.startFunc()
	}
	return make(chan error, 1), nil
}

func (m *mockObservabilityServer) Stop(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	return nil
}

func (m *mockObservabilityServer) Addr() string { return "127.0.0.1:9100" }

func (m *mockObservabilityServer) Metrics() *observability.Metrics {
	if m.metrics == nil {
		m.metrics = observability.NewMetrics(prometheus.NewRegistry())
	}
	return m.metrics
}

func (m *mockObservabilityServer) wasStopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *fakeWriter) isClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// fakeReader hands out queued messages and then blocks until ctx is done.
type fakeReader struct {
	queue chan kafka.Message

	mu        sync.Mutex
	committed []kafka.Message
	closed    bool
}

func newFakeReader(msgs ...kafka.Message) *fakeReader {
	r := &fakeReader{queue: make(chan kafka.Message, len(msgs)+1)}
	for i, m := range msgs {
		m.Offset = int64(i)
		r.queue <- m
	}
	return r
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.queue:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *fakeReader) committedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed)
}

type recordingSender struct {
	mu     sync.Mutex
	emails []notify.Email
	err    error
}

func (s *recordingSender) Send(_ context.Context, email notify.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.emails = append(s.emails, email)
	return nil
}

func (s *recordingSender) sent() []notify.Email {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notify.Email(nil), s.emails...)
}

// fakeMigrator records calls and reports a fixed schema state.
type fakeMigrator struct {
	version  uint
	dirty    bool
	applied  []uint
	pending  []uint
	err      error
	closeErr error

	calls []string
}

func (m *fakeMigrator) Up() error {
	m.calls = append(m.calls, "up")
	return m.err
}

func (m *fakeMigrator) Down() error {
	m.calls = append(m.calls, "down")
	return m.err
}

func (m *fakeMigrator) Steps(n int) error {
	m.calls = append(m.calls, "steps")
	if m.err != nil {
		return m.err
	}
	if n < 0 && int(m.version) >= -n {
		m.version -= uint(-n)
	}
	return nil
}

func (m *fakeMigrator) Version() (uint, bool, error) {
	return m.version, m.dirty, m.err
}

func (m *fakeMigrator) Force(version int) error {
	m.calls = append(m.calls, "force")
	if m.err != nil {
		return m.err
	}
	m.version = uint(version)
	m.dirty = false
	return nil
}

func (m *fakeMigrator) PendingMigrations() ([]uint, error) { return m.pending, m.err }

func (m *fakeMigrator) AppliedMigrations() ([]uint, error) { return m.applied, m.err }

func (m *fakeMigrator) Close() error {
	m.calls = append(m.calls, "close")
	return m.closeErr
}

// newMockCmd returns a bare command whose output is captured.
func newMockCmd() (*cobra.Command, *bytes.Buffer) {
	out := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	return cmd, out
}

// testConfig returns defaults with token secrets filled in.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	cfg.Tokens.AccessSecret = testAccessSecret
	cfg.Tokens.RefreshSecret = testRefreshSecret
	cfg.HTTP.Addr = "127.0.0.1:0"
	cfg.SMTP.Host = ""
	return cfg
}

// syncBuffer is a bytes.Buffer safe for concurrent log writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// serveFixture wires fakes for every external system the API touches.
type serveFixture struct {
	pool   *stubPool
	redis  *miniredis.Miniredis
	writer *fakeWriter
	obs    *mockObservabilityServer
	logs   *syncBuffer
	addrCh chan string
	deps   *ServeDeps
}

func newServeFixture(t *testing.T) *serveFixture {
	t.Helper()
	f := &serveFixture{
		pool:   &stubPool{},
		redis:  miniredis.RunT(t),
		writer: &fakeWriter{},
		obs:    &mockObservabilityServer{},
		logs:   &syncBuffer{},
		addrCh: make(chan string, 1),
	}
	f.deps = &ServeDeps{
		PoolFactory: func(context.Context, string) (Pool, error) {
			return f.pool, nil
		},
		RedisFactory: func(context.Context, string) (redis.UniversalClient, error) {
			return redis.NewClient(&redis.Options{Addr: f.redis.Addr()}), nil
		},
		WriterFactory: func([]string) notify.MessageWriter {
			return f.writer
		},
		ObservabilityServerFactory: func(_ string, ready observability.ReadinessChecker) ObservabilityServer {
			f.obs.ready = ready
			return f.obs
		},
		ListenerFactory: func(network, address string) (net.Listener, error) {
			l, err := net.Listen(network, address)
			if err == nil {
				f.addrCh <- l.Addr().String()
			}
			return l, err
		},
		LogOutput: f.logs,
	}
	return f
}

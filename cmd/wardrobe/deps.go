// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

package main

import (
	"context"
	"io"
	"log/slog"
	"net"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"

	"github.com/wardrobe-app/wardrobe/internal/config"
	"github.com/wardrobe-app/wardrobe/internal/notify"
	"github.com/wardrobe-app/wardrobe/internal/observability"
	"github.com/wardrobe-app/wardrobe/internal/revocation"
	"github.com/wardrobe-app/wardrobe/internal/store"
)

// ServeDeps contains injectable dependencies for the serve command.
// All fields with nil values will use their default implementations.
type ServeDeps struct {
	// PoolFactory opens the PostgreSQL pool.
	// Default: store.Connect
	PoolFactory func(ctx context.Context, url string) (Pool, error)

	// RedisFactory opens the denylist client.
	// Default: revocation.Connect
	RedisFactory func(ctx context.Context, url string) (redis.UniversalClient, error)

	// WriterFactory creates the reset-queue writer.
	// Default: notify.NewKafkaWriter
	WriterFactory func(brokers []string) notify.MessageWriter

	// ObservabilityServerFactory creates an observability server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer

	// ListenerFactory creates the API listener.
	// Default: net.Listen
	ListenerFactory func(network, address string) (net.Listener, error)

	// LogOutput receives log records.
	// Default: os.Stderr
	LogOutput io.Writer
}

// WorkerDeps contains injectable dependencies for the worker command.
// All fields with nil values will use their default implementations.
type WorkerDeps struct {
	// ReaderFactory creates the reset-queue consumer.
	// Default: notify.NewKafkaReader
	ReaderFactory func(brokers []string, topic, groupID string) notify.MessageReader

	// SenderFactory creates the mail sender for the SMTP settings.
	// Default: SMTP when a host is configured, otherwise a log-only sender.
	SenderFactory func(cfg config.SMTPConfig, logger *slog.Logger) (notify.Sender, error)

	// ObservabilityServerFactory creates an observability server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer

	// LogOutput receives log records.
	// Default: os.Stderr
	LogOutput io.Writer
}

// MigrateDeps contains injectable dependencies for the migrate command.
type MigrateDeps struct {
	// MigratorFactory creates a migrator for the database URL.
	// Default: store.NewMigrator
	MigratorFactory func(url string) (Migrator, error)
}

// Pool wraps the methods used from *pgxpool.Pool.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// ObservabilityServer wraps the methods used from observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Metrics() *observability.Metrics
}

// Migrator wraps the methods used from store.Migrator.
type Migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (version uint, dirty bool, err error)
	Force(version int) error
	PendingMigrations() ([]uint, error)
	AppliedMigrations() ([]uint, error)
	Close() error
}

func (d *ServeDeps) withDefaults() *ServeDeps {
	out := ServeDeps{}
	if d != nil {
		out = *d
	}
	if out.PoolFactory == nil {
		out.PoolFactory = func(ctx context.Context, url string) (Pool, error) {
			return store.Connect(ctx, url)
		}
	}
	if out.RedisFactory == nil {
		out.RedisFactory = func(ctx context.Context, url string) (redis.UniversalClient, error) {
			return revocation.Connect(ctx, url, nil)
		}
	}
	if out.WriterFactory == nil {
		out.WriterFactory = func(brokers []string) notify.MessageWriter {
			return notify.NewKafkaWriter(brokers)
		}
	}
	if out.ObservabilityServerFactory == nil {
		out.ObservabilityServerFactory = defaultObservabilityServer
	}
	if out.ListenerFactory == nil {
		out.ListenerFactory = net.Listen
	}
	return &out
}

func (d *WorkerDeps) withDefaults() *WorkerDeps {
	out := WorkerDeps{}
	if d != nil {
		out = *d
	}
	if out.ReaderFactory == nil {
		out.ReaderFactory = func(brokers []string, topic, groupID string) notify.MessageReader {
			return notify.NewKafkaReader(brokers, topic, groupID)
		}
	}
	if out.SenderFactory == nil {
		out.SenderFactory = defaultSender
	}
	if out.ObservabilityServerFactory == nil {
		out.ObservabilityServerFactory = defaultObservabilityServer
	}
	return &out
}

func (d *MigrateDeps) withDefaults() *MigrateDeps {
	out := MigrateDeps{}
	if d != nil {
		out = *d
	}
	if out.MigratorFactory == nil {
		out.MigratorFactory = func(url string) (Migrator, error) {
			return store.NewMigrator(url)
		}
	}
	return &out
}

func defaultObservabilityServer(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer {
	return observability.NewServer(addr, readinessChecker)
}

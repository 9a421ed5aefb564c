// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/wardrobe-app/wardrobe/internal/auth"
	"github.com/wardrobe-app/wardrobe/internal/auth/postgres"
	"github.com/wardrobe-app/wardrobe/internal/config"
	"github.com/wardrobe-app/wardrobe/internal/httpapi"
	"github.com/wardrobe-app/wardrobe/internal/notify"
	"github.com/wardrobe-app/wardrobe/internal/observability"
	"github.com/wardrobe-app/wardrobe/internal/revocation"
)

// shutdownTimeout bounds graceful shutdown of the HTTP servers.
const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the auth HTTP API",
		Long: `Start the auth HTTP API together with the expired-session janitor
and the metrics/health server.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServeWithDeps(cmd.Context(), cfg, cmd, nil)
		},
	}

	cmd.Flags().String("http-addr", "", "API listen address (overrides config)")
	cmd.Flags().String("metrics-addr", "", "metrics/health HTTP address, empty disables (overrides config)")

	return cmd
}

// runServeWithDeps starts the API with injectable dependencies and blocks
// until ctx is cancelled, a signal arrives or a server fails.
// If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cfg *config.Config, cmd *cobra.Command, deps *ServeDeps) error {
	deps = deps.withDefaults()

	if err := cfg.Validate(); err != nil {
		return err //nolint:wrapcheck // already coded by Validate
	}
	logger, err := setupLogging("wardrobe-api", cfg.Log, deps.LogOutput)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	codec, err := auth.NewTokenCodec(cfg.TokenCodecConfig())
	if err != nil {
		return oops.Code("SERVE_INIT_FAILED").With("component", "token codec").Wrap(err)
	}

	pool, err := deps.PoolFactory(ctx, cfg.Database.URL)
	if err != nil {
		return oops.Code("SERVE_INIT_FAILED").With("component", "database").Wrap(err)
	}
	defer pool.Close()
	logger.InfoContext(ctx, "connected to database")

	rdb, err := deps.RedisFactory(ctx, cfg.Redis.URL)
	if err != nil {
		return oops.Code("SERVE_INIT_FAILED").With("component", "redis").Wrap(err)
	}
	defer closeLogged(logger, "redis client", rdb.Close)
	logger.InfoContext(ctx, "connected to redis")

	publisher, err := notify.NewKafkaPublisher(deps.WriterFactory(cfg.Kafka.Brokers))
	if err != nil {
		return oops.Code("SERVE_INIT_FAILED").With("component", "kafka writer").Wrap(err)
	}
	defer closeLogged(logger, "kafka writer", publisher.Close)

	registry, err := revocation.NewRedisRegistry(rdb, revocation.WithKeyPrefix(cfg.Redis.KeyPrefix))
	if err != nil {
		return oops.Code("SERVE_INIT_FAILED").With("component", "revocation registry").Wrap(err)
	}

	users := postgres.NewUserRepository(pool)
	sessions := postgres.NewSessionRepository(pool)
	resets := postgres.NewPasswordResetRepository(pool)
	hasher := auth.NewArgon2idHasher()

	authService, err := auth.NewAuthServiceWithLogger(users, sessions, hasher, codec, registry, logger)
	if err != nil {
		return oops.Code("SERVE_INIT_FAILED").With("component", "auth service").Wrap(err)
	}
	resetService, err := auth.NewPasswordResetServiceWithLogger(users, resets, sessions, hasher, publisher, logger,
		auth.WithResetTopic(cfg.Kafka.Topic),
		auth.WithResetTTL(cfg.Reset.TTL),
	)
	if err != nil {
		return oops.Code("SERVE_INIT_FAILED").With("component", "reset service").Wrap(err)
	}

	var ready atomic.Bool
	var metrics *observability.Metrics
	if cfg.HTTP.MetricsAddr != "" {
		obsServer := deps.ObservabilityServerFactory(cfg.HTTP.MetricsAddr, ready.Load)
		obsErrChan, err := obsServer.Start()
		if err != nil {
			return oops.Code("SERVE_INIT_FAILED").With("component", "observability server").Wrap(err)
		}
		defer stopLogged(logger, "observability server", obsServer.Stop)
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
		metrics = obsServer.Metrics()
		logger.InfoContext(ctx, "observability server started", "addr", obsServer.Addr())
	}

	router, err := httpapi.NewRouter(authService, resetService, httpapi.Options{
		Logger:       logger,
		Metrics:      metrics,
		Timeout:      cfg.HTTP.RequestTimeout,
		CookieSecure: cfg.HTTP.CookieSecure,
	})
	if err != nil {
		return oops.Code("SERVE_INIT_FAILED").With("component", "router").Wrap(err)
	}

	janitor, err := auth.NewJanitor(sessions, resets, cfg.Janitor.Interval, logger)
	if err != nil {
		return oops.Code("SERVE_INIT_FAILED").With("component", "janitor").Wrap(err)
	}

	// Everything fallible is built before the listener opens; once Serve
	// runs, the only exits are shutdown paths.
	listener, err := deps.ListenerFactory("tcp", cfg.HTTP.Addr)
	if err != nil {
		return oops.Code("SERVE_INIT_FAILED").
			With("component", "listener").
			With("addr", cfg.HTTP.Addr).
			Wrap(err)
	}

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErrChan := make(chan error, 1)
	go func() {
		defer close(serveErrChan)
		if serveErr := srv.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			serveErrChan <- serveErr
		}
	}()

	janitor.Start(ctx)
	defer janitor.Stop()

	ready.Store(true)
	cmd.Println("Auth API started")
	logger.InfoContext(ctx, "auth api ready", "addr", listener.Addr().String())

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case serveErr := <-serveErrChan:
		if serveErr != nil {
			runErr = oops.Code("SERVE_FAILED").With("addr", cfg.HTTP.Addr).Wrap(serveErr)
		}
	}
	ready.Store(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("error stopping http server", "error", err)
	}

	logger.Info("shutdown complete")
	return runErr
}

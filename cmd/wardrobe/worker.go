// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/wardrobe-app/wardrobe/internal/config"
	"github.com/wardrobe-app/wardrobe/internal/notify"
)

// NewWorkerCmd creates the worker subcommand.
func NewWorkerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Deliver password-reset emails",
		Long: `Consume password-reset requests from the reset topic and deliver the
reset link by email. Without smtp.host the messages are logged instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runWorkerWithDeps(cmd.Context(), cfg, cmd, nil)
		},
	}

	cmd.Flags().String("metrics-addr", "", "metrics/health HTTP address, empty disables (overrides config)")

	return cmd
}

// runWorkerWithDeps runs the reset mailer until ctx is cancelled, a signal
// arrives or delivery fails for good.
func runWorkerWithDeps(ctx context.Context, cfg *config.Config, cmd *cobra.Command, deps *WorkerDeps) error {
	deps = deps.withDefaults()

	if err := cfg.ValidateWorker(); err != nil {
		return err //nolint:wrapcheck // already coded by ValidateWorker
	}
	logger, err := setupLogging("wardrobe-worker", cfg.Log, deps.LogOutput)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sender, err := deps.SenderFactory(cfg.SMTP, logger)
	if err != nil {
		return oops.Code("WORKER_INIT_FAILED").With("component", "sender").Wrap(err)
	}

	reader := deps.ReaderFactory(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID)
	defer closeLogged(logger, "kafka reader", reader.Close)

	opts := []notify.WorkerOption{notify.WithWorkerLogger(logger)}

	var ready atomic.Bool
	if cfg.HTTP.MetricsAddr != "" {
		obsServer := deps.ObservabilityServerFactory(cfg.HTTP.MetricsAddr, ready.Load)
		obsErrChan, err := obsServer.Start()
		if err != nil {
			return oops.Code("WORKER_INIT_FAILED").With("component", "observability server").Wrap(err)
		}
		defer stopLogged(logger, "observability server", obsServer.Stop)
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
		opts = append(opts, notify.WithWorkerMetrics(obsServer.Metrics()))
		logger.InfoContext(ctx, "observability server started", "addr", obsServer.Addr())
	}

	worker, err := notify.NewWorker(reader, sender, cfg.Reset.LinkBase, opts...)
	if err != nil {
		return oops.Code("WORKER_INIT_FAILED").With("component", "worker").Wrap(err)
	}

	ready.Store(true)
	cmd.Println("Reset mailer started")
	logger.InfoContext(ctx, "reset mailer ready",
		"topic", cfg.Kafka.Topic,
		"group_id", cfg.Kafka.GroupID,
		"smtp", cfg.SMTP.Host != "",
	)

	runErr := worker.Run(ctx)
	ready.Store(false)
	if runErr != nil {
		logger.Error("reset mailer stopped", "error", runErr)
		return runErr //nolint:wrapcheck // already coded by Worker.Run
	}

	logger.Info("shutdown complete")
	return nil
}

// defaultSender delivers over SMTP when a host is configured and logs
// messages otherwise.
func defaultSender(cfg config.SMTPConfig, logger *slog.Logger) (notify.Sender, error) {
	if cfg.Host == "" {
		logger.Warn("smtp.host not set, reset emails will only be logged")
		return notify.NewLogSender(logger), nil
	}
	sender, err := notify.NewSMTPSender(notify.NewSMTPDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), cfg.From)
	if err != nil {
		return nil, err //nolint:wrapcheck // already coded by NewSMTPSender
	}
	return sender, nil
}

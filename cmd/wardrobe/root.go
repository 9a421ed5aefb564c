// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

package main

import (
	"io"
	"log/slog"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/wardrobe-app/wardrobe/internal/config"
	"github.com/wardrobe-app/wardrobe/internal/logging"
)

// NewRootCmd creates the root command for the wardrobe CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wardrobe",
		Short: "Wardrobe authentication service",
		Long: `Wardrobe authentication service: login, refresh-token rotation,
logout with access-token revocation, and email password reset.`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file path (YAML)")
	flags.String("database-url", "", "PostgreSQL URL (overrides config)")
	flags.String("log-format", "", "log format: json or text (overrides config)")
	flags.String("log-level", "", "log level: debug, info, warn or error (overrides config)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewWorkerCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}

// loadConfig reads --config and merges every configuration source for cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, oops.Code("CONFIG_INVALID").Wrap(err)
	}
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, err //nolint:wrapcheck // already coded by config.Load
	}
	return cfg, nil
}

// setupLogging installs the process logger described by cfg. A nil w
// writes to stderr.
func setupLogging(service string, cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err //nolint:wrapcheck // already coded by ParseLevel
	}
	return logging.SetDefault(service, version, cfg.Format, level, w), nil
}

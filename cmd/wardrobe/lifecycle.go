// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

package main

import (
	"context"
	"log/slog"
)

// monitorServerErrors cancels the process context when a background server
// reports an error. It returns when errChan closes or ctx is done.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errChan <-chan error, name string) {
	select {
	case err, ok := <-errChan:
		if ok && err != nil {
			slog.Error("server error, initiating shutdown", "server", name, "error", err)
			cancel()
		}
	case <-ctx.Done():
	}
}

func closeLogged(logger *slog.Logger, name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		logger.Warn("error closing "+name, "error", err)
	}
}

func stopLogged(logger *slog.Logger, name string, stopFn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := stopFn(ctx); err != nil {
		logger.Warn("error stopping "+name, "error", err)
	}
}

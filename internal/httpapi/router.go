// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

// Package httpapi exposes the auth and password-reset services over HTTP.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/wardrobe-app/wardrobe/internal/auth"
	"github.com/wardrobe-app/wardrobe/internal/observability"
)

// BasePath is the prefix every route is mounted under.
const BasePath = "/api/v1"

// Authenticator is the part of auth.Service the HTTP layer calls.
type Authenticator interface {
	Register(ctx context.Context, email, password string) (*auth.User, error)
	Login(ctx context.Context, email, password string, device auth.DeviceInfo) (*auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string, device auth.DeviceInfo) (*auth.TokenPair, error)
	Logout(ctx context.Context, refreshToken, accessToken string) error
	Authenticate(ctx context.Context, accessToken string) (*auth.User, error)
}

// PasswordResetter is the part of auth.PasswordResetService the HTTP layer calls.
type PasswordResetter interface {
	StartReset(ctx context.Context, email string) error
	ValidateToken(ctx context.Context, token string) (ulid.ULID, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// Options configures the router.
type Options struct {
	Logger  *slog.Logger
	Metrics *observability.Metrics

	// Timeout bounds each request; zero disables it.
	Timeout time.Duration

	// CookieSecure sets the Secure attribute on the refresh cookie.
	CookieSecure bool
}

// NewRouter builds the HTTP handler for the auth API.
func NewRouter(authn Authenticator, resets PasswordResetter, opts Options) (http.Handler, error) {
	if authn == nil {
		return nil, oops.Code("HTTP_INVALID_DEPENDENCY").Errorf("auth service is required")
	}
	if resets == nil {
		return nil, oops.Code("HTTP_INVALID_DEPENDENCY").Errorf("password reset service is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := &handlers{
		auth:         authn,
		resets:       resets,
		logger:       logger,
		metrics:      opts.Metrics,
		cookieSecure: opts.CookieSecure,
	}

	root := chi.NewRouter()
	root.Use(
		RequestID(),
		Recover(logger),
		Trace(),
		AccessLog(logger),
		Metrics(opts.Metrics),
		Timeout(opts.Timeout),
	)
	root.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, r, http.StatusNotFound, "not_found", "route not found")
	})
	root.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	root.Route(BasePath, func(r chi.Router) {
		registerRoutes(r, h)
	})
	return root, nil
}

func registerRoutes(r chi.Router, h *handlers) {
	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)
	r.Post("/auth/refresh", h.refresh)
	r.Post("/auth/logout", h.logout)
	r.Get("/auth/me", h.me)

	r.Post("/auth/password-reset/request", h.startReset)
	r.Get("/auth/password-reset/validate", h.validateReset)
	r.Post("/auth/password-reset/confirm", h.confirmReset)
}

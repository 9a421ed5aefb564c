// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/wardrobe-app/wardrobe/internal/auth"
	"github.com/wardrobe-app/wardrobe/internal/httpapi"
	"github.com/wardrobe-app/wardrobe/internal/logging"
	"github.com/wardrobe-app/wardrobe/internal/observability"
)

// fakeAuth implements httpapi.Authenticator with per-test function hooks.
// A nil hook panics so an unexpected call fails the test loudly.
type fakeAuth struct {
	register     func(ctx context.Context, email, password string) (*auth.User, error)
	login        func(ctx context.Context, email, password string, device auth.DeviceInfo) (*auth.TokenPair, error)
	refresh      func(ctx context.Context, token string, device auth.DeviceInfo) (*auth.TokenPair, error)
	logout       func(ctx context.Context, refreshToken, accessToken string) error
	authenticate func(ctx context.Context, token string) (*auth.User, error)
}

func (f *fakeAuth) Register(ctx context.Context, email, password string) (*auth.User, error) {
	return f.register(ctx, email, password)
}

func (f *fakeAuth) Login(ctx context.Context, email, password string, device auth.DeviceInfo) (*auth.TokenPair, error) {
	return f.login(ctx, email, password, device)
}

func (f *fakeAuth) Refresh(ctx context.Context, token string, device auth.DeviceInfo) (*auth.TokenPair, error) {
	return f.refresh(ctx, token, device)
}

func (f *fakeAuth) Logout(ctx context.Context, refreshToken, accessToken string) error {
	return f.logout(ctx, refreshToken, accessToken)
}

func (f *fakeAuth) Authenticate(ctx context.Context, token string) (*auth.User, error) {
	return f.authenticate(ctx, token)
}

type fakeResets struct {
	start    func(ctx context.Context, email string) error
	validate func(ctx context.Context, token string) (ulid.ULID, error)
	confirm  func(ctx context.Context, token, newPassword string) error
}

func (f *fakeResets) StartReset(ctx context.Context, email string) error {
	return f.start(ctx, email)
}

func (f *fakeResets) ValidateToken(ctx context.Context, token string) (ulid.ULID, error) {
	return f.validate(ctx, token)
}

func (f *fakeResets) ResetPassword(ctx context.Context, token, newPassword string) error {
	return f.confirm(ctx, token, newPassword)
}

type apiFixture struct {
	auth    *fakeAuth
	resets  *fakeResets
	metrics *observability.Metrics
	logs    *bytes.Buffer
	handler http.Handler
}

func newAPIFixture(t *testing.T, opts ...func(*httpapi.Options)) *apiFixture {
	t.Helper()
	f := &apiFixture{
		auth:    &fakeAuth{},
		resets:  &fakeResets{},
		metrics: observability.NewMetrics(prometheus.NewRegistry()),
		logs:    &bytes.Buffer{},
	}
	o := httpapi.Options{
		Logger:  logging.Setup("wardrobe", "test", "json", slog.LevelDebug, f.logs),
		Metrics: f.metrics,
		Timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}

	h, err := httpapi.NewRouter(f.auth, f.resets, o)
	require.NoError(t, err)
	f.handler = h
	return f
}

func (f *apiFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, path, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, httpapi.BasePath+path, r)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.7:54321"
	req.Header.Set("User-Agent", "wardrobe-test/1.0")
	return req
}

type problemBody struct {
	Error httpapi.Problem `json:"error"`
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) httpapi.Problem {
	t.Helper()
	var body problemBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	return body.Error
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	return body
}

func refreshCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == httpapi.RefreshCookieName {
			return c
		}
	}
	return nil
}

func testPair() *auth.TokenPair {
	return &auth.TokenPair{
		AccessToken:      "access.jwt",
		RefreshToken:     "refresh.jwt",
		SessionID:        ulid.Make(),
		SessionExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}
}

func testUser() *auth.User {
	return &auth.User{ID: ulid.Make(), Email: "a@x.com", IsActive: true}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/wardrobe-app/wardrobe/internal/auth"
	"github.com/wardrobe-app/wardrobe/internal/observability"
)

// maxBodyBytes caps request bodies; every payload here is a few fields.
const maxBodyBytes = 1 << 16

// Auth event results recorded in wardrobe_auth_events_total.
const (
	resultSuccess  = "success"
	resultRejected = "rejected"
	resultError    = "error"
)

const resetRequestedMessage = "if the account exists, a password reset email has been sent"

type handlers struct {
	auth         Authenticator
	resets       PasswordResetter
	logger       *slog.Logger
	metrics      *observability.Metrics
	cookieSecure bool
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetStartRequest struct {
	Email string `json:"email"`
}

type resetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *handlers) register(w http.ResponseWriter, r *http.Request) {
	var in credentialsRequest
	if err := decodeStrict(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.auth.Register(r.Context(), in.Email, in.Password)
	h.record("register", err)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, userResponse{ID: user.ID.String(), Email: user.Email})
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var in credentialsRequest
	if err := decodeStrict(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	pair, err := h.auth.Login(r.Context(), in.Email, in.Password, deviceInfo(r))
	h.record("login", err)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.setRefreshCookie(w, pair)
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: pair.AccessToken, TokenType: "bearer"})
}

func (h *handlers) refresh(w http.ResponseWriter, r *http.Request) {
	token := refreshTokenFrom(r)
	if token == "" {
		h.record("refresh", auth.ErrInvalidSession)
		h.writeError(w, r, auth.ErrInvalidSession)
		return
	}

	pair, err := h.auth.Refresh(r.Context(), token, deviceInfo(r))
	h.record("refresh", err)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.setRefreshCookie(w, pair)
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: pair.AccessToken, TokenType: "bearer"})
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	err := h.auth.Logout(r.Context(), refreshTokenFrom(r), bearerToken(r))
	h.record("logout", err)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.clearRefreshCookie(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: "logged out"})
}

func (h *handlers) me(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		h.writeError(w, r, auth.ErrInvalidCredentials)
		return
	}

	user, err := h.auth.Authenticate(r.Context(), token)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{ID: user.ID.String(), Email: user.Email})
}

// startReset answers 202 with the same body whether or not the email is
// registered. Only infrastructure failures surface as errors.
func (h *handlers) startReset(w http.ResponseWriter, r *http.Request) {
	var in resetStartRequest
	if err := decodeStrict(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	err := h.resets.StartReset(r.Context(), in.Email)
	h.record("reset_request", err)
	if err != nil && !errors.Is(err, auth.ErrUserNotFound) {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, messageResponse{Message: resetRequestedMessage})
}

// validateReset lets the reset form check a link before asking for a new
// password. The owning user is never disclosed.
func (h *handlers) validateReset(w http.ResponseWriter, r *http.Request) {
	_, err := h.resets.ValidateToken(r.Context(), r.URL.Query().Get("token"))
	h.record("reset_validate", err)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "token is valid"})
}

func (h *handlers) confirmReset(w http.ResponseWriter, r *http.Request) {
	var in resetConfirmRequest
	if err := decodeStrict(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	err := h.resets.ResetPassword(r.Context(), in.Token, in.NewPassword)
	h.record("reset_confirm", err)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "password has been reset"})
}

func (h *handlers) record(operation string, err error) {
	result := resultSuccess
	if err != nil {
		result = resultRejected
		if status, _, _ := classify(err); status >= http.StatusInternalServerError {
			result = resultError
		}
	}
	h.metrics.RecordAuthEvent(operation, result)
}

// decodeStrict decodes a single JSON object and rejects unknown fields.
func decodeStrict(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errMalformedBody
	}
	return nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func deviceInfo(r *http.Request) auth.DeviceInfo {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}
	return auth.DeviceInfo{UserAgent: r.UserAgent(), IPAddress: ip}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/samber/oops"

	"github.com/wardrobe-app/wardrobe/internal/auth"
	"github.com/wardrobe-app/wardrobe/internal/logging"
	"github.com/wardrobe-app/wardrobe/pkg/errutil"
)

// Problem is the error body returned by every endpoint.
type Problem struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type problemResponse struct {
	Error Problem `json:"error"`
}

var errMalformedBody = oops.Code("HTTP_MALFORMED_BODY").Wrapf(auth.ErrInvalidInput, "request body is not valid JSON")

// classify maps a service error to a status, a stable code and a message
// that is safe to show to clients.
func classify(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials", "invalid credentials"
	case errors.Is(err, auth.ErrInvalidSession):
		return http.StatusUnauthorized, "invalid_session", "invalid session"
	case errors.Is(err, auth.ErrUserAlreadyExists):
		return http.StatusConflict, "user_exists", "user already exists"
	case errors.Is(err, auth.ErrUserNotFound):
		return http.StatusNotFound, "not_found", "not found"
	case errors.Is(err, auth.ErrInvalidOrExpiredToken):
		return http.StatusBadRequest, "invalid_token", "invalid or expired token"
	case errors.Is(err, auth.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input", err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout", "request timed out"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}

// writeError writes the response for err. Server-side failures are logged
// with their oops code and context; client errors are not.
func (h *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := classify(err)

	switch {
	case status >= http.StatusInternalServerError:
		errutil.LogErrorContext(r.Context(), h.logger, "request failed", err)
	case errors.Is(err, auth.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", `Bearer realm="wardrobe"`)
		h.logger.DebugContext(r.Context(), "request unauthenticated", "code", errutil.Code(err))
	case errors.Is(err, auth.ErrInvalidSession):
		h.clearRefreshCookie(w)
		h.logger.DebugContext(r.Context(), "refresh session rejected", "code", errutil.Code(err))
	}

	writeProblem(w, r, status, code, message)
}

func writeProblem(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, problemResponse{Error: Problem{
		Code:      code,
		Message:   message,
		RequestID: logging.RequestIDFrom(r.Context()),
	}})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Debug("write response body", "error", err)
	}
}

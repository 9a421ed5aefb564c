// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

package httpapi

import (
	"net/http"
	"time"

	"github.com/wardrobe-app/wardrobe/internal/auth"
)

// RefreshCookieName is the cookie carrying the refresh token.
const RefreshCookieName = "refresh_token"

// RefreshCookiePath limits the refresh cookie to the auth routes.
const RefreshCookiePath = BasePath + "/auth"

func (h *handlers) setRefreshCookie(w http.ResponseWriter, pair *auth.TokenPair) {
	maxAge := int(time.Until(pair.SessionExpiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    pair.RefreshToken,
		Path:     RefreshCookiePath,
		Expires:  pair.SessionExpiresAt.UTC(),
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *handlers) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     RefreshCookiePath,
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func refreshTokenFrom(r *http.Request) string {
	c, err := r.Cookie(RefreshCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

package auth

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// DefaultSessionTTL is the refresh session lifetime used when none is configured.
const DefaultSessionTTL = 7 * 24 * time.Hour

// Maximum stored lengths for device metadata.
const (
	MaxUserAgentLength = 512
	MaxIPAddressLength = 45 // IPv6 textual form
)

// DeviceInfo describes the client a session was issued to.
type DeviceInfo struct {
	UserAgent string
	IPAddress string
}

// Session is the server-side record behind one refresh token. It is created
// on login or refresh and deleted on refresh or logout; it is never updated.
type Session struct {
	ID        ulid.ULID
	UserID    ulid.ULID
	UserAgent string
	IPAddress string
	CreatedAt time.Time
	ExpiresAt time.Time

	// Owner is populated by SessionRepository.GetWithOwner only.
	Owner *User
}

// NewSession creates a validated Session for userID that expires after ttl.
// Device metadata is optional and truncated to the stored column widths.
func NewSession(userID ulid.ULID, device DeviceInfo, ttl time.Duration) (*Session, error) {
	return newSessionAt(userID, device, ttl, time.Now())
}

func newSessionAt(userID ulid.ULID, device DeviceInfo, ttl time.Duration, now time.Time) (*Session, error) {
	if userID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("SESSION_INVALID_USER").Errorf("user ID cannot be zero")
	}
	if ttl <= 0 {
		return nil, oops.Code("SESSION_INVALID_EXPIRY").
			With("ttl", ttl.String()).
			Errorf("session ttl must be positive")
	}

	return &Session{
		ID:        ulid.Make(),
		UserID:    userID,
		UserAgent: truncate(device.UserAgent, MaxUserAgentLength),
		IPAddress: truncate(device.IPAddress, MaxIPAddressLength),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// IsExpiredAt returns true if the session would be expired at the given time.
func (s *Session) IsExpiredAt(t time.Time) bool {
	return !t.Before(s.ExpiresAt)
}

// truncate replaces invalid UTF-8 and keeps at most n runes. Header values
// may carry arbitrary bytes; the columns count characters.
func truncate(s string, n int) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i, runes := 0, 0
	for i < len(s) && runes < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		runes++
	}
	return s[:i]
}

// SessionRepository manages refresh-session persistence.
//
// Delete must be visible to subsequent reads immediately; refresh rotation
// relies on it to reject a concurrent second use of the same token.
type SessionRepository interface {
	// Create stores a new session.
	Create(ctx context.Context, session *Session) error

	// GetWithOwner retrieves a session and its owning user in one round trip.
	// Returns ErrNotFound if the session does not exist.
	GetWithOwner(ctx context.Context, id ulid.ULID) (*Session, error)

	// Delete removes a session. Deleting an absent session is not an error;
	// the returned bool reports whether this call removed a row.
	Delete(ctx context.Context, id ulid.ULID) (bool, error)

	// DeleteByUser removes all sessions for a user.
	DeleteByUser(ctx context.Context, userID ulid.ULID) error

	// DeleteExpired removes all expired sessions and returns the count
	// of deleted records.
	DeleteExpired(ctx context.Context) (int64, error)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

package auth

import (
	"context"
	"time"
)

// RevocationRegistry is a time-bounded denylist of access-token identifiers.
// Entries expire on their own when the token they name would have expired.
// Refresh tokens are never denylisted; deleting their Session revokes them.
type RevocationRegistry interface {
	// Deny records jti until exp. Implementations skip the write when exp
	// has already passed.
	Deny(ctx context.Context, jti string, exp time.Time) error

	// IsDenied reports whether jti is currently denylisted.
	IsDenied(ctx context.Context, jti string) (bool, error)
}

// RemainingTTL returns how long a denylist entry for a token expiring at exp
// must live when written at now. It is never negative.
func RemainingTTL(exp, now time.Time) time.Duration {
	ttl := exp.Sub(now)
	if ttl < 0 {
		return 0
	}
	return ttl
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

package auth

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Token lifetimes used when none are configured.
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = DefaultSessionTTL
)

// accessJTIBytes is the size of the random access-token identifier.
const accessJTIBytes = 16

// MinSecretLength is the shortest HMAC secret NewTokenCodec accepts.
const MinSecretLength = 32

// Token verification failures. Verify returns exactly one of these (wrapped).
var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenExpired   = errors.New("token expired")
)

// Claims is the claim set carried by access and refresh tokens.
type Claims struct {
	Subject   string
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenCodecConfig configures a TokenCodec.
type TokenCodecConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// TokenCodec signs and verifies HS256 tokens. Access and refresh tokens use
// distinct secrets so that one class can never be accepted as the other.
type TokenCodec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewTokenCodec creates a TokenCodec after validating cfg.
func NewTokenCodec(cfg TokenCodecConfig) (*TokenCodec, error) {
	if len(cfg.AccessSecret) < MinSecretLength {
		return nil, oops.Code("TOKEN_CONFIG_INVALID").
			Errorf("access secret must be at least %d bytes", MinSecretLength)
	}
	if len(cfg.RefreshSecret) < MinSecretLength {
		return nil, oops.Code("TOKEN_CONFIG_INVALID").
			Errorf("refresh secret must be at least %d bytes", MinSecretLength)
	}
	if bytes.Equal(cfg.AccessSecret, cfg.RefreshSecret) {
		return nil, oops.Code("TOKEN_CONFIG_INVALID").
			Errorf("access and refresh secrets must differ")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, oops.Code("TOKEN_CONFIG_INVALID").
			With("access_ttl", cfg.AccessTTL.String()).
			With("refresh_ttl", cfg.RefreshTTL.String()).
			Errorf("token ttls must be positive")
	}

	return &TokenCodec{
		accessSecret:  bytes.Clone(cfg.AccessSecret),
		refreshSecret: bytes.Clone(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}, nil
}

// SetClock replaces the codec's time source. Intended for tests.
func (c *TokenCodec) SetClock(now func() time.Time) {
	c.now = now
}

// RefreshTTL returns the configured refresh token lifetime.
func (c *TokenCodec) RefreshTTL() time.Duration {
	return c.refreshTTL
}

// Issue signs claims with secret. IssuedAt and ExpiresAt are set from the
// codec clock and ttl; values present in claims are ignored.
func (c *TokenCodec) Issue(claims Claims, secret []byte, ttl time.Duration) (string, error) {
	if claims.Subject == "" {
		return "", oops.Code("TOKEN_ISSUE_FAILED").Errorf("subject cannot be empty")
	}
	now := c.now()
	registered := jwt.RegisteredClaims{
		Subject:   claims.Subject,
		ID:        claims.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, registered).SignedString(secret)
	if err != nil {
		return "", oops.Code("TOKEN_ISSUE_FAILED").
			With("operation", "sign token").
			Wrap(err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token and returns its claims.
// It fails closed: any structural, algorithm, signature or expiry problem is
// an error wrapping ErrTokenMalformed, ErrTokenSignature or ErrTokenExpired.
func (c *TokenCodec) Verify(token string, secret []byte) (*Claims, error) {
	var registered jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &registered,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, classifyJWTError(err)
	}
	if registered.Subject == "" {
		return nil, oops.Code("TOKEN_MALFORMED").
			With("reason", "missing subject").
			Wrap(ErrTokenMalformed)
	}

	claims := &Claims{
		Subject:   registered.Subject,
		ID:        registered.ID,
		ExpiresAt: registered.ExpiresAt.Time,
	}
	if registered.IssuedAt != nil {
		claims.IssuedAt = registered.IssuedAt.Time
	}
	return claims, nil
}

func classifyJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return oops.Code("TOKEN_EXPIRED").Wrap(errors.Join(ErrTokenExpired, err))
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return oops.Code("TOKEN_SIGNATURE_INVALID").Wrap(errors.Join(ErrTokenSignature, err))
	default:
		return oops.Code("TOKEN_MALFORMED").Wrap(errors.Join(ErrTokenMalformed, err))
	}
}

// IssueAccess mints an access token for subject with a fresh random jti.
func (c *TokenCodec) IssueAccess(subject string) (token, jti string, err error) {
	jti, err = newAccessJTI()
	if err != nil {
		return "", "", err
	}
	token, err = c.Issue(Claims{Subject: subject, ID: jti}, c.accessSecret, c.accessTTL)
	if err != nil {
		return "", "", err
	}
	return token, jti, nil
}

// IssueRefresh mints a refresh token for subject bound to sessionID.
func (c *TokenCodec) IssueRefresh(subject string, sessionID ulid.ULID) (string, error) {
	return c.Issue(Claims{Subject: subject, ID: sessionID.String()}, c.refreshSecret, c.refreshTTL)
}

// VerifyAccess verifies a token with the access secret.
func (c *TokenCodec) VerifyAccess(token string) (*Claims, error) {
	return c.Verify(token, c.accessSecret)
}

// VerifyRefresh verifies a token with the refresh secret.
func (c *TokenCodec) VerifyRefresh(token string) (*Claims, error) {
	return c.Verify(token, c.refreshSecret)
}

func newAccessJTI() (string, error) {
	b := make([]byte, accessJTIBytes)
	if _, err := rand.Read(b); err != nil {
		return "", oops.Code("TOKEN_JTI_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			With("requested_bytes", accessJTIBytes).
			Wrap(err)
	}
	return hex.EncodeToString(b), nil
}

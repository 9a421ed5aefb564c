// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("wardrobe/auth")

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string

	// SessionID identifies the Session the refresh token is bound to.
	SessionID ulid.ULID
	// SessionExpiresAt is when the refresh token and its Session expire.
	SessionExpiresAt time.Time
}

// Service is the auth orchestrator: login, refresh rotation, logout and
// per-request authentication.
type Service struct {
	users       UserRepository
	sessions    SessionRepository
	hasher      PasswordHasher
	codec       *TokenCodec
	revocations RevocationRegistry
	logger      *slog.Logger
	now         func() time.Time
	sessionTTL  time.Duration
}

// ServiceOption configures optional Service behavior.
type ServiceOption func(*Service)

// WithClock overrides the time source used for session creation and expiry
// checks.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSessionTTL overrides the Session lifetime. It defaults to the codec's
// refresh token TTL; a shorter value makes the Session expire before its token.
func WithSessionTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// NewAuthService creates a new Service using the default logger.
func NewAuthService(
	users UserRepository,
	sessions SessionRepository,
	hasher PasswordHasher,
	codec *TokenCodec,
	revocations RevocationRegistry,
	opts ...ServiceOption,
) (*Service, error) {
	return NewAuthServiceWithLogger(users, sessions, hasher, codec, revocations, slog.Default(), opts...)
}

// NewAuthServiceWithLogger creates a new Service that logs best-effort
// failures to logger.
func NewAuthServiceWithLogger(
	users UserRepository,
	sessions SessionRepository,
	hasher PasswordHasher,
	codec *TokenCodec,
	revocations RevocationRegistry,
	logger *slog.Logger,
	opts ...ServiceOption,
) (*Service, error) {
	if users == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("users repository is required")
	}
	if sessions == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("sessions repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("password hasher is required")
	}
	if codec == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("token codec is required")
	}
	if revocations == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("revocation registry is required")
	}
	if logger == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("logger is required")
	}

	s := &Service{
		users:       users,
		sessions:    sessions,
		hasher:      hasher,
		codec:       codec,
		revocations: revocations,
		logger:      logger,
		now:         time.Now,
		sessionTTL:  codec.RefreshTTL(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// dummyPasswordHash is verified when a user doesn't exist so that the
// response time does not reveal whether the email is registered.
// It is not a real credential and never matches any password.
//
//nolint:gosec // G101: intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Register creates a new active user.
func (s *Service) Register(ctx context.Context, email, password string) (user *User, err error) {
	ctx, span := tracer.Start(ctx, "auth.Register")
	defer func() { endSpan(span, err) }()

	normalized, err := ValidateEmail(email)
	if err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, normalized); err == nil {
		return nil, oops.Code(CodeUserAlreadyExists).Wrap(ErrUserAlreadyExists)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user, err = NewUser(normalized, hash)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent registration can win between the lookup and the insert.
		if errors.Is(err, ErrUserAlreadyExists) {
			return nil, oops.Code(CodeUserAlreadyExists).Wrap(ErrUserAlreadyExists)
		}
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "create user").
			Wrap(err)
	}

	return user, nil
}

// Login verifies credentials and opens a new Session.
// Unknown email, wrong password and inactive account all fail with the same
// ErrInvalidCredentials, and password verification runs in every case.
func (s *Service) Login(ctx context.Context, email, password string, device DeviceInfo) (pair *TokenPair, err error) {
	ctx, span := tracer.Start(ctx, "auth.Login")
	defer func() { endSpan(span, err) }()

	user, lookupErr := s.users.GetByEmail(ctx, NormalizeEmail(email))

	targetHash := dummyPasswordHash
	userExists := false
	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get user by email").
				Wrap(lookupErr)
		}
	} else {
		targetHash = user.PasswordHash
		userExists = true
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		if !userExists {
			return nil, invalidCredentials("unknown email")
		}
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if !userExists {
		return nil, invalidCredentials("unknown email")
	}
	if !valid {
		return nil, invalidCredentials("password mismatch")
	}
	if !user.IsActive {
		return nil, invalidCredentials("inactive user")
	}

	if s.hasher.NeedsUpgrade(user.PasswordHash) {
		s.upgradePasswordHash(ctx, user, password)
	}

	return s.openSession(ctx, user, device)
}

// Refresh rotates a refresh token: the bound Session is deleted and a new
// Session and token pair are issued. Each refresh token succeeds at most once;
// replaying it, or racing a second use against the first, fails with
// ErrInvalidSession.
func (s *Service) Refresh(ctx context.Context, refreshToken string, device DeviceInfo) (pair *TokenPair, err error) {
	ctx, span := tracer.Start(ctx, "auth.Refresh")
	defer func() { endSpan(span, err) }()

	claims, err := s.codec.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, invalidSession("token rejected")
	}

	sessionID, err := ulid.Parse(claims.ID)
	if err != nil {
		return nil, invalidSession("malformed session id")
	}
	span.SetAttributes(attribute.String("session.id", sessionID.String()))

	session, err := s.sessions.GetWithOwner(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, invalidSession("session not found")
		}
		return nil, oops.Code("AUTH_REFRESH_FAILED").
			With("operation", "get session").
			With("session_id", sessionID.String()).
			Wrap(err)
	}

	if session.IsExpiredAt(s.now()) {
		return nil, invalidSession("session expired")
	}
	if session.Owner == nil || session.Owner.Email != claims.Subject {
		return nil, invalidSession("subject mismatch")
	}
	if !session.Owner.IsActive {
		return nil, invalidSession("inactive user")
	}

	// Delete before create: once the old Session is gone no concurrent use of
	// the same token can find it.
	deleted, err := s.sessions.Delete(ctx, session.ID)
	if err != nil {
		return nil, oops.Code("AUTH_REFRESH_FAILED").
			With("operation", "delete session").
			With("session_id", sessionID.String()).
			Wrap(err)
	}
	if !deleted {
		return nil, invalidSession("session already rotated")
	}

	return s.openSession(ctx, session.Owner, device)
}

// Logout ends the Session behind refreshToken and denylists accessToken for
// the rest of its lifetime. It is idempotent: tokens that no longer verify,
// or whose Session is already gone, are not an error.
func (s *Service) Logout(ctx context.Context, refreshToken, accessToken string) (err error) {
	ctx, span := tracer.Start(ctx, "auth.Logout")
	defer func() { endSpan(span, err) }()

	if claims, verifyErr := s.codec.VerifyRefresh(refreshToken); verifyErr == nil {
		if sessionID, parseErr := ulid.Parse(claims.ID); parseErr == nil {
			if _, err := s.sessions.Delete(ctx, sessionID); err != nil {
				return oops.Code("AUTH_LOGOUT_FAILED").
					With("operation", "delete session").
					With("session_id", sessionID.String()).
					Wrap(err)
			}
		}
	} else {
		s.logger.DebugContext(ctx, "logout with unverifiable refresh token", "error", verifyErr)
	}

	if accessToken == "" {
		return nil
	}

	// Soft-fail: an access token that does not verify cannot be used anyway.
	claims, verifyErr := s.codec.VerifyAccess(accessToken)
	if verifyErr != nil || claims.ID == "" {
		return nil
	}

	if err := s.revocations.Deny(ctx, claims.ID, claims.ExpiresAt); err != nil {
		return oops.Code("AUTH_LOGOUT_FAILED").
			With("operation", "deny access token").
			Wrap(err)
	}
	return nil
}

// Authenticate validates an access token and returns its user.
// Checks run in order: signature and expiry, jti presence, denylist, user
// lookup. Every rejection is ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (user *User, err error) {
	ctx, span := tracer.Start(ctx, "auth.Authenticate")
	defer func() { endSpan(span, err) }()

	claims, err := s.codec.VerifyAccess(accessToken)
	if err != nil {
		return nil, invalidCredentials("token rejected")
	}
	if claims.ID == "" {
		return nil, invalidCredentials("missing jti")
	}

	denied, err := s.revocations.IsDenied(ctx, claims.ID)
	if err != nil {
		return nil, oops.Code("AUTH_AUTHENTICATE_FAILED").
			With("operation", "check denylist").
			Wrap(err)
	}
	if denied {
		return nil, invalidCredentials("token revoked")
	}

	user, err = s.users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, invalidCredentials("subject not found")
		}
		return nil, oops.Code("AUTH_AUTHENTICATE_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}
	if !user.IsActive {
		return nil, invalidCredentials("inactive user")
	}

	return user, nil
}

// openSession persists a new Session for user and mints the token pair bound to it.
func (s *Service) openSession(ctx context.Context, user *User, device DeviceInfo) (*TokenPair, error) {
	session, err := newSessionAt(user.ID, device, s.sessionTTL, s.now())
	if err != nil {
		return nil, oops.Code("AUTH_SESSION_CREATE_FAILED").
			With("operation", "build session").
			Wrap(err)
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, oops.Code("AUTH_SESSION_CREATE_FAILED").
			With("operation", "persist session").
			With("user_id", user.ID.String()).
			Wrap(err)
	}

	accessToken, _, err := s.codec.IssueAccess(user.Email)
	if err != nil {
		return nil, oops.Code("AUTH_TOKEN_ISSUE_FAILED").
			With("operation", "issue access token").
			Wrap(err)
	}

	refreshToken, err := s.codec.IssueRefresh(user.Email, session.ID)
	if err != nil {
		return nil, oops.Code("AUTH_TOKEN_ISSUE_FAILED").
			With("operation", "issue refresh token").
			Wrap(err)
	}

	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		SessionID:        session.ID,
		SessionExpiresAt: session.ExpiresAt,
	}, nil
}

// upgradePasswordHash replaces a legacy hash after a successful login.
// Failures are logged; the login still succeeds.
func (s *Service) upgradePasswordHash(ctx context.Context, user *User, password string) {
	newHash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.WarnContext(ctx, "best-effort password hash upgrade failed",
			"operation", "hash_password",
			"user_id", user.ID.String(),
			"error", err)
		return
	}
	if err := s.users.UpdatePassword(ctx, user.ID, newHash); err != nil {
		s.logger.WarnContext(ctx, "best-effort password hash upgrade failed",
			"operation", "update_password",
			"user_id", user.ID.String(),
			"error", err)
		return
	}
	user.PasswordHash = newHash
}

// endSpan records unexpected failures on span and ends it. Taxonomy errors
// are normal outcomes and only tagged.
func endSpan(span trace.Span, err error) {
	switch {
	case err == nil:
	case isTaxonomyError(err):
		span.SetAttributes(attribute.String("auth.rejected", err.Error()))
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func isTaxonomyError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrInvalidSession) ||
		errors.Is(err, ErrUserAlreadyExists) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrInvalidOrExpiredToken) ||
		errors.Is(err, ErrInvalidInput)
}

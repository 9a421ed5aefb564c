// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/wardrobe-app/wardrobe/internal/logging"
)

// PasswordResetService issues and consumes one-time password reset tokens.
type PasswordResetService struct {
	users    UserRepository
	resets   PasswordResetRepository
	sessions SessionRepository
	hasher   PasswordHasher
	notifier Notifier
	topic    string
	tokenTTL time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// ResetOption configures optional PasswordResetService behavior.
type ResetOption func(*PasswordResetService)

// WithResetTopic sets the topic ResetRequested messages are published to.
func WithResetTopic(topic string) ResetOption {
	return func(s *PasswordResetService) {
		if topic != "" {
			s.topic = topic
		}
	}
}

// WithResetTTL sets how long an issued reset token stays valid.
func WithResetTTL(ttl time.Duration) ResetOption {
	return func(s *PasswordResetService) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

// WithResetClock overrides the time source used for expiry.
func WithResetClock(now func() time.Time) ResetOption {
	return func(s *PasswordResetService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewPasswordResetService creates a new PasswordResetService using the default logger.
func NewPasswordResetService(
	users UserRepository,
	resets PasswordResetRepository,
	sessions SessionRepository,
	hasher PasswordHasher,
	notifier Notifier,
	opts ...ResetOption,
) (*PasswordResetService, error) {
	return NewPasswordResetServiceWithLogger(users, resets, sessions, hasher, notifier, slog.Default(), opts...)
}

// NewPasswordResetServiceWithLogger creates a new PasswordResetService with a
// custom logger.
func NewPasswordResetServiceWithLogger(
	users UserRepository,
	resets PasswordResetRepository,
	sessions SessionRepository,
	hasher PasswordHasher,
	notifier Notifier,
	logger *slog.Logger,
	opts ...ResetOption,
) (*PasswordResetService, error) {
	if users == nil {
		return nil, oops.Code("RESET_INVALID_DEPENDENCY").Errorf("users repository is required")
	}
	if resets == nil {
		return nil, oops.Code("RESET_INVALID_DEPENDENCY").Errorf("reset repository is required")
	}
	if sessions == nil {
		return nil, oops.Code("RESET_INVALID_DEPENDENCY").Errorf("sessions repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("RESET_INVALID_DEPENDENCY").Errorf("password hasher is required")
	}
	if notifier == nil {
		return nil, oops.Code("RESET_INVALID_DEPENDENCY").Errorf("notifier is required")
	}
	if logger == nil {
		return nil, oops.Code("RESET_INVALID_DEPENDENCY").Errorf("logger is required")
	}

	s := &PasswordResetService{
		users:    users,
		resets:   resets,
		sessions: sessions,
		hasher:   hasher,
		notifier: notifier,
		topic:    DefaultResetTopic,
		tokenTTL: ResetTokenExpiry,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// StartReset issues a reset token for email and publishes it for delivery.
// An unknown email is not an error and does no work, so callers cannot
// probe which addresses are registered.
func (s *PasswordResetService) StartReset(ctx context.Context, email string) (err error) {
	ctx, span := tracer.Start(ctx, "auth.StartReset")
	defer func() { endSpan(span, err) }()

	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.DebugContext(ctx, "password reset for unknown email",
				"error", oops.Code(CodeUserNotFound).Wrap(ErrUserNotFound))
			return nil
		}
		return oops.Code("RESET_REQUEST_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}
	if !user.IsActive {
		s.logger.DebugContext(ctx, "password reset for inactive user", "user_id", user.ID.String())
		return nil
	}

	token, hash, err := GenerateResetToken()
	if err != nil {
		return oops.Code("RESET_REQUEST_FAILED").
			With("operation", "generate token").
			Wrap(err)
	}

	reset, err := NewPasswordReset(user.ID, hash, s.now().Add(s.tokenTTL))
	if err != nil {
		return oops.Code("RESET_REQUEST_FAILED").
			With("operation", "build reset").
			Wrap(err)
	}

	if err := s.resets.Create(ctx, reset); err != nil {
		return oops.Code("RESET_REQUEST_FAILED").
			With("operation", "store reset").
			With("user_id", user.ID.String()).
			Wrap(err)
	}

	msg := ResetRequested{
		RequestID: requestIDOrNew(ctx),
		Email:     user.Email,
		Token:     token,
		ExpiresAt: reset.ExpiresAt,
	}
	if err := s.notifier.Publish(ctx, s.topic, msg); err != nil {
		s.logger.WarnContext(ctx, "best-effort reset notification publish failed",
			"operation", "publish",
			"topic", s.topic,
			"user_id", user.ID.String(),
			"error", err)
	}

	return nil
}

// ValidateToken checks a raw reset token and returns the user it belongs to.
func (s *PasswordResetService) ValidateToken(ctx context.Context, token string) (ulid.ULID, error) {
	reset, err := s.lookup(ctx, token)
	if err != nil {
		return ulid.ULID{}, err
	}
	return reset.UserID, nil
}

// ResetPassword consumes token and sets the user's password. The token and
// every other outstanding token for the user are invalidated in the same
// transaction as the password change; open sessions are then ended.
func (s *PasswordResetService) ResetPassword(ctx context.Context, token, newPassword string) (err error) {
	ctx, span := tracer.Start(ctx, "auth.ResetPassword")
	defer func() { endSpan(span, err) }()

	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	reset, err := s.lookup(ctx, token)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return oops.Code("RESET_PASSWORD_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	if err := s.resets.Consume(ctx, reset, hash); err != nil {
		if errors.Is(err, ErrNotFound) {
			return invalidResetToken("already consumed")
		}
		return oops.Code("RESET_PASSWORD_FAILED").
			With("operation", "consume reset").
			With("user_id", reset.UserID.String()).
			Wrap(err)
	}

	if err := s.sessions.DeleteByUser(ctx, reset.UserID); err != nil {
		s.logger.WarnContext(ctx, "best-effort session cleanup after password reset failed",
			"operation", "delete_sessions",
			"user_id", reset.UserID.String(),
			"error", err)
	}

	return nil
}

func (s *PasswordResetService) lookup(ctx context.Context, token string) (*PasswordReset, error) {
	if token == "" {
		return nil, invalidResetToken("empty token")
	}

	reset, err := s.resets.GetByTokenHash(ctx, HashResetToken(token))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, invalidResetToken("unknown token")
		}
		return nil, oops.Code("RESET_VALIDATE_FAILED").
			With("operation", "get reset by token hash").
			Wrap(err)
	}

	if reset.IsExpiredAt(s.now()) {
		return nil, invalidResetToken("expired")
	}
	return reset, nil
}

func requestIDOrNew(ctx context.Context) string {
	if id := logging.RequestIDFrom(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}

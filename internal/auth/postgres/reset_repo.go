// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/wardrobe-app/wardrobe/internal/auth"
)

var _ auth.PasswordResetRepository = (*PasswordResetRepository)(nil)

// PasswordResetRepository implements auth.PasswordResetRepository using PostgreSQL.
type PasswordResetRepository struct {
	pool poolIface
	now  func() time.Time
}

// NewPasswordResetRepository creates a new PasswordResetRepository.
func NewPasswordResetRepository(pool poolIface) *PasswordResetRepository {
	return &PasswordResetRepository{pool: pool, now: time.Now}
}

// Create stores a new password reset request.
func (r *PasswordResetRepository) Create(ctx context.Context, reset *auth.PasswordReset) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO password_reset_tokens (id, user_id, token_hash, expires_at, created_at) VALUES ($1, $2, $3, $4, $5)`,
		reset.ID.String(), reset.UserID.String(), reset.TokenHash, reset.ExpiresAt, reset.CreatedAt)
	if err != nil {
		return oops.Code("RESET_CREATE_FAILED").
			With("operation", "insert password_reset_token").
			With("user_id", reset.UserID.String()).
			Wrap(err)
	}
	return nil
}

// GetByTokenHash retrieves a reset request by its token hash.
func (r *PasswordResetRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*auth.PasswordReset, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, user_id, token_hash, expires_at, created_at FROM password_reset_tokens WHERE token_hash = $1`,
		tokenHash)

	reset, err := scanReset(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("RESET_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("RESET_GET_FAILED").Wrap(err)
	}
	return reset, nil
}

// Consume deletes reset, stores passwordHash on its owner and removes the
// owner's other reset requests in one transaction. Only the caller whose
// DELETE removes the row proceeds; a concurrent second consume sees
// auth.ErrNotFound and changes nothing.
func (r *PasswordResetRepository) Consume(ctx context.Context, reset *auth.PasswordReset, passwordHash string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return oops.Code("RESET_CONSUME_FAILED").
			With("operation", "begin").
			Wrap(err)
	}

	if err := r.consume(ctx, tx, reset, passwordHash); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return oops.Code("RESET_CONSUME_FAILED").
			With("operation", "commit").
			With("user_id", reset.UserID.String()).
			Wrap(err)
	}
	return nil
}

func (r *PasswordResetRepository) consume(ctx context.Context, tx pgx.Tx, reset *auth.PasswordReset, passwordHash string) error {
	result, err := tx.Exec(ctx, `DELETE FROM password_reset_tokens WHERE id = $1`, reset.ID.String())
	if err != nil {
		return oops.Code("RESET_CONSUME_FAILED").
			With("operation", "delete token").
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("RESET_NOT_FOUND").
			With("reset_id", reset.ID.String()).
			Wrap(auth.ErrNotFound)
	}

	result, err = tx.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		reset.UserID.String(), passwordHash, r.now())
	if err != nil {
		return oops.Code("RESET_CONSUME_FAILED").
			With("operation", "update password").
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").
			With("user_id", reset.UserID.String()).
			Wrap(auth.ErrNotFound)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM password_reset_tokens WHERE user_id = $1`, reset.UserID.String()); err != nil {
		return oops.Code("RESET_CONSUME_FAILED").
			With("operation", "delete sibling tokens").
			Wrap(err)
	}
	return nil
}

// DeleteExpired removes all expired reset requests.
func (r *PasswordResetRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM password_reset_tokens WHERE expires_at <= $1`, r.now())
	if err != nil {
		return 0, oops.Code("RESET_DELETE_EXPIRED_FAILED").Wrap(err)
	}
	return result.RowsAffected(), nil
}

func scanReset(row pgx.Row) (*auth.PasswordReset, error) {
	var (
		reset          auth.PasswordReset
		idStr, userStr string
	)
	if err := row.Scan(&idStr, &userStr, &reset.TokenHash, &reset.ExpiresAt, &reset.CreatedAt); err != nil {
		return nil, err //nolint:wrapcheck // callers map pgx.ErrNoRows
	}

	id, err := parseID(idStr, "id")
	if err != nil {
		return nil, err
	}
	userID, err := parseID(userStr, "user_id")
	if err != nil {
		return nil, err
	}
	reset.ID = id
	reset.UserID = userID
	return &reset, nil
}

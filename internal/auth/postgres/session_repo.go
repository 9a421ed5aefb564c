// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/wardrobe-app/wardrobe/internal/auth"
)

var _ auth.SessionRepository = (*SessionRepository)(nil)

// SessionRepository implements auth.SessionRepository using PostgreSQL.
// Rows are only ever inserted and deleted.
type SessionRepository struct {
	pool poolIface
	now  func() time.Time
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool poolIface) *SessionRepository {
	return &SessionRepository{pool: pool, now: time.Now}
}

// Create stores a new session.
func (r *SessionRepository) Create(ctx context.Context, session *auth.Session) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO sessions (id, user_id, user_agent, ip_address, created_at, expires_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		session.ID.String(), session.UserID.String(), session.UserAgent, session.IPAddress,
		session.CreatedAt, session.ExpiresAt)
	if err != nil {
		return oops.Code("SESSION_CREATE_FAILED").
			With("operation", "insert session").
			With("user_id", session.UserID.String()).
			Wrap(err)
	}
	return nil
}

// GetWithOwner retrieves a session joined with its owning user.
func (r *SessionRepository) GetWithOwner(ctx context.Context, id ulid.ULID) (*auth.Session, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT s.id, s.user_id, s.user_agent, s.ip_address, s.created_at, s.expires_at, u.email, u.password_hash, u.is_active, u.created_at, u.updated_at FROM sessions s JOIN users u ON u.id = s.user_id WHERE s.id = $1`,
		id.String())

	session, err := scanSessionWithOwner(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("SESSION_NOT_FOUND").
			With("session_id", id.String()).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("SESSION_GET_FAILED").
			With("session_id", id.String()).
			Wrap(err)
	}
	return session, nil
}

// Delete removes a session and reports whether this call removed the row.
func (r *SessionRepository) Delete(ctx context.Context, id ulid.ULID) (bool, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id.String())
	if err != nil {
		return false, oops.Code("SESSION_DELETE_FAILED").
			With("session_id", id.String()).
			Wrap(err)
	}
	return result.RowsAffected() > 0, nil
}

// DeleteByUser removes all sessions for a user.
func (r *SessionRepository) DeleteByUser(ctx context.Context, userID ulid.ULID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID.String())
	if err != nil {
		return oops.Code("SESSION_DELETE_FAILED").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return nil
}

// DeleteExpired removes all expired sessions.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, r.now())
	if err != nil {
		return 0, oops.Code("SESSION_DELETE_EXPIRED_FAILED").Wrap(err)
	}
	return result.RowsAffected(), nil
}

func scanSessionWithOwner(row pgx.Row) (*auth.Session, error) {
	var (
		session        auth.Session
		owner          auth.User
		idStr, userStr string
	)
	if err := row.Scan(
		&idStr, &userStr, &session.UserAgent, &session.IPAddress, &session.CreatedAt, &session.ExpiresAt,
		&owner.Email, &owner.PasswordHash, &owner.IsActive, &owner.CreatedAt, &owner.UpdatedAt,
	); err != nil {
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

	session.ID = id
	session.UserID = userID
	owner.ID = userID
	session.Owner = &owner
	return &session, nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"

	"github.com/wardrobe-app/wardrobe/internal/auth"
)

const (
	testAccessSecret  = "access-secret-0123456789abcdefghijkl"
	testRefreshSecret = "refresh-secret-0123456789abcdefghijk"
)

func newTestCodec(t *testing.T) *auth.TokenCodec {
	t.Helper()
	codec, err := auth.NewTokenCodec(auth.TokenCodecConfig{
		AccessSecret:  []byte(testAccessSecret),
		RefreshSecret: []byte(testRefreshSecret),
		AccessTTL:     auth.DefaultAccessTokenTTL,
		RefreshTTL:    auth.DefaultRefreshTokenTTL,
	})
	require.NoError(t, err)
	return codec
}

func testUser(email string) *auth.User {
	now := time.Now()
	return &auth.User{
		ID:           ulid.Make(),
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// memDB is an in-memory backing store shared by the mem* repositories. It
// gives the same visibility guarantees as the Postgres implementation.
type memDB struct {
	mu       sync.Mutex
	users    map[ulid.ULID]*auth.User
	sessions map[ulid.ULID]*auth.Session
	resets   map[ulid.ULID]*auth.PasswordReset
	denied   map[string]time.Time
}

func newMemDB() *memDB {
	return &memDB{
		users:    make(map[ulid.ULID]*auth.User),
		sessions: make(map[ulid.ULID]*auth.Session),
		resets:   make(map[ulid.ULID]*auth.PasswordReset),
		denied:   make(map[string]time.Time),
	}
}

func (db *memDB) userCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users)
}

func (db *memDB) sessionCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.sessions)
}

func (db *memDB) passwordHash(id ulid.ULID) string {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.users[id].PasswordHash
}

type memUsers struct{ db *memDB }

func (r memUsers) Create(_ context.Context, user *auth.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Email == user.Email {
			return auth.ErrUserAlreadyExists
		}
	}
	cp := *user
	r.db.users[user.ID] = &cp
	return nil
}

func (r memUsers) GetByID(_ context.Context, id ulid.ULID) (*auth.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (r memUsers) UpdatePassword(_ context.Context, id ulid.ULID, hash string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return auth.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

type memSessions struct{ db *memDB }

func (r memSessions) Create(_ context.Context, s *auth.Session) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *s
	cp.Owner = nil
	r.db.sessions[s.ID] = &cp
	return nil
}

func (r memSessions) GetWithOwner(_ context.Context, id ulid.ULID) (*auth.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.sessions[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	owner, ok := r.db.users[s.UserID]
	if !ok {
		return nil, auth.ErrNotFound
	}
	cp := *s
	ownerCopy := *owner
	cp.Owner = &ownerCopy
	return &cp, nil
}

func (r memSessions) Delete(_ context.Context, id ulid.ULID) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.sessions[id]; !ok {
		return false, nil
	}
	delete(r.db.sessions, id)
	return true, nil
}

func (r memSessions) DeleteByUser(_ context.Context, userID ulid.ULID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, s := range r.db.sessions {
		if s.UserID == userID {
			delete(r.db.sessions, id)
		}
	}
	return nil
}

func (r memSessions) DeleteExpired(_ context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for id, s := range r.db.sessions {
		if s.IsExpiredAt(time.Now()) {
			delete(r.db.sessions, id)
			n++
		}
	}
	return n, nil
}

type memResets struct{ db *memDB }

func (r memResets) Create(_ context.Context, reset *auth.PasswordReset) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *reset
	r.db.resets[reset.ID] = &cp
	return nil
}

func (r memResets) GetByTokenHash(_ context.Context, hash string) (*auth.PasswordReset, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, reset := range r.db.resets {
		if reset.TokenHash == hash {
			cp := *reset
			return &cp, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (r memResets) Consume(_ context.Context, reset *auth.PasswordReset, hash string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.resets[reset.ID]; !ok {
		return auth.ErrNotFound
	}
	u, ok := r.db.users[reset.UserID]
	if !ok {
		return auth.ErrNotFound
	}
	u.PasswordHash = hash
	for id, other := range r.db.resets {
		if other.UserID == reset.UserID {
			delete(r.db.resets, id)
		}
	}
	return nil
}

func (r memResets) DeleteExpired(_ context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for id, reset := range r.db.resets {
		if reset.IsExpiredAt(time.Now()) {
			delete(r.db.resets, id)
			n++
		}
	}
	return n, nil
}

type memDenylist struct{ db *memDB }

func (r memDenylist) Deny(_ context.Context, jti string, exp time.Time) error {
	if auth.RemainingTTL(exp, time.Now()) <= 0 {
		return nil
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.denied[jti] = exp
	return nil
}

func (r memDenylist) IsDenied(_ context.Context, jti string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	exp, ok := r.db.denied[jti]
	return ok && time.Now().Before(exp), nil
}

// recordingNotifier captures published messages.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []auth.ResetRequested
	topics   []string
	err      error
}

func (n *recordingNotifier) Publish(_ context.Context, topic string, payload any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	if msg, ok := payload.(auth.ResetRequested); ok {
		n.messages = append(n.messages, msg)
	}
	n.topics = append(n.topics, topic)
	return nil
}

func (n *recordingNotifier) last(t *testing.T) auth.ResetRequested {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.messages, "no reset message published")
	return n.messages[len(n.messages)-1]
}

// stack wires real services over memDB.
type stack struct {
	db       *memDB
	codec    *auth.TokenCodec
	hasher   *auth.Argon2idHasher
	notifier *recordingNotifier
	auth     *auth.Service
	resets   *auth.PasswordResetService
}

func newStack(t *testing.T) *stack {
	t.Helper()
	db := newMemDB()
	codec := newTestCodec(t)
	hasher := auth.NewArgon2idHasher()
	notifier := &recordingNotifier{}

	svc, err := auth.NewAuthService(memUsers{db}, memSessions{db}, hasher, codec, memDenylist{db})
	require.NoError(t, err)

	resetSvc, err := auth.NewPasswordResetService(memUsers{db}, memResets{db}, memSessions{db}, hasher, notifier)
	require.NoError(t, err)

	return &stack{db: db, codec: codec, hasher: hasher, notifier: notifier, auth: svc, resets: resetSvc}
}

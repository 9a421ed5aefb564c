// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

package auth

import (
	"errors"

	"github.com/samber/oops"
)

// ErrNotFound is returned by repositories when a requested entity does not exist.
// Services translate it into one of the taxonomy errors below.
var ErrNotFound = errors.New("not found")

// Taxonomy errors returned by the services. Callers match them with errors.Is.
var (
	// ErrInvalidCredentials covers a failed login and any access token that fails
	// signature, expiry, denylist or subject checks. The cause is deliberately
	// not distinguished.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidSession is the refresh-token variant of ErrInvalidCredentials.
	// The caller should discard its refresh cookie.
	ErrInvalidSession = errors.New("invalid session")

	// ErrUserAlreadyExists is returned when registering an email that is taken.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrUserNotFound is used internally by the reset flow and must never
	// reach a client.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidOrExpiredToken is returned for unknown, consumed or expired
	// password-reset tokens.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")

	// ErrInvalidInput marks caller input that failed validation, such as a
	// malformed email or a password that is too short.
	ErrInvalidInput = errors.New("invalid input")
)

// Error codes attached to taxonomy errors.
const (
	CodeInvalidCredentials    = "AUTH_INVALID_CREDENTIALS"
	CodeInvalidSession        = "AUTH_INVALID_SESSION"
	CodeUserAlreadyExists     = "AUTH_USER_EXISTS"
	CodeUserNotFound          = "AUTH_USER_NOT_FOUND"
	CodeInvalidOrExpiredToken = "RESET_TOKEN_INVALID"
)

func invalidCredentials(reason string) error {
	return oops.Code(CodeInvalidCredentials).
		With("reason", reason).
		Wrap(ErrInvalidCredentials)
}

func invalidSession(reason string) error {
	return oops.Code(CodeInvalidSession).
		With("reason", reason).
		Wrap(ErrInvalidSession)
}

func invalidResetToken(reason string) error {
	return oops.Code(CodeInvalidOrExpiredToken).
		With("reason", reason).
		Wrap(ErrInvalidOrExpiredToken)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

// Package auth implements the authentication and session-lifecycle core of
// Wardrobe.
//
// # Domain Types
//
// Domain types should be created using their constructors:
//   - NewUser - creates a User with a normalised email and password hash
//   - NewSession - creates a Session bound to a user and device, with expiry
//   - NewPasswordReset - creates a PasswordReset with validated user and expiry
//
// Direct struct initialization bypasses validation and may create invalid state.
//
// # Tokens
//
// Access and refresh tokens are HS256 JWTs produced by TokenCodec. They are
// signed with distinct secrets. A refresh token's jti is the ID of the Session
// it was minted for, so validating a refresh token means validating that the
// Session exists, is unexpired and belongs to the token's subject. An access
// token's jti is random and only used for revocation.
//
// # Services
//
//   - Service - register, login, refresh rotation, logout, authenticate
//   - PasswordResetService - reset token issue and single-use consumption
//   - Janitor - periodic removal of expired sessions and reset tokens
//
// Services are created with New* constructors that validate dependencies.
package auth

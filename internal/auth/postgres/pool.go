// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

// Package postgres provides PostgreSQL implementations of the auth repositories.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// poolIface is the subset of *pgxpool.Pool the repositories use. It lets
// unit tests substitute pgxmock.
type poolIface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// parseID converts a stored TEXT id back into a ULID.
func parseID(s, field string) (ulid.ULID, error) {
	id, err := ulid.Parse(s)
	if err != nil {
		return ulid.ULID{}, oops.Code("ID_PARSE_FAILED").
			With("field", field).
			With("value", s).
			Wrap(err)
	}
	return id, nil
}

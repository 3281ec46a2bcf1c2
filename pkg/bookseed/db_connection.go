package bookseed

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBConnection is the subset of *pgx.Conn the seeder needs.
// pgx.Tx satisfies it as well, so group inserts can run against either.
type DBConnection interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

var _ DBConnection = (*pgx.Conn)(nil)
var _ DBConnection = (pgx.Tx)(nil)

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the part of pgx used by repositories.
// It is implemented by *pgxpool.Pool and pgx.Tx, so the same repository code runs inside and outside a transaction.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row

	// Begin starts a transaction, or a savepoint if called on a transaction.
	Begin(ctx context.Context) (pgx.Tx, error)
}

var (
	_ DB = (*pgxpool.Pool)(nil)
	_ DB = (pgx.Tx)(nil)
)

// ConnOrTX returns the transaction in ctx.
// If no transaction is in the context, it falls back to the pool.
func ConnOrTX(ctx context.Context, pool *pgxpool.Pool) DB { //nolint:ireturn // pool or transaction
	if tx, ok := ctx.Value(CtxTX).(pgx.Tx); ok {
		return tx
	}

	return pool
}

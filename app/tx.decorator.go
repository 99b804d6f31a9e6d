package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/go-arrower/hrsuite/postgres"
)

// NewTxRequest runs req inside a database transaction.
// Repositories pick the transaction up from the context, see postgres.CtxTX.
// The transaction is rolled back, if req returns an error.
func NewTxRequest[Req any, Res any](pgx *pgxpool.Pool, req Request[Req, Res]) Request[Req, Res] {
	return transactional(pgx, req)
}

func NewTxCommand[C any](pgx *pgxpool.Pool, cmd Command[C]) Command[C] {
	return lower[C](transactional[C, struct{}](pgx, lift[C](cmd)))
}

func NewTxJob[J any](pgx *pgxpool.Pool, job Job[J]) Job[J] {
	return lower[J](transactional[J, struct{}](pgx, lift[J](job)))
}

func transactional[Req any, Res any](pgx *pgxpool.Pool, base Request[Req, Res]) RequestFunc[Req, Res] {
	return func(ctx context.Context, req Req) (Res, error) {
		tx, err := pgx.Begin(ctx)
		if err != nil {
			return *new(Res), fmt.Errorf("could not start transaction: %w", err)
		}

		ctx = context.WithValue(ctx, postgres.CtxTX, tx)

		res, err := base.H(ctx, req)
		if err != nil {
			if rb := tx.Rollback(ctx); rb != nil {
				return *new(Res), fmt.Errorf("could not rollback transaction: %w", rb)
			}

			return res, err //nolint:wrapcheck // decorate but not change anything
		}

		if err := tx.Commit(ctx); err != nil {
			return *new(Res), fmt.Errorf("could not commit transaction: %w", err)
		}

		return res, nil
	}
}

package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx operations shared by *pgxpool.Pool, pgx.Tx, and
// pgxmock pools. Repositories depend on this interface so the same code runs
// against the pool, inside a transaction, or under a mock in tests.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxStarter extends DBTX with the ability to begin transactions. *pgxpool.Pool
// and pgxmock pools satisfy it; services use it to orchestrate multi-statement
// units of work.
type TxStarter interface {
	DBTX
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

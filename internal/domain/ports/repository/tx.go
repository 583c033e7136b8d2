package repository

import "context"

// Tx is an infra-defined transaction handle (pgx.Tx for Postgres).
// Repositories MUST accept NoTX and fall back to their pool.
type Tx interface{}

var NoTX Tx

// TransactionManager runs fn inside a single transaction. The handle passed to
// fn must be forwarded to repository calls that should join it.
type TransactionManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

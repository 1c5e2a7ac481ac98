// Package dbtx makes the transaction boundary an explicit value threaded
// through context.Context instead of an ambient annotation (see DESIGN.md
// Design Note on "Ambient transaction context via annotations"). Callers
// wrap a unit of work in RunInTransaction; every repository method
// resolves its executor with GetExecutor, so the same method runs
// correctly whether or not it is inside that unit of work.
package dbtx

import (
	"context"
	"database/sql"
)

// Executor is the common subset of *sql.DB and *sql.Tx that repositories
// need. Repositories depend on this, never on *sql.DB or *sql.Tx directly.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Beginner is satisfied by *sql.DB and by a dbresolver.DB handle (which
// routes BeginTx to the primary), letting RunInTransaction work with
// either without depending on a concrete connection-pool type.
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type txKey struct{}

// ContextWithTx returns a context carrying tx.
func ContextWithTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns the *sql.Tx stored in ctx, or nil if none.
func TxFromContext(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

// GetExecutor resolves the Executor to use for ctx: the transaction if
// RunInTransaction is on the call stack, otherwise db itself.
//
//nolint:ireturn
func GetExecutor(ctx context.Context, db Executor) Executor {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}

	return db
}

// RunInTransaction begins a transaction on db, runs fn with a context that
// carries it, and commits on success. It rolls back and returns fn's error
// on failure, and rolls back and re-panics if fn panics.
func RunInTransaction(ctx context.Context, db Beginner, fn func(ctx context.Context) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	txCtx := ContextWithTx(ctx, tx)

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return rbErr
		}

		return err
	}

	return tx.Commit()
}

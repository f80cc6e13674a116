package database

import (
	"context"

	"github.com/jmoiron/sqlx"

	"vocab-learning/internal/apperr"
)

type txKey struct{}

// RunInTx runs fn inside one transaction. DAO calls made with the ctx passed
// to fn use that transaction. A nested call joins the outer transaction.
func (db *DB) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.Database("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperr.Database("failed to commit transaction", err)
	}
	return nil
}

// ext returns the transaction bound to ctx, or the pool.
func (db *DB) ext(ctx context.Context) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return db.DB
}

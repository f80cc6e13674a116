package database

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"vocab-learning/internal/apperr"
)

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// lookupError maps a failed single-row lookup: no rows becomes notFound, anything else a Database error.
func lookupError(err error, notFound *apperr.Error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return apperr.Database(op, err)
}

// writeError maps a failed insert or update: unique violations become conflict.
func writeError(err error, conflict *apperr.Error, op string) error {
	if conflict != nil && isUniqueViolation(err) {
		return conflict
	}
	return apperr.Database(op, err)
}

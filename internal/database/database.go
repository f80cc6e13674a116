package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"vocab-learning/internal/config"
)

// DB is the pool handle shared by every DAO.
type DB struct {
	*sqlx.DB
}

// New wraps an already opened connection.
func New(db *sqlx.DB) *DB {
	return &DB{DB: db}
}

// Connect opens the pool and pings until the store answers or the retries run out.
func Connect(ctx context.Context, cfg config.DatabaseConfig, log logrus.FieldLogger) (*DB, error) {
	dsn := cfg.URL
	if cfg.Driver == "sqlite3" {
		dsn = sqliteDSN(dsn)
	}
	db, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection (driver error): %w", err)
	}
	configurePool(db, cfg)

	maxRetries := cfg.ConnectRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	var pingErr error
	for i := 1; i <= maxRetries; i++ {
		pingErr = db.PingContext(ctx)
		if pingErr == nil {
			return New(db), nil
		}
		if i == maxRetries {
			break
		}

		log.WithError(pingErr).Warnf("DB not ready (attempt %d/%d). Retrying in %s...", i, maxRetries, cfg.RetryInterval)
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(cfg.RetryInterval):
		}
	}

	db.Close()
	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, pingErr)
}

// sqliteDSN turns on foreign key enforcement, which SQLite leaves off per
// connection. Without it no ON DELETE CASCADE fires.
func sqliteDSN(url string) string {
	if strings.Contains(url, "_foreign_keys=") || strings.Contains(url, "_fk=") {
		return url
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "_foreign_keys=on"
}

func configurePool(db *sqlx.DB, cfg config.DatabaseConfig) {
	if cfg.Driver == "sqlite3" {
		// one connection, or every ":memory:" connection gets its own empty database
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		return
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}

// get scans one row into dest. sql.ErrNoRows is returned as is.
func (db *DB) get(ctx context.Context, dest any, query string, args ...any) error {
	q := db.ext(ctx)
	return sqlx.GetContext(ctx, q, dest, q.Rebind(query), args...)
}

func (db *DB) selectAll(ctx context.Context, dest any, query string, args ...any) error {
	q := db.ext(ctx)
	return sqlx.SelectContext(ctx, q, dest, q.Rebind(query), args...)
}

// exec runs a statement and returns the number of affected rows.
func (db *DB) exec(ctx context.Context, query string, args ...any) (int64, error) {
	q := db.ext(ctx)
	res, err := q.ExecContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// insertReturningID binds the named parameters of arg and scans the returned id.
func (db *DB) insertReturningID(ctx context.Context, query string, arg any) (int64, error) {
	q := db.ext(ctx)
	bound, args, err := q.BindNamed(query, arg)
	if err != nil {
		return 0, err
	}
	var id int64
	if err := q.QueryRowxContext(ctx, bound, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Health pings the store.
func (db *DB) Health(ctx context.Context) error {
	return db.PingContext(ctx)
}

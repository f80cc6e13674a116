package database

import (
	"context"
	"fmt"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(255) NOT NULL UNIQUE,
		email VARCHAR(255) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS vocabulary_topics (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS vocabularies (
		id BIGSERIAL PRIMARY KEY,
		topic_id BIGINT NOT NULL REFERENCES vocabulary_topics(id) ON DELETE CASCADE,
		word VARCHAR(255) NOT NULL,
		meaning TEXT NOT NULL,
		phonetic VARCHAR(255) NOT NULL DEFAULT '',
		audio_path VARCHAR(512),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS tests (
		id BIGSERIAL PRIMARY KEY,
		topic_id BIGINT NOT NULL REFERENCES vocabulary_topics(id) ON DELETE CASCADE,
		question TEXT NOT NULL,
		correct_answer VARCHAR(255) NOT NULL,
		option1 VARCHAR(255) NOT NULL,
		option2 VARCHAR(255) NOT NULL,
		option3 VARCHAR(255) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS test_results (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		topic_id BIGINT NOT NULL REFERENCES vocabulary_topics(id) ON DELETE CASCADE,
		score DOUBLE PRECISION NOT NULL CHECK (score >= 0 AND score <= 100),
		completion_time INTEGER NOT NULL CHECK (completion_time >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS leaderboards (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		topic_id BIGINT NOT NULL REFERENCES vocabulary_topics(id) ON DELETE CASCADE,
		total_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		tests_completed INTEGER NOT NULL DEFAULT 0,
		average_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, topic_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_vocabularies_topic_id ON vocabularies(topic_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tests_topic_id ON tests(topic_id)`,
	`CREATE INDEX IF NOT EXISTS idx_test_results_user_id ON test_results(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_test_results_topic_id ON test_results(topic_id)`,
	`CREATE INDEX IF NOT EXISTS idx_leaderboards_topic_score ON leaderboards(topic_id, average_score DESC)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS vocabulary_topics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS vocabularies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		topic_id INTEGER NOT NULL REFERENCES vocabulary_topics(id) ON DELETE CASCADE,
		word TEXT NOT NULL,
		meaning TEXT NOT NULL,
		phonetic TEXT NOT NULL DEFAULT '',
		audio_path TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS tests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		topic_id INTEGER NOT NULL REFERENCES vocabulary_topics(id) ON DELETE CASCADE,
		question TEXT NOT NULL,
		correct_answer TEXT NOT NULL,
		option1 TEXT NOT NULL,
		option2 TEXT NOT NULL,
		option3 TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS test_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		topic_id INTEGER NOT NULL REFERENCES vocabulary_topics(id) ON DELETE CASCADE,
		score REAL NOT NULL CHECK (score >= 0 AND score <= 100),
		completion_time INTEGER NOT NULL CHECK (completion_time >= 0),
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS leaderboards (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		topic_id INTEGER NOT NULL REFERENCES vocabulary_topics(id) ON DELETE CASCADE,
		total_score REAL NOT NULL DEFAULT 0,
		tests_completed INTEGER NOT NULL DEFAULT 0,
		average_score REAL NOT NULL DEFAULT 0,
		last_updated TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (user_id, topic_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_vocabularies_topic_id ON vocabularies(topic_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tests_topic_id ON tests(topic_id)`,
	`CREATE INDEX IF NOT EXISTS idx_test_results_user_id ON test_results(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_test_results_topic_id ON test_results(topic_id)`,
	`CREATE INDEX IF NOT EXISTS idx_leaderboards_topic_score ON leaderboards(topic_id, average_score DESC)`,
}

// Schema returns the DDL statements for a driver name.
func Schema(driver string) ([]string, error) {
	switch driver {
	case "pgx":
		return postgresSchema, nil
	case "sqlite3":
		return sqliteSchema, nil
	default:
		return nil, fmt.Errorf("no schema for driver %q", driver)
	}
}

// Migrate creates the tables and indexes that do not exist yet.
func (db *DB) Migrate(ctx context.Context) error {
	stmts, err := Schema(db.DriverName())
	if err != nil {
		return err
	}
	for i, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}

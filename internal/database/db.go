package database

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/lib/pq"

	"github.com/mori5600/yarukoto/internal/config"
	"github.com/mori5600/yarukoto/pkg/logger"
)

// Open connects to Postgres using DATABASE_URL and applies pool sizing from config.
func Open(ctx context.Context) (*sql.DB, error) {
	cfg := config.Get()
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(cfg.DBPoolSize)
	db.SetMaxIdleConns(cfg.DBPoolSize / 2)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info(ctx, "Database pool initialized", "max_open", cfg.DBPoolSize)
	return db, nil
}

// EnsureSchema creates the tasks table and its indexes if missing (idempotent).
// The DDL is portable across Postgres and SQLite so tests share it.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			description TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS tasks_owner_created_at ON tasks (owner_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS tasks_owner_completed ON tasks (owner_id, completed)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the sqlx handle. It is created once at startup and passed to
// whoever needs it.
type DB struct {
	*sqlx.DB
}

// Open connects to the database and creates the schema if needed.
// driver is "sqlite3" or "postgres".
func Open(driver, dsn string) (*DB, error) {
	if driver == "sqlite3" {
		if err := ensureDataDir(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite3" {
		// SQLite doesn't support multiple writers; one connection also keeps
		// an in-memory database alive for the lifetime of the handle
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)

		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	d := &DB{DB: db}
	if err := d.initializeSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	if d == nil || d.DB == nil {
		return nil
	}
	return d.DB.Close()
}

// WithTx runs fn in a transaction and commits if fn returns nil.
// Any error or panic rolls the whole transaction back.
func (d *DB) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := d.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func ensureDataDir(dsn string) error {
	if dsn == "" || strings.Contains(dsn, ":memory:") || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	path := dsn
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

func (d *DB) initializeSchema() error {
	statements := sqliteSchema
	if d.DriverName() == "postgres" {
		statements = postgresSchema
	}
	for _, stmt := range statements {
		if _, err := d.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL UNIQUE,
		notification_email TEXT NOT NULL DEFAULT '',
		telegram_chat_id INTEGER NOT NULL DEFAULT 0,
		notify_opt_in BOOLEAN NOT NULL DEFAULT true,
		skip_weekends BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS problems (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		owner_id INTEGER NOT NULL,
		leetcode_id INTEGER NOT NULL,
		title_slug TEXT NOT NULL,
		name TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '[]',
		deadline TIMESTAMP NOT NULL,
		status TEXT NOT NULL DEFAULT 'todo',
		last_practiced_at TIMESTAMP,
		confidence_history TEXT NOT NULL DEFAULT '[]',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		FOREIGN KEY (owner_id) REFERENCES users(id),
		UNIQUE(owner_id, leetcode_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_problems_owner_deadline ON problems(owner_id, deadline)`,
	`CREATE TABLE IF NOT EXISTS reminders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		problem_id INTEGER NOT NULL,
		user_id INTEGER NOT NULL,
		scheduled_for TIMESTAMP NOT NULL,
		created_from TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		meta TEXT NOT NULL DEFAULT '{}',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		FOREIGN KEY (problem_id) REFERENCES problems(id),
		FOREIGN KEY (user_id) REFERENCES users(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reminders_user_status_due ON reminders(user_id, status, scheduled_for)`,
	`CREATE INDEX IF NOT EXISTS idx_reminders_problem_status ON reminders(problem_id, status)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL UNIQUE,
		notification_email TEXT NOT NULL DEFAULT '',
		telegram_chat_id BIGINT NOT NULL DEFAULT 0,
		notify_opt_in BOOLEAN NOT NULL DEFAULT TRUE,
		skip_weekends BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS problems (
		id BIGSERIAL PRIMARY KEY,
		owner_id BIGINT NOT NULL REFERENCES users(id),
		leetcode_id INTEGER NOT NULL,
		title_slug TEXT NOT NULL,
		name TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '[]',
		deadline TIMESTAMPTZ NOT NULL,
		status TEXT NOT NULL DEFAULT 'todo',
		last_practiced_at TIMESTAMPTZ,
		confidence_history TEXT NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		UNIQUE(owner_id, leetcode_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_problems_owner_deadline ON problems(owner_id, deadline)`,
	`CREATE TABLE IF NOT EXISTS reminders (
		id BIGSERIAL PRIMARY KEY,
		problem_id BIGINT NOT NULL REFERENCES problems(id),
		user_id BIGINT NOT NULL REFERENCES users(id),
		scheduled_for TIMESTAMPTZ NOT NULL,
		created_from TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		meta TEXT NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reminders_user_status_due ON reminders(user_id, status, scheduled_for)`,
	`CREATE INDEX IF NOT EXISTS idx_reminders_problem_status ON reminders(problem_id, status)`,
}

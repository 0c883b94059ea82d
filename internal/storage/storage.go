// Package storage opens the SQLite database, applies migrations and bundles
// the repositories built on it.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/nudger/internal/migrations"
	"github.com/dmitrijs2005/nudger/internal/repositories/accounts"
	"github.com/dmitrijs2005/nudger/internal/repositories/messages"
	"github.com/dmitrijs2005/nudger/internal/repositories/profiles"
	"github.com/dmitrijs2005/nudger/internal/repositories/settings"
	"github.com/dmitrijs2005/nudger/internal/repositories/tasks"

	_ "modernc.org/sqlite"
)

// Repositories bundles the repositories bound to one *sql.DB. DB is kept so
// services can open transactions.
type Repositories struct {
	DB       *sql.DB
	Accounts accounts.Repository
	Settings settings.Repository
	Profiles profiles.Repository
	Tasks    tasks.Repository
	Messages messages.Repository
}

// Open opens dsn with the modernc sqlite driver and applies the schema.
//
// The pool is capped at a single connection. SQLite serializes writers
// anyway, and ":memory:" databases are per connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if err := migrations.Up(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// New binds every repository to db.
func New(db *sql.DB) *Repositories {
	return &Repositories{
		DB:       db,
		Accounts: accounts.NewSQLiteRepository(db),
		Settings: settings.NewSQLiteRepository(db),
		Profiles: profiles.NewSQLiteRepository(db),
		Tasks:    tasks.NewSQLiteRepository(db),
		Messages: messages.NewSQLiteRepository(db),
	}
}

// InitDatabase is Open followed by New.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return New(db), nil
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}

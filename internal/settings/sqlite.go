package settings

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var fs embed.FS

type sqliteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) the settings database at dsn and applies
// pending migrations.
func NewSQLiteStore(dsn string) (Store, error) {
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &sqliteStore{db: db}, nil
}

func runMigrations(db *sqlx.DB) error {
	driver, err := sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	if err != nil {
		return err
	}

	d, err := iofs.New(fs, "migrations")
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", d, "sqlite3", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

func (s *sqliteStore) Get(ctx context.Context, scope, key string, dest interface{}) error {
	var raw []byte
	query := `SELECT value FROM settings WHERE scope = ? AND key = ?`
	if err := s.db.GetContext(ctx, &raw, query, scope, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (s *sqliteStore) Set(ctx context.Context, scope, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode settings value: %w", err)
	}

	query := `
	INSERT INTO settings (scope, key, value, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(scope, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	_, err = s.db.ExecContext(ctx, query, scope, key, raw, time.Now().UTC())
	return err
}

func (s *sqliteStore) Delete(ctx context.Context, scope, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE scope = ? AND key = ?`, scope, key)
	return err
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

package kv

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteMedium keeps every key as a row of a single table in a local
// database file.
type SQLiteMedium struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies the
// embedded migrations.
func OpenSQLite(path string) (*SQLiteMedium, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("kv: open database: %w", err)
	}
	// One writer at a time keeps each upsert atomic for the caller
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	slog.Debug("opened sqlite medium", "path", path)
	return &SQLiteMedium{db: db}, nil
}

func migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("kv: set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("kv: run migrations: %w", err)
	}
	return nil
}

// Close closes the database
func (m *SQLiteMedium) Close() error {
	return m.db.Close()
}

func (m *SQLiteMedium) Read(key string) ([]byte, error) {
	var data []byte
	err := m.db.QueryRow("SELECT value FROM kv_entries WHERE key = ?", key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("kv: read %s: %w", key, err)
	}
	return data, nil
}

func (m *SQLiteMedium) Write(key string, data []byte) error {
	if key == "" {
		return errors.New("kv: empty key")
	}
	_, err := m.db.Exec(`
		INSERT INTO kv_entries (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, data, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("kv: write %s: %w", key, err)
	}
	return nil
}

func (m *SQLiteMedium) Erase(key string) error {
	if _, err := m.db.Exec("DELETE FROM kv_entries WHERE key = ?", key); err != nil {
		return fmt.Errorf("kv: erase %s: %w", key, err)
	}
	return nil
}

func (m *SQLiteMedium) EraseAll() error {
	if _, err := m.db.Exec("DELETE FROM kv_entries"); err != nil {
		return fmt.Errorf("kv: erase all: %w", err)
	}
	return nil
}

func (m *SQLiteMedium) Keys() ([]string, error) {
	rows, err := m.db.Query("SELECT key FROM kv_entries ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("kv: list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("kv: scan key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

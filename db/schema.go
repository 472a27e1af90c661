// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/gala-registration/cliparse"
)

// Open connects to the configured database and verifies the connection
func Open(cfg cliparse.Config) (*sqlx.DB, error) {
	conn, err := sqlx.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.DatabaseType, err)
	}

	// SQLite allows a single writer; one connection also keeps :memory: databases alive
	if cfg.DatabaseType == cliparse.DatabaseSQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL is valid for both PostgreSQL and SQLite.
func CreateSchema(db *sqlx.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// IsUniqueViolation reports whether err is a unique constraint failure
// from either supported driver
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	return false
}

const schema = `
-- Registrations
CREATE TABLE IF NOT EXISTS registrations (
    id TEXT PRIMARY KEY,
    full_name TEXT NOT NULL,
    kit_number TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL,
    whatsapp_number TEXT NOT NULL,
    car_number_plate TEXT NOT NULL DEFAULT 'N/A',
    house TEXT NOT NULL,
    profession TEXT NOT NULL,
    postal_address TEXT NOT NULL DEFAULT '',
    attend_gala TEXT NOT NULL,
    morale TEXT NOT NULL,
    excited_for_gala TEXT NOT NULL,
    photo_url TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_registrations_created_at ON registrations(created_at);

-- Admin settings (registration_open, admin_password)
CREATE TABLE IF NOT EXISTS admin_settings (
    setting_key TEXT PRIMARY KEY,
    setting_value TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

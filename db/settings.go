// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Setting keys stored in admin_settings
const (
	SettingRegistrationOpen = "registration_open"
	SettingAdminPassword    = "admin_password"
)

// GetSetting returns the stored value for key.
// found is false when the key has never been written.
func GetSetting(ctx context.Context, db sqlx.ExtContext, key string) (value string, found bool, err error) {
	err = sqlx.GetContext(ctx, db, &value, db.Rebind(`
		SELECT setting_value FROM admin_settings WHERE setting_key = ?
	`), key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, true, nil
}

// PutSetting inserts or replaces the value for key
func PutSetting(ctx context.Context, db sqlx.ExtContext, key, value string, now time.Time) error {
	_, err := db.ExecContext(ctx, db.Rebind(`
		INSERT INTO admin_settings (setting_key, setting_value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (setting_key)
		DO UPDATE SET setting_value = excluded.setting_value, updated_at = excluded.updated_at
	`), key, value, now)
	if err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}

// RegistrationOpen reports whether public registration is accepted.
// A missing setting means open; otherwise only the exact value "true" is open.
func RegistrationOpen(ctx context.Context, db sqlx.ExtContext) (bool, error) {
	value, found, err := GetSetting(ctx, db, SettingRegistrationOpen)
	if err != nil {
		return false, err
	}
	if !found {
		return true, nil
	}
	return value == "true", nil
}

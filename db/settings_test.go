// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/gala-registration/cliparse"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conn, err := Open(cliparse.Config{
		DatabaseType: cliparse.DatabaseSQLite,
		DatabaseURL:  ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, CreateSchema(conn))
	return conn
}

func TestCreateSchema_Idempotent(t *testing.T) {
	conn := openTestDB(t)
	assert.NoError(t, CreateSchema(conn))
}

func TestSettings_RoundTrip(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	_, found, err := GetSetting(ctx, conn, SettingAdminPassword)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, PutSetting(ctx, conn, SettingAdminPassword, "hash-1", time.Now()))
	require.NoError(t, PutSetting(ctx, conn, SettingAdminPassword, "hash-2", time.Now()))

	value, found, err := GetSetting(ctx, conn, SettingAdminPassword)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "hash-2", value)
}

func TestRegistrationOpen(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	open, err := RegistrationOpen(ctx, conn)
	require.NoError(t, err)
	assert.True(t, open, "missing setting defaults to open")

	tests := []struct {
		stored string
		want   bool
	}{
		{"false", false},
		{"true", true},
		{"TRUE", false},
		{"", false},
	}
	for _, tt := range tests {
		require.NoError(t, PutSetting(ctx, conn, SettingRegistrationOpen, tt.stored, time.Now()))
		open, err := RegistrationOpen(ctx, conn)
		require.NoError(t, err)
		assert.Equal(t, tt.want, open, "stored %q", tt.stored)
	}
}

func TestGetSetting_RebindsForPostgres(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	conn := sqlx.NewDb(mockDB, "postgres")
	mock.ExpectQuery(`setting_key = \$1`).
		WithArgs(SettingRegistrationOpen).
		WillReturnRows(sqlmock.NewRows([]string{"setting_value"}).AddRow("false"))

	value, found, err := GetSetting(context.Background(), conn, SettingRegistrationOpen)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "false", value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettings_DatabaseErrors(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	conn := sqlx.NewDb(mockDB, "sqlmock")
	boom := errors.New("connection reset")

	mock.ExpectQuery("SELECT setting_value").WillReturnError(boom)
	_, err = RegistrationOpen(context.Background(), conn)
	assert.ErrorIs(t, err, boom)

	mock.ExpectExec("INSERT INTO admin_settings").WillReturnError(boom)
	err = PutSetting(context.Background(), conn, SettingRegistrationOpen, "true", time.Now())
	assert.ErrorIs(t, err, boom)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSchema_Error(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS registrations").WillReturnError(errors.New("permission denied"))

	err = CreateSchema(sqlx.NewDb(mockDB, "sqlmock"))
	assert.ErrorContains(t, err, "failed to create schema")
}

func TestIsUniqueViolation(t *testing.T) {
	conn := openTestDB(t)

	insert := `INSERT INTO registrations (id, full_name, kit_number, email, whatsapp_number,
		house, profession, attend_gala, morale, excited_for_gala)
		VALUES (?, 'A', '45', 'a@example.com', '1', 'Iqbal', 'Dev', 'Yes', 'High Sir!', 'Yes')`

	_, err := conn.Exec(insert, "id-1")
	require.NoError(t, err)

	_, err = conn.Exec(insert, "id-2")
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))

	assert.False(t, IsUniqueViolation(errors.New("other")))
	assert.False(t, IsUniqueViolation(nil))
}

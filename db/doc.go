// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles connections, schema creation, and admin settings.

# Connecting

Open picks the driver from the configured database type (modernc SQLite
or lib/pq PostgreSQL) and pings it:

	conn, err := db.Open(cfg)

Queries across the codebase are written with ? placeholders and passed
through Rebind, so the same SQL runs on both drivers.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - registrations: one row per attendee, kit_number is UNIQUE
  - admin_settings: key/value rows (registration_open, admin_password)

# Settings

	open, err := db.RegistrationOpen(ctx, conn)
	err = db.PutSetting(ctx, conn, db.SettingRegistrationOpen, "false", time.Now())

A missing registration_open row means registration is open.

# Constraint Errors

IsUniqueViolation recognizes duplicate-key errors from both drivers so
handlers can turn a racing duplicate kit number into a 400.
*/
package db

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/gala-registration/auth"
	"github.com/danielhkuo/gala-registration/cliparse"
	"github.com/danielhkuo/gala-registration/db"
	"github.com/danielhkuo/gala-registration/models"
	"github.com/danielhkuo/gala-registration/photos"
)

// TestAdminPassword is the bootstrap admin password in GetTestConfig
const TestAdminPassword = "gala-admin"

// TestMaxPhotoBytes is the photo size limit in GetTestConfig
const TestMaxPhotoBytes = 4 << 10

// SetupTestDB opens a fresh in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conn, err := db.Open(GetTestConfig())
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SetupTestPhotos opens an in-memory photo bucket
func SetupTestPhotos(t *testing.T, cfg cliparse.Config) *photos.Store {
	t.Helper()

	store, err := photos.Open(context.Background(), cfg.PhotoBucketURL, cfg.PublicBaseURL, cfg.MaxPhotoBytes)
	if err != nil {
		t.Fatalf("Failed to open photo bucket: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           3318,
		DatabaseURL:    ":memory:",
		DatabaseType:   cliparse.DatabaseSQLite,
		AdminPassword:  TestAdminPassword,
		SessionSecret:  "test-session-secret",
		SessionTTL:     time.Hour,
		PhotoBucketURL: "mem://",
		PublicBaseURL:  "http://gala.test",
		MaxPhotoBytes:  TestMaxPhotoBytes,
		RateLimit:      0,
		RateBurst:      0,
	}
}

// ValidRegistration returns a complete registration form for kitNumber
func ValidRegistration(kitNumber string) models.RegistrationRequest {
	return models.RegistrationRequest{
		FullName:       "Test Member " + kitNumber,
		KitNumber:      kitNumber,
		Email:          "member" + kitNumber + "@example.com",
		WhatsAppNumber: "+92300" + kitNumber,
		House:          "Jinnah",
		Profession:     "Engineer",
		AttendGala:     models.AttendingYes,
		Morale:         "High",
		ExcitedForGala: "Yes",
	}
}

// CreateTestRegistration inserts a registration and returns its ID.
// Blank fields are filled from ValidRegistration; a zero CreatedAt means now.
func CreateTestRegistration(t *testing.T, conn *sqlx.DB, reg models.Registration) string {
	t.Helper()

	defaults := ValidRegistration(reg.KitNumber)
	if reg.ID == "" {
		reg.ID = uuid.NewString()
	}
	if reg.FullName == "" {
		reg.FullName = defaults.FullName
	}
	if reg.Email == "" {
		reg.Email = defaults.Email
	}
	if reg.WhatsAppNumber == "" {
		reg.WhatsAppNumber = defaults.WhatsAppNumber
	}
	if reg.CarNumberPlate == "" {
		reg.CarNumberPlate = models.DefaultCarNumberPlate
	}
	if reg.House == "" {
		reg.House = defaults.House
	}
	if reg.Profession == "" {
		reg.Profession = defaults.Profession
	}
	if reg.AttendGala == "" {
		reg.AttendGala = defaults.AttendGala
	}
	if reg.Morale == "" {
		reg.Morale = defaults.Morale
	}
	if reg.ExcitedForGala == "" {
		reg.ExcitedForGala = defaults.ExcitedForGala
	}
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = time.Now()
	}
	reg.CreatedAt = reg.CreatedAt.UTC()

	_, err := conn.NamedExec(`
		INSERT INTO registrations (
			id, full_name, kit_number, email, whatsapp_number, car_number_plate,
			house, profession, postal_address, attend_gala, morale, excited_for_gala,
			photo_url, created_at
		) VALUES (
			:id, :full_name, :kit_number, :email, :whatsapp_number, :car_number_plate,
			:house, :profession, :postal_address, :attend_gala, :morale, :excited_for_gala,
			:photo_url, :created_at
		)
	`, reg)
	if err != nil {
		t.Fatalf("Failed to create test registration: %v", err)
	}

	return reg.ID
}

// SetTestSetting writes an admin setting
func SetTestSetting(t *testing.T, conn *sqlx.DB, key, value string) {
	t.Helper()

	if err := db.PutSetting(context.Background(), conn, key, value, time.Now().UTC()); err != nil {
		t.Fatalf("Failed to write setting %s: %v", key, err)
	}
}

// AdminHeaders returns headers carrying a fresh admin session token
func AdminHeaders(t *testing.T, cfg cliparse.Config) map[string]string {
	t.Helper()

	token, _, err := auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL).Issue(time.Now())
	if err != nil {
		t.Fatalf("Failed to issue admin token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

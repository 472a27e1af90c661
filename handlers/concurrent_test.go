// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/gala-registration/testutil"
)

// TestConcurrentRegistrations verifies that simultaneous registrations with
// different kit numbers are all stored exactly once
func TestConcurrentRegistrations(t *testing.T) {
	h, _ := newTestRegistrationHandler(t)

	numMembers := 20

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numMembers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			body, _ := json.Marshal(testutil.ValidRegistration(strconv.Itoa(100 + idx)))
			req := httptest.NewRequest("POST", "/api/register", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			h.Register(w, req)

			if w.Code == http.StatusCreated {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numMembers {
		t.Errorf("Expected %d successful registrations, got %d", numMembers, successCount.Load())
	}

	var count int
	if err := h.db.Get(&count, "SELECT COUNT(*) FROM registrations"); err != nil {
		t.Fatalf("Failed to count registrations: %v", err)
	}
	if count != numMembers {
		t.Errorf("Expected %d registrations in database, got %d", numMembers, count)
	}
}

// TestConcurrentSameKitNumber verifies that when several goroutines register
// the same kit number, exactly one succeeds and the rest are told it is taken
func TestConcurrentSameKitNumber(t *testing.T) {
	h, _ := newTestRegistrationHandler(t)

	numAttempts := 8

	var successCount, duplicateCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			form := testutil.ValidRegistration("860")
			form.FullName = "Contender " + strconv.Itoa(idx)
			body, _ := json.Marshal(form)
			req := httptest.NewRequest("POST", "/api/register", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			h.Register(w, req)

			switch w.Code {
			case http.StatusCreated:
				successCount.Add(1)
			case http.StatusBadRequest:
				duplicateCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 successful registration, got %d", successCount.Load())
	}
	if int(duplicateCount.Load()) != numAttempts-1 {
		t.Errorf("Expected %d duplicate rejections, got %d", numAttempts-1, duplicateCount.Load())
	}

	var count int
	if err := h.db.Get(&count, "SELECT COUNT(*) FROM registrations WHERE kit_number = '860'"); err != nil {
		t.Fatalf("Failed to count registrations: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 stored registration for kit 860, got %d", count)
	}
}

// TestConcurrentListAndRegister exercises the snapshot cache while writes
// keep purging it
func TestConcurrentListAndRegister(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	admin := newTestAdminHandlerWithDB(t, conn, cfg)
	public := NewRegistrationHandler(conn, cfg, admin.metrics, admin.snapshot)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(idx int) {
			defer wg.Done()
			w := httptest.NewRecorder()
			public.Register(w, testutil.MakeRequest("POST", "/api/register", testutil.ValidRegistration(strconv.Itoa(200+idx)), nil))
		}(i)
		go func() {
			defer wg.Done()
			w := httptest.NewRecorder()
			admin.ListRegistrations(w, testutil.MakeRequest("GET", "/api/admin/registrations", nil, nil))
			if w.Code != http.StatusOK {
				t.Errorf("Expected list to succeed, got %d", w.Code)
			}
		}()
	}
	wg.Wait()

	w := httptest.NewRecorder()
	admin.ListRegistrations(w, testutil.MakeRequest("GET", "/api/admin/registrations", nil, nil))
	var resp struct {
		Total int `json:"total"`
	}
	testutil.AssertJSON(t, w, &resp)
	if resp.Total != 10 {
		t.Errorf("Expected list to see all 10 registrations after the writes, got %d", resp.Total)
	}
}

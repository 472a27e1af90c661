// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/gala-registration/models"
)

// SnapshotTTL is how long a loaded registration list is reused
const SnapshotTTL = 500 * time.Millisecond

const snapshotKey = "registrations"

type snapshot struct {
	registrations []models.Registration
	loadedAt      time.Time
}

// Snapshot caches the full registration list, newest first, for a short TTL.
// Returned slices are shared between callers and must not be modified.
type Snapshot struct {
	db  *sqlx.DB
	lru *expirable.LRU[string, snapshot]

	// mu serializes loads with purges so a purge never races a stale load
	mu sync.Mutex
}

func NewSnapshot(db *sqlx.DB, ttl time.Duration) *Snapshot {
	return &Snapshot{
		db:  db,
		lru: expirable.NewLRU[string, snapshot](1, nil, ttl),
	}
}

// Registrations returns every registration, newest first, and when the list was read
func (s *Snapshot) Registrations(ctx context.Context) ([]models.Registration, time.Time, error) {
	if snap, ok := s.lru.Get(snapshotKey); ok {
		return snap.registrations, snap.loadedAt, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another caller may have loaded while we waited
	if snap, ok := s.lru.Get(snapshotKey); ok {
		return snap.registrations, snap.loadedAt, nil
	}

	registrations := []models.Registration{}
	err := s.db.SelectContext(ctx, &registrations, `
		SELECT id, full_name, kit_number, email, whatsapp_number, car_number_plate,
		       house, profession, postal_address, attend_gala, morale, excited_for_gala,
		       photo_url, created_at
		FROM registrations
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to load registrations: %w", err)
	}

	snap := snapshot{registrations: registrations, loadedAt: time.Now().UTC()}
	s.lru.Add(snapshotKey, snap)
	return snap.registrations, snap.loadedAt, nil
}

// Purge drops the cached list; call after every write
func (s *Snapshot) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lru.Purge()
}

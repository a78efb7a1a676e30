// Package store persists market data snapshots.
//
// A snapshot freezes the inputs of one rendering session (the
// profitability and name lookups fetched for a realm) so historical
// chains can be re-rendered and the serve command can answer without
// hitting the upstream APIs. Backends:
//
//   - Memory: in-process, for development and tests
//   - Mongo: durable archive keyed by realm and fetch time
package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no snapshot exists for a realm.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is one archived fetch of market data for a realm.
// Lookup maps are keyed by stringified resource ID, matching the wire
// and cache-file format; use chain.DecodeIntKeyed on the way out.
type Snapshot struct {
	ID        string             `json:"id" bson:"id"`
	Realm     int                `json:"realm" bson:"realm"`
	FetchedAt time.Time          `json:"fetched_at" bson:"fetched_at"`
	PPHPLs    map[string]float64 `json:"pphpls" bson:"pphpls"`
	Names     map[string]string  `json:"names" bson:"names"`
}

// NewSnapshot builds a snapshot with a fresh ID and the current time.
func NewSnapshot(realm int, pphpls map[string]float64, names map[string]string) *Snapshot {
	return &Snapshot{
		ID:        uuid.NewString(),
		Realm:     realm,
		FetchedAt: time.Now().UTC(),
		PPHPLs:    pphpls,
		Names:     names,
	}
}

// Store is the interface for snapshot storage backends.
type Store interface {
	// Save archives a snapshot.
	Save(ctx context.Context, s *Snapshot) error

	// Latest returns the most recently fetched snapshot for a realm,
	// or ErrNotFound if none exists.
	Latest(ctx context.Context, realm int) (*Snapshot, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// Memory is an in-memory snapshot store for development and tests.
type Memory struct {
	mu        sync.RWMutex
	snapshots []*Snapshot
}

// NewMemory creates an in-memory snapshot store.
func NewMemory() *Memory {
	return &Memory{}
}

// Save archives a snapshot.
func (m *Memory) Save(ctx context.Context, s *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = append(m.snapshots, s)
	return nil
}

// Latest returns the most recently fetched snapshot for a realm.
func (m *Memory) Latest(ctx context.Context, realm int) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matches []*Snapshot
	for _, s := range m.snapshots {
		if s.Realm == realm {
			matches = append(matches, s)
		}
	}
	if len(matches) == 0 {
		return nil, ErrNotFound
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].FetchedAt.After(matches[j].FetchedAt)
	})
	return matches[0], nil
}

// Close does nothing for the in-memory store.
func (m *Memory) Close(ctx context.Context) error {
	return nil
}

// Ensure Memory implements Store.
var _ Store = (*Memory)(nil)

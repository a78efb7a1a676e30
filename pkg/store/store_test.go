package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewSnapshot(t *testing.T) {
	pphpls := map[string]float64{"115": 3.5}
	names := map[string]string{"115": "electronics"}

	s := NewSnapshot(0, pphpls, names)
	if s.ID == "" {
		t.Error("snapshot ID should be set")
	}
	if s.FetchedAt.IsZero() {
		t.Error("FetchedAt should be set")
	}
	if s.Realm != 0 {
		t.Errorf("Realm = %d, want 0", s.Realm)
	}
	if s.PPHPLs["115"] != 3.5 || s.Names["115"] != "electronics" {
		t.Errorf("snapshot = %+v", s)
	}

	other := NewSnapshot(0, nil, nil)
	if other.ID == s.ID {
		t.Error("snapshot IDs should be unique")
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyIsNotFound", func(t *testing.T) {
		m := NewMemory()
		if _, err := m.Latest(ctx, 0); !errors.Is(err, ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("LatestPerRealm", func(t *testing.T) {
		m := NewMemory()

		old := NewSnapshot(0, map[string]float64{"1": 1}, nil)
		old.FetchedAt = time.Now().Add(-time.Hour)
		recent := NewSnapshot(0, map[string]float64{"1": 2}, nil)
		otherRealm := NewSnapshot(1, map[string]float64{"1": 3}, nil)

		for _, s := range []*Snapshot{recent, old, otherRealm} {
			if err := m.Save(ctx, s); err != nil {
				t.Fatalf("Save: %v", err)
			}
		}

		got, err := m.Latest(ctx, 0)
		if err != nil {
			t.Fatalf("Latest: %v", err)
		}
		if got.ID != recent.ID {
			t.Errorf("Latest = %s, want %s", got.ID, recent.ID)
		}

		got, err = m.Latest(ctx, 1)
		if err != nil {
			t.Fatalf("Latest: %v", err)
		}
		if got.ID != otherRealm.ID {
			t.Errorf("Latest realm 1 = %s, want %s", got.ID, otherRealm.ID)
		}

		if _, err := m.Latest(ctx, 2); !errors.Is(err, ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("Close", func(t *testing.T) {
		m := NewMemory()
		if err := m.Close(ctx); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
}

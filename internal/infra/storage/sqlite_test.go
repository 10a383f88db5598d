package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rmoncayo/stellarforge/server/internal/domain/state"
)

func newTestDB(t *testing.T) *SQLiteSaveRepository {
	t.Helper()
	db, err := InitSQLite(filepath.Join(t.TempDir(), "forge.db"))
	if err != nil {
		t.Fatalf("InitSQLite failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSQLiteSaveRepository(db)
}

func TestSaveSlotEmptyReturnsNil(t *testing.T) {
	repo := newTestDB(t)

	payload, err := repo.Get(context.Background(), SaveSlot)
	if err != nil {
		t.Fatalf("Get on empty slot failed: %v", err)
	}
	if payload != nil {
		t.Errorf("Expected nil payload for empty slot, got %q", payload)
	}
}

func TestSaveSlotUpsertAndReload(t *testing.T) {
	repo := newTestDB(t)
	ctx := context.Background()

	encoded, err := Encode(populatedState())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if err := repo.Upsert(ctx, SaveSlot, state.Version, encoded); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	stored, err := repo.Get(ctx, SaveSlot)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	restored, err := Decode(stored)
	if err != nil {
		t.Fatalf("Decode of stored payload failed: %v", err)
	}
	if restored.Meta.MetaPoints != 5 {
		t.Errorf("Expected 5 meta points after reload, got %d", restored.Meta.MetaPoints)
	}

	// Upsert again: single slot, no duplicates.
	restored.Meta.MetaPoints = 9
	encoded, err = Encode(restored)
	if err != nil {
		t.Fatalf("Re-encode failed: %v", err)
	}
	if err := repo.Upsert(ctx, SaveSlot, state.Version, encoded); err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}
	stored, err = repo.Get(ctx, SaveSlot)
	if err != nil {
		t.Fatalf("Second get failed: %v", err)
	}
	restored, err = Decode(stored)
	if err != nil {
		t.Fatalf("Second decode failed: %v", err)
	}
	if restored.Meta.MetaPoints != 9 {
		t.Errorf("Expected overwritten save with 9 meta points, got %d", restored.Meta.MetaPoints)
	}
}

func TestEventLedgerAppendAndQuery(t *testing.T) {
	db, err := InitSQLite(filepath.Join(t.TempDir(), "forge.db"))
	if err != nil {
		t.Fatalf("InitSQLite failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	repo := NewSQLiteEventRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fixtures := []GameEvent{
		{ID: "ev-1", Timestamp: base, EventType: "GENERATOR_PURCHASED", SubjectID: "solar", Payload: map[string]interface{}{"level": 1.0}},
		{ID: "ev-2", Timestamp: base.Add(time.Second), EventType: "GENERATOR_PURCHASED", SubjectID: "solar", Payload: map[string]interface{}{"level": 2.0}},
		{ID: "ev-3", Timestamp: base.Add(2 * time.Second), EventType: "ASCENSION", SubjectID: "", Payload: map[string]interface{}{"points_gained": 3.0}},
	}
	for _, e := range fixtures {
		if err := repo.Append(ctx, e); err != nil {
			t.Fatalf("Append %s failed: %v", e.ID, err)
		}
	}

	purchases, err := repo.GetByEventType(ctx, "GENERATOR_PURCHASED")
	if err != nil {
		t.Fatalf("GetByEventType failed: %v", err)
	}
	if len(purchases) != 2 {
		t.Fatalf("Expected 2 purchase events, got %d", len(purchases))
	}
	if purchases[0].ID != "ev-1" || purchases[1].ID != "ev-2" {
		t.Errorf("Events not ordered by timestamp: %s, %s", purchases[0].ID, purchases[1].ID)
	}
	if purchases[1].Payload["level"] != 2.0 {
		t.Errorf("Payload lost in round trip: %+v", purchases[1].Payload)
	}

	recent, err := repo.GetSince(ctx, base.Add(time.Second))
	if err != nil {
		t.Fatalf("GetSince failed: %v", err)
	}
	if len(recent) != 2 {
		t.Errorf("Expected 2 events since t+1s, got %d", len(recent))
	}
}

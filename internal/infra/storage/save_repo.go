package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SaveSlot is the canonical store key. The game supports a single save.
const SaveSlot = "slot-1"

// SaveRepository defines the interface for the durable save slot.
type SaveRepository interface {
	// Upsert stores the encoded state document under the slot.
	Upsert(ctx context.Context, slot string, version int, payload []byte) error

	// Get retrieves the stored document. Returns (nil, nil) when the
	// slot is empty.
	Get(ctx context.Context, slot string) ([]byte, error)
}

// SQLiteSaveRepository implements SaveRepository on SQLite.
type SQLiteSaveRepository struct {
	db *sql.DB
}

// NewSQLiteSaveRepository creates a new save-slot repository.
func NewSQLiteSaveRepository(db *sql.DB) *SQLiteSaveRepository {
	return &SQLiteSaveRepository{db: db}
}

// Upsert stores the encoded state document under the slot.
func (r *SQLiteSaveRepository) Upsert(ctx context.Context, slot string, version int, payload []byte) error {
	query := `
		INSERT INTO saves (slot, version, payload, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			version = excluded.version,
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query, slot, version, string(payload), time.Now())
	if err != nil {
		return fmt.Errorf("failed to upsert save slot: %w", err)
	}
	return nil
}

// Get retrieves the stored document, or (nil, nil) when the slot is empty.
func (r *SQLiteSaveRepository) Get(ctx context.Context, slot string) ([]byte, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		"SELECT payload FROM saves WHERE slot = ?", slot,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read save slot: %w", err)
	}
	return []byte(payload), nil
}

// Package storage - postgres.go
// PostgreSQL implementations of the repositories, for deployments that
// prefer a managed database over the local SQLite file. The caller is
// responsible for registering a postgres driver with database/sql.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// PostgresSaveRepository implements SaveRepository using PostgreSQL.
type PostgresSaveRepository struct {
	db *sql.DB
}

// NewPostgresSaveRepository creates a new PostgreSQL save repository.
func NewPostgresSaveRepository(db *sql.DB) *PostgresSaveRepository {
	return &PostgresSaveRepository{db: db}
}

// Upsert stores the encoded state document under the slot.
func (r *PostgresSaveRepository) Upsert(ctx context.Context, slot string, version int, payload []byte) error {
	query := `
		INSERT INTO saves (slot, version, payload, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (slot) DO UPDATE SET
			version = EXCLUDED.version,
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query, slot, version, string(payload), time.Now())
	if err != nil {
		return fmt.Errorf("failed to upsert save slot: %w", err)
	}
	return nil
}

// Get retrieves the stored document, or (nil, nil) when the slot is empty.
func (r *PostgresSaveRepository) Get(ctx context.Context, slot string) ([]byte, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		"SELECT payload FROM saves WHERE slot = $1", slot,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read save slot: %w", err)
	}
	return []byte(payload), nil
}

// PostgresEventRepository implements EventRepository using PostgreSQL.
type PostgresEventRepository struct {
	db *sql.DB
}

// NewPostgresEventRepository creates a new PostgreSQL event repository.
func NewPostgresEventRepository(db *sql.DB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

// Append inserts a new event into the immutable ledger.
func (r *PostgresEventRepository) Append(ctx context.Context, event GameEvent) error {
	payloadJSON, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO events (id, timestamp, event_type, subject_id, payload)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.Timestamp, event.EventType, event.SubjectID, string(payloadJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *PostgresEventRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]GameEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var result []GameEvent
	for rows.Next() {
		var e GameEvent
		var payloadStr string
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.EventType, &e.SubjectID, &payloadStr); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		if err := json.Unmarshal([]byte(payloadStr), &e.Payload); err != nil {
			e.Payload = nil
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// GetByEventType retrieves all events of a specific type.
func (r *PostgresEventRepository) GetByEventType(ctx context.Context, eventType string) ([]GameEvent, error) {
	return r.getMany(ctx,
		"SELECT id, timestamp, event_type, subject_id, payload FROM events WHERE event_type = $1 ORDER BY timestamp",
		eventType,
	)
}

// GetSince retrieves all events at or after a timestamp.
func (r *PostgresEventRepository) GetSince(ctx context.Context, since time.Time) ([]GameEvent, error) {
	return r.getMany(ctx,
		"SELECT id, timestamp, event_type, subject_id, payload FROM events WHERE timestamp >= $1 ORDER BY timestamp",
		since,
	)
}

// Ensure the Postgres repositories satisfy the repository interfaces.
var (
	_ SaveRepository  = (*PostgresSaveRepository)(nil)
	_ EventRepository = (*PostgresEventRepository)(nil)
)

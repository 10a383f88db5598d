// Package events provides the append-only audit log of the simulation.
// Every command the engine accepts and every tick-driven resolution is
// recorded here, then written through to durable storage.
package events

import (
	"math/rand"
	"sync"
	"time"
)

// EventType defines the category of a game event.
type EventType string

const (
	EventTypeTimeTick           EventType = "TIME_TICK"
	EventTypeGeneratorPurchased EventType = "GENERATOR_PURCHASED"
	EventTypeUpgradePurchased   EventType = "UPGRADE_PURCHASED"
	EventTypeResearchCompleted  EventType = "RESEARCH_COMPLETED"
	EventTypeShipBuilt          EventType = "SHIP_BUILT"
	EventTypeMissionStarted     EventType = "MISSION_STARTED"
	EventTypeMissionCompleted   EventType = "MISSION_COMPLETED"
	EventTypeColonyEstablished  EventType = "COLONY_ESTABLISHED"
	EventTypeAscension          EventType = "ASCENSION"
	EventTypeStateSaved         EventType = "STATE_SAVED"
	EventTypeStateLoaded        EventType = "STATE_LOADED"
)

// GameEvent represents an immutable record of an action in the simulation.
type GameEvent struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"` // Catalog id the event concerns, if any
	Payload   interface{} `json:"payload"`    // Event-specific data
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event GameEvent) error
}

// EventLog is the in-memory append-only log of game events.
type EventLog struct {
	mu        sync.RWMutex
	events    []GameEvent
	persister EventPersister
}

// NewEventLog creates a new event log with an optional persister.
func NewEventLog(persister EventPersister) *EventLog {
	return &EventLog{
		events:    make([]GameEvent, 0),
		persister: persister,
	}
}

// Append adds a new event to the log. Events are immutable once appended.
func (el *EventLog) Append(event GameEvent) {
	if event.ID == "" {
		event.ID = GenerateEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	el.mu.Lock()
	defer el.mu.Unlock()
	el.events = append(el.events, event)

	if el.persister != nil {
		// Write through to persistent storage off the hot path.
		go func(e GameEvent) {
			_ = el.persister.Append(e)
		}(event)
	}
}

// GetByType returns all events of a specific type.
func (el *EventLog) GetByType(t EventType) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// Replay returns a copy of the full event history, safe to read while
// the simulation keeps appending.
func (el *EventLog) Replay() []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()
	history := make([]GameEvent, len(el.events))
	copy(history, el.events)
	return history
}

// Len returns the number of events appended so far.
func (el *EventLog) Len() int {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return len(el.events)
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return time.Now().Format("20060102150405") + "-" + randomSuffix()
}

// randomSuffix generates a short random string.
func randomSuffix() string {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 6)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}

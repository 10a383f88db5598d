// Package network exposes the simulation to render clients: a WebSocket
// hub pushing state snapshots and game events, plus a REST command bridge.
// The network layer never mutates state directly; it only invokes engine
// commands and re-reads snapshots.
package network

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rmoncayo/stellarforge/server/internal/engine"
	"github.com/rmoncayo/stellarforge/server/internal/events"
	"github.com/rmoncayo/stellarforge/server/internal/platform/logger"
	"github.com/rmoncayo/stellarforge/server/internal/platform/metrics"
)

// Message envelope types pushed to clients.
const (
	MsgTypeState = "state"
	MsgTypeEvent = "event"
	MsgTypeError = "error"
	MsgTypeAck   = "ack"
)

// Message is the wire envelope for every server-to-client frame.
type Message struct {
	Type      string      `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
	engine     *engine.Engine
	logger     *logger.Logger
}

// NewHub initializes a new WebSocket Hub bound to the engine.
func NewHub(eng *engine.Engine, log *logger.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		engine:     eng,
		logger:     log,
	}
}

// Run starts the Hub's main loop to handle client connections and broadcasts.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket Hub shutting down.")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.Get().RecordWSConnection(1)
			h.logger.Info("New render client connected")

			// A fresh client gets the current state immediately.
			client.sendMessage(Message{
				Type:      MsgTypeState,
				Timestamp: h.engine.Now().Unix(),
				Payload:   h.engine.Snapshot(),
			})
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
				metrics.Get().RecordWSConnection(-1)
				h.logger.Info("Render client disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if client.trySend(message) {
					metrics.Get().RecordWSMessage(false)
				} else {
					// A stalled WritePump means a dead or hopelessly
					// slow peer; drop it rather than block the hub.
					client.closeSend()
					delete(h.clients, client)
					metrics.Get().RecordWSConnection(-1)
					metrics.Get().RecordWSError()
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast serializes a message and sends it to all connected clients.
func (h *Hub) Broadcast(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to serialize broadcast message: " + err.Error())
		return
	}
	h.broadcast <- payload
}

// StartStatePoller pushes a full snapshot to every client on a fixed
// cadence. The renderer redraws from snapshots; commands do not need to
// carry their resulting state.
func (h *Hub) StartStatePoller(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				h.Broadcast(Message{
					Type:      MsgTypeState,
					Timestamp: h.engine.Now().Unix(),
					Payload:   h.engine.Snapshot(),
				})
			}
		}
	}()
}

// StartEventPoller relays new ledger events to connected clients. It
// runs independently from the engine while picking up the same events.
func (h *Hub) StartEventPoller(ctx context.Context, eventLog *events.EventLog) {
	go func() {
		pollInterval := time.NewTicker(200 * time.Millisecond)
		defer pollInterval.Stop()

		lastProcessedEvent := 0

		for {
			select {
			case <-ctx.Done():
				return
			case <-pollInterval.C:
				allEvents := eventLog.Replay()
				if len(allEvents) <= lastProcessedEvent {
					continue
				}

				for _, event := range allEvents[lastProcessedEvent:] {
					// Heartbeats would dominate the stream; clients poll
					// state separately.
					if event.Type == events.EventTypeTimeTick {
						continue
					}
					h.Broadcast(Message{
						Type:      MsgTypeEvent,
						Timestamp: event.Timestamp.Unix(),
						Payload:   event,
					})
				}
				lastProcessedEvent = len(allEvents)
			}
		}
	}()
}

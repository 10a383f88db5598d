package network

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rmoncayo/stellarforge/server/internal/domain/state"
	"github.com/rmoncayo/stellarforge/server/internal/platform/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Client represents an active render-client connection.
//
// The send channel is written by both the hub and the client's own
// command handler, so closing it is serialized through closeSend; the
// raw channel must never be closed directly.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

// NewClient creates a new WebSocket client and returns it.
func NewClient(hub *Hub, conn *websocket.Conn, sendBuffer int) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
}

// closeSend shuts the outbound channel exactly once. Safe to call from
// the hub's drop paths and the unregister path concurrently.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// trySend enqueues a frame unless the client has been dropped or its
// buffer is full. Reports whether the frame was accepted.
func (c *Client) trySend(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// Register adds the client to the hub.
func (c *Client) Register() {
	c.hub.register <- c
}

// PlayerAction represents an incoming command from the renderer.
type PlayerAction struct {
	Type string `json:"type"` // "BUY_GENERATOR", "START_MISSION", ...
	ID   string `json:"id"`   // Catalog id the command targets, if any
}

// ReadPump pumps messages from the websocket connection to the engine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Error("WebSocket read error: " + err.Error())
			}
			break
		}
		metrics.Get().RecordWSMessage(true)

		var action PlayerAction
		if err := json.Unmarshal(message, &action); err != nil {
			c.hub.logger.Error("Failed to parse PlayerAction from WebSocket: " + err.Error())
			continue
		}

		c.handlePlayerAction(action)
	}
}

// handlePlayerAction routes a command to the engine. Failures are
// answered with an error frame and leave simulation state untouched.
func (c *Client) handlePlayerAction(action PlayerAction) {
	eng := c.hub.engine

	var err error
	switch action.Type {
	case "BUY_GENERATOR":
		err = eng.PurchaseGenerator(action.ID)
	case "BUY_UPGRADE":
		err = eng.PurchaseUpgrade(action.ID)
	case "BUY_RESEARCH":
		err = eng.PurchaseResearch(action.ID)
	case "BUILD_SHIP":
		err = eng.BuildShip(action.ID)
	case "START_MISSION":
		err = eng.StartMission(action.ID)
	case "COLONIZE":
		err = eng.Colonize(action.ID)
	case "ASCEND":
		err = eng.Ascend()
	case "SAVE":
		err = eng.Save()
	case "SET_NOTATION":
		err = eng.SetNotation(action.ID)
	default:
		c.hub.logger.Warn("Unknown PlayerAction type: " + action.Type)
		return
	}

	if err != nil {
		c.sendMessage(Message{
			Type:      MsgTypeError,
			Timestamp: eng.Now().Unix(),
			Payload: map[string]string{
				"action": action.Type,
				"id":     action.ID,
				"reason": rejectionReason(err),
			},
		})
		return
	}

	// Push the fresh snapshot so the renderer redraws without waiting
	// for the next poll interval.
	c.sendMessage(Message{
		Type:      MsgTypeAck,
		Timestamp: eng.Now().Unix(),
		Payload: map[string]interface{}{
			"action": action.Type,
			"id":     action.ID,
			"state":  eng.Snapshot(),
		},
	})
}

// rejectionReason maps command errors onto stable wire codes.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, state.ErrInsufficientResources):
		return "insufficient_resources"
	case errors.Is(err, state.ErrAlreadyOwned):
		return "already_owned"
	case errors.Is(err, state.ErrInsufficientShips):
		return "insufficient_ships"
	case errors.Is(err, state.ErrNoPointsAvailable):
		return "no_points_available"
	case errors.Is(err, state.ErrLocked):
		return "locked"
	case errors.Is(err, state.ErrUnknownID):
		return "unknown_id"
	default:
		return "internal_error"
	}
}

// sendMessage serializes a message onto the client's outbound channel.
// A full buffer or an already-dropped client loses the frame; command
// failures never propagate back into the simulation.
func (c *Client) sendMessage(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		c.hub.logger.Error("Failed to serialize client message: " + err.Error())
		return
	}
	if c.trySend(payload) {
		metrics.Get().RecordWSMessage(false)
	} else {
		metrics.Get().RecordWSError()
	}
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

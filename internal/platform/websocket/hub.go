// Package websocket delivers real-time notifications to connected clients.
// Every authenticated connection lands in a room keyed by its own user ID;
// publishes are scoped to one room and are best-effort only — the durable
// notification list remains the source of truth.
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	gorillawebsocket "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/smartclinic/api/internal/platform/auth"
)

// Event is a single real-time message sent to a user's room.
type Event struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// EventReceiveNotification is emitted when a notification is created for the
// room's owner.
const EventReceiveNotification = "receive_notification"

// NewEvent builds an Event carrying the JSON encoding of payload.
func NewEvent(eventType string, payload interface{}) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: eventType, Timestamp: time.Now().UTC(), Data: data}, nil
}

// ClientMessage is an inbound message from a connected client. The only
// recognized action is "join_room"; the room is always the authenticated
// user's own, so the action is acknowledged but carries no effect.
type ClientMessage struct {
	Action string `json:"action"`
	UserID string `json:"userId,omitempty"`
}

// Conn abstracts a WebSocket connection for testability.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client represents a single live connection owned by one user.
type Client struct {
	UserID string
	Send   chan []byte
	conn   Conn
}

// Hub tracks live connections grouped into per-user rooms. All operations
// are safe for concurrent use.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{} // user id -> connections
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]struct{})}
}

// Register adds a client to its user's room.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[client.UserID] == nil {
		h.rooms[client.UserID] = make(map[*Client]struct{})
	}
	h.rooms[client.UserID][client] = struct{}{}
}

// Unregister removes a client from its room and closes its Send channel.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[client.UserID]
	if !ok {
		return
	}
	if _, ok := room[client]; !ok {
		return
	}

	delete(room, client)
	if len(room) == 0 {
		delete(h.rooms, client.UserID)
	}
	close(client.Send)
}

// Publish sends an event to every live connection in one user's room. A user
// with no live session is not an error; slow clients are skipped rather than
// blocked on.
func (h *Hub) Publish(_ context.Context, userID string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[userID] {
		select {
		case client.Send <- data:
		default:
			// Client buffer full; skip to avoid blocking.
		}
	}
	return nil
}

// ClientCount returns the total number of live connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, room := range h.rooms {
		n += len(room)
	}
	return n
}

// RoomSize returns the number of live connections for one user.
func (h *Hub) RoomSize(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID])
}

// ---------------------------------------------------------------------------
// Handler — Echo HTTP handler for WebSocket connections
// ---------------------------------------------------------------------------

var upgrader = gorillawebsocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins; tighten in production.
	},
}

// Handler upgrades authenticated HTTP connections to WebSocket and pumps
// messages between the hub and the socket.
type Handler struct {
	hub    *Hub
	logger zerolog.Logger
}

func NewHandler(hub *Hub, logger zerolog.Logger) *Handler {
	return &Handler{hub: hub, logger: logger}
}

// RegisterRoutes registers the WebSocket endpoint on the provided Echo group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/ws", h.HandleConnect)
}

// HandleConnect upgrades the connection and places the client in the room of
// the authenticated principal. The room identity comes from the token, never
// from the client, so one user can never subscribe to another's room.
func (h *Handler) HandleConnect(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &Client{
		UserID: userID,
		Send:   make(chan []byte, 256),
		conn:   &gorillaConnAdapter{ws},
	}

	h.hub.Register(client)
	h.logger.Debug().Str("user_id", userID).Msg("websocket client connected")

	go h.writePump(client, ws)
	go h.readPump(client, ws)

	return nil
}

func (h *Handler) readPump(client *Client, ws *gorillawebsocket.Conn) {
	defer func() {
		h.hub.Unregister(client)
		ws.Close()
	}()

	for {
		_, message, err := ws.ReadMessage()
		if err != nil {
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue // Ignore malformed messages.
		}

		if msg.Action == "join_room" && msg.UserID != "" && msg.UserID != client.UserID {
			h.logger.Warn().
				Str("user_id", client.UserID).
				Str("requested", msg.UserID).
				Msg("ignoring join_room for foreign room")
		}
	}
}

func (h *Handler) writePump(client *Client, ws *gorillawebsocket.Conn) {
	defer ws.Close()

	for message := range client.Send {
		if err := ws.WriteMessage(gorillawebsocket.TextMessage, message); err != nil {
			break
		}
	}
}

// gorillaConnAdapter wraps a gorilla/websocket.Conn to satisfy the Conn interface.
type gorillaConnAdapter struct {
	conn *gorillawebsocket.Conn
}

func (a *gorillaConnAdapter) ReadMessage() (int, []byte, error) {
	return a.conn.ReadMessage()
}

func (a *gorillaConnAdapter) WriteMessage(messageType int, data []byte) error {
	return a.conn.WriteMessage(messageType, data)
}

func (a *gorillaConnAdapter) Close() error {
	return a.conn.Close()
}

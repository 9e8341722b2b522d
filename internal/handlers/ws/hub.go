package ws

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

// ClientConnection wraps a WebSocket connection with metadata. One user
// may hold several connections (tabs, devices); rooms are tracked per
// connection, so a client must re-join its rooms after reconnecting.
type ClientConnection struct {
	Conn         *websocket.Conn
	UserID       uint
	LastPong     time.Time
	SupportsGzip bool
	PingTicker   *time.Ticker
	CloseChan    chan struct{}

	writeMu sync.Mutex
}

func (c *ClientConnection) writeMessage(frameType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteMessage(frameType, data)
}

// Hub manages all active WebSocket connections and their room
// memberships. Each group has one room; broadcasts to a group reach every
// connection currently joined to its room.
type Hub struct {
	mu           sync.RWMutex
	clients      map[*websocket.Conn]*ClientConnection
	users        map[uint]map[*websocket.Conn]struct{}
	rooms        map[uint]map[*websocket.Conn]struct{}
	pingInterval time.Duration
	pongTimeout  time.Duration
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	hub := &Hub{
		clients:      make(map[*websocket.Conn]*ClientConnection),
		users:        make(map[uint]map[*websocket.Conn]struct{}),
		rooms:        make(map[uint]map[*websocket.Conn]struct{}),
		pingInterval: 30 * time.Second,
		pongTimeout:  90 * time.Second,
	}

	go hub.connectionHealthChecker()

	return hub
}

// Register adds a client connection with health monitoring
func (h *Hub) Register(userID uint, conn *websocket.Conn, supportsGzip bool) {
	clientConn := &ClientConnection{
		Conn:         conn,
		UserID:       userID,
		LastPong:     time.Now(),
		SupportsGzip: supportsGzip,
		PingTicker:   time.NewTicker(h.pingInterval),
		CloseChan:    make(chan struct{}),
	}

	conn.SetPongHandler(func(appData string) error {
		h.mu.Lock()
		if client, exists := h.clients[conn]; exists {
			client.LastPong = time.Now()
		}
		h.mu.Unlock()
		conn.SetReadDeadline(time.Now().Add(h.pongTimeout))
		return nil
	})

	conn.SetReadDeadline(time.Now().Add(h.pongTimeout))

	h.mu.Lock()
	h.clients[conn] = clientConn
	if _, ok := h.users[userID]; !ok {
		h.users[userID] = make(map[*websocket.Conn]struct{})
	}
	h.users[userID][conn] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()

	go h.pingRoutine(clientConn)

	log.Printf("User %d connected to hub (connections: %d, gzip: %v)", userID, total, supportsGzip)
}

// Unregister removes a client connection and drops it from every room
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	client, exists := h.clients[conn]
	if exists {
		if client.PingTicker != nil {
			client.PingTicker.Stop()
		}
		close(client.CloseChan)
		delete(h.clients, conn)
		if conns, ok := h.users[client.UserID]; ok {
			delete(conns, conn)
			if len(conns) == 0 {
				delete(h.users, client.UserID)
			}
		}
		for groupID, members := range h.rooms {
			delete(members, conn)
			if len(members) == 0 {
				delete(h.rooms, groupID)
			}
		}
	}
	total := len(h.clients)
	h.mu.Unlock()

	if exists {
		log.Printf("User %d disconnected from hub (connections: %d)", client.UserID, total)
	}
}

// JoinRoom subscribes a connection to a group's broadcast room
func (h *Hub) JoinRoom(groupID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.clients[conn]; !exists {
		return
	}
	if _, ok := h.rooms[groupID]; !ok {
		h.rooms[groupID] = make(map[*websocket.Conn]struct{})
	}
	h.rooms[groupID][conn] = struct{}{}
}

// LeaveRoom unsubscribes a connection from a group's broadcast room
func (h *Hub) LeaveRoom(groupID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[groupID]; ok {
		delete(members, conn)
		if len(members) == 0 {
			delete(h.rooms, groupID)
		}
	}
}

// EmitToGroup sends an event to every connection joined to the group's
// room. Dead connections are unregistered as they are discovered; a
// failed write is logged, never retried.
func (h *Hub) EmitToGroup(groupID uint, event string, payload interface{}) {
	data, err := json.Marshal(Envelope{Type: event, Payload: payload})
	if err != nil {
		log.Printf("Error marshaling %s event for group %d: %v", event, groupID, err)
		return
	}

	h.mu.RLock()
	targets := make([]*ClientConnection, 0, len(h.rooms[groupID]))
	for conn := range h.rooms[groupID] {
		if client, ok := h.clients[conn]; ok {
			targets = append(targets, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range targets {
		h.send(client, data)
	}
}

// EmitToUser sends an event to all of one user's connections
func (h *Hub) EmitToUser(userID uint, event string, payload interface{}) {
	data, err := json.Marshal(Envelope{Type: event, Payload: payload})
	if err != nil {
		log.Printf("Error marshaling %s event for user %d: %v", event, userID, err)
		return
	}

	h.mu.RLock()
	targets := make([]*ClientConnection, 0, len(h.users[userID]))
	for conn := range h.users[userID] {
		if client, ok := h.clients[conn]; ok {
			targets = append(targets, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range targets {
		h.send(client, data)
	}
}

// send writes one frame, compressing large payloads for clients that
// support it. Base64 file attachments compress well enough to matter.
func (h *Hub) send(client *ClientConnection, data []byte) {
	finalData := data
	frameType := websocket.TextMessage
	if client.SupportsGzip && len(data) > 512 {
		if compressed, err := CompressMessage(data); err == nil && len(compressed) < len(data) {
			finalData = compressed
			frameType = websocket.BinaryMessage
		}
	}

	if err := client.writeMessage(frameType, finalData); err != nil {
		log.Printf("Error sending to user %d: %v", client.UserID, err)
		h.Unregister(client.Conn)
	}
}

// ReplyTo writes a payload to a single connection through its registered
// write lock. Read-loop replies must use this instead of writing to the
// conn directly: a broadcast may be writing the same conn concurrently,
// and the underlying websocket forbids concurrent writers.
func (h *Hub) ReplyTo(conn *websocket.Conn, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	h.mu.RLock()
	client, ok := h.clients[conn]
	h.mu.RUnlock()
	if !ok {
		return errors.New("connection not registered")
	}

	return client.writeMessage(websocket.TextMessage, data)
}

// SendError sends an error frame to a single connection
func (h *Hub) SendError(conn *websocket.Conn, code, message, details string) error {
	return h.ReplyTo(conn, ErrorResponse{
		Type:    "error",
		Error:   message,
		Code:    code,
		Details: details,
	})
}

// IsOnline checks if a user has at least one live connection
func (h *Hub) IsOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID]) > 0
}

// Count returns the number of connected clients
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// OnlineUsers returns list of currently connected user IDs
func (h *Hub) OnlineUsers() []uint {
	h.mu.RLock()
	defer h.mu.RUnlock()

	users := make([]uint, 0, len(h.users))
	for userID := range h.users {
		users = append(users, userID)
	}
	return users
}

// pingRoutine sends periodic ping messages to keep connection alive
func (h *Hub) pingRoutine(client *ClientConnection) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Ping routine recovered from panic for user %d: %v", client.UserID, r)
		}
	}()

	for {
		select {
		case <-client.CloseChan:
			return
		case <-client.PingTicker.C:
			h.mu.RLock()
			_, exists := h.clients[client.Conn]
			h.mu.RUnlock()

			if !exists {
				return
			}

			client.writeMu.Lock()
			err := client.Conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second))
			client.writeMu.Unlock()
			if err != nil {
				log.Printf("Ping failed for user %d: %v", client.UserID, err)
				h.Unregister(client.Conn)
				return
			}
		}
	}
}

// connectionHealthChecker monitors connection health and removes dead connections
func (h *Hub) connectionHealthChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		h.mu.RLock()
		dead := make([]*websocket.Conn, 0)
		now := time.Now()

		for conn, client := range h.clients {
			if now.Sub(client.LastPong) > h.pongTimeout {
				dead = append(dead, conn)
			}
		}
		h.mu.RUnlock()

		for _, conn := range dead {
			log.Printf("Removing dead connection (no pong received)")
			h.Unregister(conn)
		}
	}
}

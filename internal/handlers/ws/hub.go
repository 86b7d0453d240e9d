package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

// ClientConnection wraps a WebSocket connection with metadata. A user may
// hold several connections at once (one per device), so the hub is keyed by
// connection ID rather than user ID.
type ClientConnection struct {
	Conn         *websocket.Conn
	UserID       uint
	ConnectionID string
	Channels     map[uint]bool
	LastPong     time.Time
	PingTicker   *time.Ticker
	CloseChan    chan struct{}
	writeMux     sync.Mutex
}

// Hub manages all active WebSocket connections and their channel
// subscriptions.
type Hub struct {
	clients      map[string]*ClientConnection
	byChannel    map[uint]map[string]*ClientConnection
	clientsMux   sync.RWMutex
	pingInterval time.Duration
	pongTimeout  time.Duration
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	hub := &Hub{
		clients:      make(map[string]*ClientConnection),
		byChannel:    make(map[uint]map[string]*ClientConnection),
		pingInterval: 30 * time.Second,
		pongTimeout:  90 * time.Second,
	}

	go hub.connectionHealthChecker()

	return hub
}

// readDeadlineConn is the slice of the websocket connection the pong
// handler needs; tests substitute a recorder.
type readDeadlineConn interface {
	SetReadDeadline(t time.Time) error
}

// pongHandler refreshes the read deadline and the health-check timestamp.
// The deadline is absolute, so every pong must push it forward or the
// blocking read fails pongTimeout after connect even on a healthy client.
func (h *Hub) pongHandler(connectionID string, conn readDeadlineConn) func(string) error {
	return func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(h.pongTimeout))
		h.clientsMux.Lock()
		if client, exists := h.clients[connectionID]; exists {
			client.LastPong = time.Now()
		}
		h.clientsMux.Unlock()
		return nil
	}
}

// Register adds a client connection with health monitoring, subscribed to
// the given channels.
func (h *Hub) Register(connectionID string, userID uint, conn *websocket.Conn, channels []uint) {
	clientConn := &ClientConnection{
		Conn:         conn,
		UserID:       userID,
		ConnectionID: connectionID,
		Channels:     make(map[uint]bool, len(channels)),
		LastPong:     time.Now(),
		PingTicker:   time.NewTicker(h.pingInterval),
		CloseChan:    make(chan struct{}),
	}
	for _, ch := range channels {
		clientConn.Channels[ch] = true
	}

	conn.SetPongHandler(h.pongHandler(connectionID, conn))

	// Initial read deadline; every pong extends it
	conn.SetReadDeadline(time.Now().Add(h.pongTimeout))

	total := h.add(clientConn)

	// Start ping routine
	go h.pingRoutine(clientConn)

	log.Printf("User %d connected to hub as %s (total: %d)", userID, connectionID, total)
}

// add inserts a connection into the registry and the per-channel index.
func (h *Hub) add(clientConn *ClientConnection) int {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	h.clients[clientConn.ConnectionID] = clientConn
	for ch := range clientConn.Channels {
		if h.byChannel[ch] == nil {
			h.byChannel[ch] = make(map[string]*ClientConnection)
		}
		h.byChannel[ch][clientConn.ConnectionID] = clientConn
	}
	return len(h.clients)
}

// Unregister removes a client connection
func (h *Hub) Unregister(connectionID string) {
	h.clientsMux.Lock()
	client, exists := h.clients[connectionID]
	if exists {
		if client.PingTicker != nil {
			client.PingTicker.Stop()
		}
		close(client.CloseChan)
		for ch := range client.Channels {
			delete(h.byChannel[ch], connectionID)
			if len(h.byChannel[ch]) == 0 {
				delete(h.byChannel, ch)
			}
		}
	}
	delete(h.clients, connectionID)
	count := len(h.clients)
	h.clientsMux.Unlock()

	if exists {
		log.Printf("User %d disconnected from hub (%s, total: %d)", client.UserID, connectionID, count)
	}
}

// SubscribeUser adds a channel subscription to every live connection the
// user holds, so a mid-session channel join starts delivering events
// without a reconnect.
func (h *Hub) SubscribeUser(userID, channelID uint) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	for _, client := range h.clients {
		if client.UserID != userID {
			continue
		}
		client.Channels[channelID] = true
		if h.byChannel[channelID] == nil {
			h.byChannel[channelID] = make(map[string]*ClientConnection)
		}
		h.byChannel[channelID][client.ConnectionID] = client
	}
}

// UnsubscribeUser drops a channel subscription from every live connection
// the user holds, the counterpart of SubscribeUser for leaving a channel.
func (h *Hub) UnsubscribeUser(userID, channelID uint) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	for connectionID, client := range h.byChannel[channelID] {
		if client.UserID != userID {
			continue
		}
		delete(client.Channels, channelID)
		delete(h.byChannel[channelID], connectionID)
	}
	if len(h.byChannel[channelID]) == 0 {
		delete(h.byChannel, channelID)
	}
}

// BroadcastToChannel sends data to every connection subscribed to a channel
func (h *Hub) BroadcastToChannel(channelID uint, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("Error marshaling broadcast data for channel %d: %v", channelID, err)
		return
	}

	h.clientsMux.RLock()
	subscribers := make([]*ClientConnection, 0, len(h.byChannel[channelID]))
	for _, client := range h.byChannel[channelID] {
		subscribers = append(subscribers, client)
	}
	h.clientsMux.RUnlock()

	for _, client := range subscribers {
		if err := h.writeMessage(client, jsonData); err != nil {
			log.Printf("Error broadcasting to connection %s: %v", client.ConnectionID, err)
			h.Unregister(client.ConnectionID)
		}
	}
}

// Count returns the number of connected clients
func (h *Hub) Count() int {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()
	return len(h.clients)
}

// CountForChannel returns the number of connections subscribed to a channel
func (h *Hub) CountForChannel(channelID uint) int {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()
	return len(h.byChannel[channelID])
}

func (h *Hub) writeMessage(client *ClientConnection, data []byte) error {
	client.writeMux.Lock()
	defer client.writeMux.Unlock()
	return client.Conn.WriteMessage(websocket.TextMessage, data)
}

// pingRoutine sends periodic ping messages to keep connection alive
func (h *Hub) pingRoutine(client *ClientConnection) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Ping routine recovered from panic for connection %s: %v", client.ConnectionID, r)
		}
	}()

	for {
		select {
		case <-client.CloseChan:
			return
		case <-client.PingTicker.C:
			// Check if connection is still valid
			h.clientsMux.RLock()
			_, exists := h.clients[client.ConnectionID]
			h.clientsMux.RUnlock()

			if !exists {
				return
			}

			if err := client.Conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
				log.Printf("Ping failed for connection %s: %v", client.ConnectionID, err)
				h.Unregister(client.ConnectionID)
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
		h.clientsMux.RLock()
		deadConnections := make([]string, 0)
		now := time.Now()

		for connectionID, client := range h.clients {
			if now.Sub(client.LastPong) > h.pongTimeout {
				deadConnections = append(deadConnections, connectionID)
			}
		}
		h.clientsMux.RUnlock()

		// Unregister dead connections
		for _, connectionID := range deadConnections {
			log.Printf("Removing dead connection %s (no pong received)", connectionID)
			h.Unregister(connectionID)
		}
	}
}

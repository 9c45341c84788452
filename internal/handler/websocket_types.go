// internal/handler/websocket_types.go
package handler

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client represents a WebSocket client
type Client struct {
	ID            string          `json:"id"`
	Connection    *websocket.Conn `json:"-"`
	Send          chan []byte     `json:"-"`
	UserAgent     string          `json:"user_agent"`
	RemoteAddr    string          `json:"remote_addr"`
	ConnectedAt   time.Time       `json:"connected_at"`
	Subscriptions map[string]bool `json:"subscriptions,omitempty"`

	mu sync.Mutex
}

// wantsEvent reports whether the client should receive the event type.
// A client with no explicit subscriptions receives everything.
func (c *Client) wantsEvent(eventType string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Subscriptions) == 0 {
		return true
	}
	return c.Subscriptions[eventType]
}

// subscribe adds an event type to the client's filter
func (c *Client) subscribe(eventType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Subscriptions == nil {
		c.Subscriptions = make(map[string]bool)
	}
	c.Subscriptions[eventType] = true
}

// unsubscribe removes an event type from the client's filter
func (c *Client) unsubscribe(eventType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.Subscriptions, eventType)
}

// WebSocketMessage represents a WebSocket message
type WebSocketMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id,omitempty"`
}

// ConnectionManager manages WebSocket connections
type ConnectionManager struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager() *ConnectionManager {
	manager := &ConnectionManager{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}

	go manager.run()
	return manager
}

// run starts the connection manager
func (cm *ConnectionManager) run() {
	for {
		select {
		case client := <-cm.register:
			cm.mutex.Lock()
			cm.clients[client.ID] = client
			cm.mutex.Unlock()

		case client := <-cm.unregister:
			cm.mutex.Lock()
			if _, ok := cm.clients[client.ID]; ok {
				delete(cm.clients, client.ID)
				close(client.Send)
			}
			cm.mutex.Unlock()
		}
	}
}

// Register registers a new client
func (cm *ConnectionManager) Register(client *Client) {
	cm.register <- client
}

// Unregister unregisters a client
func (cm *ConnectionManager) Unregister(client *Client) {
	cm.unregister <- client
}

// AllClients returns a snapshot of the connected clients
func (cm *ConnectionManager) AllClients() []*Client {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	clients := make([]*Client, 0, len(cm.clients))
	for _, client := range cm.clients {
		clients = append(clients, client)
	}
	return clients
}

// GetStats returns connection statistics
func (cm *ConnectionManager) GetStats() *ConnectionStats {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	stats := &ConnectionStats{
		TotalConnections: len(cm.clients),
		Clients:          make([]*Client, 0, len(cm.clients)),
	}
	for _, client := range cm.clients {
		stats.Clients = append(stats.Clients, client)
	}
	return stats
}

// ConnectionStats represents connection statistics
type ConnectionStats struct {
	TotalConnections int       `json:"total_connections"`
	Clients          []*Client `json:"clients"`
}

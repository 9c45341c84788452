// internal/handler/websocket_handler.go
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"camera-service/internal/model"
	"camera-service/internal/utils"
)

// WebSocketHandler streams camera events to connected clients
type WebSocketHandler struct {
	upgrader    websocket.Upgrader
	connections *ConnectionManager
	logger      *utils.ServiceLogger
}

// NewWebSocketHandler creates a new WebSocket handler. allowedOrigins
// restricts who may upgrade; a "*" entry accepts any origin.
func NewWebSocketHandler(allowedOrigins []string, logger *zap.Logger) *WebSocketHandler {
	originAllowed := func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, allowed := range allowedOrigins {
			if allowed == "*" || allowed == origin {
				return true
			}
		}
		return false
	}

	return &WebSocketHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originAllowed,
		},
		connections: NewConnectionManager(),
		logger:      utils.NewServiceLogger(logger, "websocket-handler"),
	}
}

// RegisterRoutes registers WebSocket routes
func (h *WebSocketHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/events", h.HandleEventConnection)
	router.GET("/transfers", h.HandleTransferConnection)
}

// HandleEventConnection upgrades the request and starts the client pumps.
// Clients receive all event types until they subscribe to specific ones.
func (h *WebSocketHandler) HandleEventConnection(c *gin.Context) {
	h.acceptClient(c, nil)
}

// HandleTransferConnection upgrades the request with the client already
// subscribed to transfer events, so it only sees the lifecycle of image
// transfers.
func (h *WebSocketHandler) HandleTransferConnection(c *gin.Context) {
	h.acceptClient(c, []model.EventType{
		model.EventSnapshotStarted,
		model.EventTransferStarted,
		model.EventTransferProgress,
		model.EventTransferCompleted,
		model.EventTransferFailed,
	})
}

func (h *WebSocketHandler) acceptClient(c *gin.Context, eventTypes []model.EventType) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade WebSocket connection", zap.Error(err))
		return
	}

	client := &Client{
		ID:          uuid.New().String(),
		Connection:  conn,
		Send:        make(chan []byte, 256),
		UserAgent:   c.Request.UserAgent(),
		RemoteAddr:  c.Request.RemoteAddr,
		ConnectedAt: time.Now(),
	}
	for _, et := range eventTypes {
		client.subscribe(string(et))
	}

	h.connections.Register(client)
	h.logger.Info("WebSocket client connected",
		zap.String("client_id", client.ID),
		zap.String("remote_addr", client.RemoteAddr),
		zap.String("path", c.Request.URL.Path),
	)

	go h.handleClientRead(client)
	go h.handleClientWrite(client)
}

// handleClientRead handles reading messages from WebSocket client
func (h *WebSocketHandler) handleClientRead(client *Client) {
	defer func() {
		h.connections.Unregister(client)
		client.Connection.Close()
	}()

	client.Connection.SetReadDeadline(time.Now().Add(60 * time.Second))
	client.Connection.SetPongHandler(func(string) error {
		client.Connection.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, messageBytes, err := client.Connection.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Error("WebSocket read error",
					zap.Error(err),
					zap.String("client_id", client.ID),
				)
			}
			break
		}

		var message WebSocketMessage
		if err := json.Unmarshal(messageBytes, &message); err != nil {
			h.logger.Error("Failed to parse WebSocket message",
				zap.Error(err),
				zap.String("client_id", client.ID),
			)
			continue
		}

		h.handleClientMessage(client, &message)
	}
}

// handleClientWrite handles writing messages to WebSocket client
func (h *WebSocketHandler) handleClientWrite(client *Client) {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		client.Connection.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Connection.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				client.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := client.Connection.WriteMessage(websocket.TextMessage, message); err != nil {
				h.logger.Error("WebSocket write error",
					zap.Error(err),
					zap.String("client_id", client.ID),
				)
				return
			}

		case <-ticker.C:
			client.Connection.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleClientMessage handles incoming client messages
func (h *WebSocketHandler) handleClientMessage(client *Client, message *WebSocketMessage) {
	switch message.Type {
	case "subscribe":
		h.handleSubscription(client, message)
	case "unsubscribe":
		h.handleUnsubscription(client, message)
	case "ping":
		h.sendMessage(client, &WebSocketMessage{
			Type:      "pong",
			Timestamp: time.Now(),
		})
	default:
		h.logger.Warn("Unknown message type",
			zap.String("type", message.Type),
			zap.String("client_id", client.ID),
		)
	}
}

// handleSubscription narrows the client to the requested event types
func (h *WebSocketHandler) handleSubscription(client *Client, message *WebSocketMessage) {
	if data, ok := message.Data.(map[string]interface{}); ok {
		if eventType, ok := data["event_type"].(string); ok {
			client.subscribe(eventType)
			h.logger.Info("Client subscribed to event type",
				zap.String("client_id", client.ID),
				zap.String("event_type", eventType),
			)

			h.sendMessage(client, &WebSocketMessage{
				Type: "subscription_confirmed",
				Data: map[string]interface{}{
					"event_type": eventType,
				},
				Timestamp: time.Now(),
			})
		}
	}
}

// handleUnsubscription handles client unsubscription requests
func (h *WebSocketHandler) handleUnsubscription(client *Client, message *WebSocketMessage) {
	if data, ok := message.Data.(map[string]interface{}); ok {
		if eventType, ok := data["event_type"].(string); ok {
			client.unsubscribe(eventType)
			h.logger.Info("Client unsubscribed from event type",
				zap.String("client_id", client.ID),
				zap.String("event_type", eventType),
			)
		}
	}
}

// sendMessage sends a message to a client
func (h *WebSocketHandler) sendMessage(client *Client, message *WebSocketMessage) {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("Failed to marshal WebSocket message", zap.Error(err))
		return
	}

	select {
	case client.Send <- messageBytes:
	default:
		h.logger.Warn("Client send channel full, dropping message",
			zap.String("client_id", client.ID),
		)
	}
}

// BroadcastEvent delivers a camera event to every subscribed client
func (h *WebSocketHandler) BroadcastEvent(event model.CameraEvent) {
	message := &WebSocketMessage{
		Type:      "camera_event",
		Data:      event,
		Timestamp: event.Timestamp,
	}
	messageBytes, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("Failed to marshal broadcast message", zap.Error(err))
		return
	}

	for _, client := range h.connections.AllClients() {
		if !client.wantsEvent(string(event.EventType)) {
			continue
		}
		select {
		case client.Send <- messageBytes:
		default:
			h.logger.Warn("Client send channel full during broadcast",
				zap.String("client_id", client.ID),
			)
		}
	}
}

// GetConnectionStats returns connection statistics
func (h *WebSocketHandler) GetConnectionStats() *ConnectionStats {
	return h.connections.GetStats()
}

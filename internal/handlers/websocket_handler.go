package handlers

import (
	"context"
	"log"
	"time"

	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/handlers/ws"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/httpx"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/queue"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/service"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type WebSocketHandler struct {
	messageService *service.MessageService
	channelService *service.ChannelService
	commandQueue   queue.Queue
	hub            *ws.Hub
}

func NewWebSocketHandler(messageService *service.MessageService, channelService *service.ChannelService, commandQueue queue.Queue) *WebSocketHandler {
	return &WebSocketHandler{
		messageService: messageService,
		channelService: channelService,
		commandQueue:   commandQueue,
		hub:            ws.NewHub(),
	}
}

// GetHub returns the hub instance (useful for sending messages from other handlers)
func (h *WebSocketHandler) GetHub() *ws.Hub {
	return h.hub
}

func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	userID, err := httpx.ParseUint(c.Query("user_id"))
	if err != nil || userID == 0 {
		ws.SendError(c, "invalid_user_id", "A valid user_id query param is required", "")
		c.Close()
		return
	}

	connectionID := uuid.NewString()

	channels, err := h.channelService.UserChannelIDs(userID)
	if err != nil {
		log.Printf("Failed to load channels for user %d: %v", userID, err)
		ws.SendError(c, "subscription_failed", "Failed to load channel subscriptions", "")
		c.Close()
		return
	}

	// Register client in hub
	h.hub.Register(connectionID, userID, c, channels)

	// Presence changes go through the queue like everything else
	h.enqueuePresence(&queue.UserConnected{
		UserID:       userID,
		ConnectionID: connectionID,
		EnqueuedAt:   time.Now().UTC(),
	})

	defer func() {
		h.hub.Unregister(connectionID)
		h.enqueuePresence(&queue.UserDisconnected{
			UserID:       userID,
			ConnectionID: connectionID,
			EnqueuedAt:   time.Now().UTC(),
		})
	}()

	log.Printf("User %d connected via WebSocket (%s)", userID, connectionID)

	// Create message context
	ctx := &ws.MessageContext{
		UserID:         userID,
		ConnectionID:   connectionID,
		Conn:           c,
		Hub:            h.hub,
		MessageService: h.messageService,
	}

	// Handle incoming messages
	for {
		_, messageBytes, err := c.ReadMessage()
		if err != nil {
			log.Printf("Error reading message from user %d: %v", userID, err)
			break
		}

		// Deserialize message
		msg, err := ws.Deserialize(messageBytes)
		if err != nil {
			log.Printf("Error deserializing message from user %d: %v", userID, err)
			ws.SendError(c, "invalid_message", "Invalid message format", err.Error())
			continue
		}

		// Process message
		if err := msg.Process(ctx); err != nil {
			log.Printf("Error processing message %s from user %d: %v", msg.GetType(), userID, err)
			ws.SendError(c, "processing_failed", "Failed to process message", err.Error())
		}
	}

	log.Printf("User %d disconnected from WebSocket (%s)", userID, connectionID)
}

func (h *WebSocketHandler) enqueuePresence(cmd queue.Command) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.commandQueue.Enqueue(ctx, cmd); err != nil {
		log.Printf("Failed to enqueue %s command: %v", cmd.CommandKind(), err)
	}
}

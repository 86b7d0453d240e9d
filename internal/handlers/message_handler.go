package handlers

import (
	"log"
	"strconv"

	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/httpx"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/models"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/service"
	"github.com/gofiber/fiber/v2"
)

type MessageHandler struct {
	messageService *service.MessageService
}

func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

type sendMessageRequest struct {
	ChannelID uint   `json:"channel_id"`
	SenderID  uint   `json:"sender_id"`
	Content   string `json:"content"`
	ClientID  string `json:"client_id"`
}

// SendMessage enqueues a send command. The response is 202: the offset and
// message ID are assigned later by the worker and announced via fan-out.
func (h *MessageHandler) SendMessage(c *fiber.Ctx) error {
	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if req.ChannelID == 0 || req.SenderID == 0 {
		return httpx.BadRequest(c, "missing_fields", "channel_id and sender_id are required")
	}

	clientID, err := h.messageService.SubmitMessage(c.Context(), req.SenderID, req.ChannelID, req.Content, req.ClientID)
	if err != nil {
		return serviceError(c, err)
	}

	return httpx.Accepted(c, fiber.Map{
		"status":     "queued",
		"client_id":  clientID,
		"channel_id": req.ChannelID,
	})
}

// GetChannelMessages returns a page of the channel log in offset order.
func (h *MessageHandler) GetChannelMessages(c *fiber.Ctx) error {
	channelID, err := httpx.ParamsUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_channel_id", err.Error())
	}

	var afterOffset *int64
	if v := c.Query("after_offset"); v != "" {
		after, err := strconv.ParseInt(v, 10, 64)
		if err != nil || after < 0 {
			return httpx.BadRequest(c, "invalid_after_offset", "after_offset must be a non-negative integer")
		}
		afterOffset = &after
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	messages, err := h.messageService.GetChannelMessages(channelID, afterOffset, limit)
	if err != nil {
		return serviceError(c, err)
	}

	responses := make([]models.MessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, messages[i].ToResponse(messages[i].SenderName()))
	}
	return c.JSON(fiber.Map{"messages": responses, "count": len(responses)})
}

func (h *MessageHandler) GetMessage(c *fiber.Ctx) error {
	message, err := h.messageService.GetMessage(c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(message.ToResponse(message.SenderName()))
}

func (h *MessageHandler) DeleteMessage(c *fiber.Ctx) error {
	if err := h.messageService.DeleteMessage(c.Params("id")); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

// GetDeliveryStatus lists per-user delivery and seen marks for a message.
func (h *MessageHandler) GetDeliveryStatus(c *fiber.Ctx) error {
	statuses, err := h.messageService.DeliveryStatuses(c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"statuses": statuses, "count": len(statuses)})
}

type markReadRequest struct {
	UserID         uint  `json:"user_id"`
	LastSeenOffset int64 `json:"last_seen_offset"`
}

// MarkChannelRead enqueues a read-receipt command for a channel.
func (h *MessageHandler) MarkChannelRead(c *fiber.Ctx) error {
	channelID, err := httpx.ParamsUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_channel_id", err.Error())
	}

	var req markReadRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if req.UserID == 0 {
		return httpx.BadRequest(c, "missing_fields", "user_id is required")
	}

	if err := h.messageService.SubmitMarkSeen(c.Context(), req.UserID, channelID, req.LastSeenOffset); err != nil {
		return serviceError(c, err)
	}

	return httpx.Accepted(c, fiber.Map{
		"status":           "queued",
		"channel_id":       channelID,
		"last_seen_offset": req.LastSeenOffset,
	})
}

// GetReadState reports a user's seen watermark and the channel's latest
// offset, so clients can compute unread counts.
func (h *MessageHandler) GetReadState(c *fiber.Ctx) error {
	channelID, err := httpx.ParamsUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_channel_id", err.Error())
	}
	userID, err := httpx.QueryUint(c, "user_id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_user_id", err.Error())
	}

	lastSeen, err := h.messageService.LastSeenOffset(userID, channelID)
	if err != nil {
		return serviceError(c, err)
	}
	latest, err := h.messageService.LatestOffset(channelID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"channel_id":       channelID,
		"user_id":          userID,
		"last_seen_offset": lastSeen,
		"latest_offset":    latest,
	})
}

// QueueStats reports the command backlog, used by health checks.
func (h *MessageHandler) QueueStats(c *fiber.Ctx) error {
	depth, err := h.messageService.QueueDepth(c.Context())
	if err != nil {
		log.Printf("Failed to read queue depth: %v", err)
		return httpx.Internal(c, "queue_unavailable")
	}
	return c.JSON(fiber.Map{"depth": depth})
}

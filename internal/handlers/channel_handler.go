package handlers

import (
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/handlers/ws"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/httpx"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/models"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/service"
	"github.com/gofiber/fiber/v2"
)

type ChannelHandler struct {
	channelService *service.ChannelService
	hub            *ws.Hub
}

// NewChannelHandler builds the channel handler. The hub keeps live
// websocket subscriptions in step with membership changes; nil is allowed
// for processes without a gateway.
func NewChannelHandler(channelService *service.ChannelService, hub *ws.Hub) *ChannelHandler {
	return &ChannelHandler{channelService: channelService, hub: hub}
}

type createChannelRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatorID   uint   `json:"creator_id"`
}

func (h *ChannelHandler) CreateChannel(c *fiber.Ctx) error {
	var req createChannelRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if req.CreatorID == 0 {
		return httpx.BadRequest(c, "missing_fields", "creator_id is required")
	}

	channel, err := h.channelService.CreateChannel(req.Name, req.Description, req.CreatorID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(channel.ToResponse())
}

func (h *ChannelHandler) GetChannels(c *fiber.Ctx) error {
	channels, err := h.channelService.ListChannels()
	if err != nil {
		return serviceError(c, err)
	}

	responses := make([]models.ChannelResponse, 0, len(channels))
	for i := range channels {
		responses = append(responses, channels[i].ToResponse())
	}
	return c.JSON(fiber.Map{"channels": responses, "count": len(responses)})
}

func (h *ChannelHandler) GetChannel(c *fiber.Ctx) error {
	channelID, err := httpx.ParamsUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_channel_id", err.Error())
	}

	channel, err := h.channelService.GetChannel(channelID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(channel.ToResponse())
}

type joinChannelRequest struct {
	UserID uint `json:"user_id"`
}

func (h *ChannelHandler) JoinChannel(c *fiber.Ctx) error {
	channelID, err := httpx.ParamsUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_channel_id", err.Error())
	}

	var req joinChannelRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if req.UserID == 0 {
		return httpx.BadRequest(c, "missing_fields", "user_id is required")
	}

	if err := h.channelService.JoinChannel(channelID, req.UserID); err != nil {
		return serviceError(c, err)
	}

	// A member who is already connected starts receiving fan-out for the
	// new channel without reconnecting.
	if h.hub != nil {
		h.hub.SubscribeUser(req.UserID, channelID)
	}
	return c.JSON(fiber.Map{"status": "joined", "channel_id": channelID, "user_id": req.UserID})
}

func (h *ChannelHandler) LeaveChannel(c *fiber.Ctx) error {
	channelID, err := httpx.ParamsUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_channel_id", err.Error())
	}
	userID, err := httpx.ParamsUint(c, "userID")
	if err != nil {
		return httpx.BadRequest(c, "invalid_user_id", err.Error())
	}

	if err := h.channelService.LeaveChannel(channelID, userID); err != nil {
		return serviceError(c, err)
	}

	if h.hub != nil {
		h.hub.UnsubscribeUser(userID, channelID)
	}
	return c.JSON(fiber.Map{"status": "left", "channel_id": channelID, "user_id": userID})
}

func (h *ChannelHandler) GetMembers(c *fiber.Ctx) error {
	channelID, err := httpx.ParamsUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_channel_id", err.Error())
	}

	members, err := h.channelService.GetMembers(channelID)
	if err != nil {
		return serviceError(c, err)
	}

	responses := make([]models.UserResponse, 0, len(members))
	for i := range members {
		responses = append(responses, members[i].ToResponse())
	}
	return c.JSON(fiber.Map{"members": responses, "count": len(responses)})
}

func (h *ChannelHandler) GetUserChannels(c *fiber.Ctx) error {
	userID, err := httpx.ParamsUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_user_id", err.Error())
	}

	channels, err := h.channelService.GetUserChannels(userID)
	if err != nil {
		return serviceError(c, err)
	}

	responses := make([]models.ChannelResponse, 0, len(channels))
	for i := range channels {
		responses = append(responses, channels[i].ToResponse())
	}
	return c.JSON(fiber.Map{"channels": responses, "count": len(responses)})
}

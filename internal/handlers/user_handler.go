package handlers

import (
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/httpx"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/models"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/service"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type createUserRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	user, err := h.userService.CreateUser(req.Username, req.DisplayName)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user.ToResponse())
}

func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.userService.ListUsers()
	if err != nil {
		return serviceError(c, err)
	}

	responses := make([]models.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, users[i].ToResponse())
	}
	return c.JSON(fiber.Map{"users": responses, "count": len(responses)})
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	userID, err := httpx.ParamsUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_user_id", err.Error())
	}

	user, err := h.userService.GetUser(userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(user.ToResponse())
}

package handlers

import (
	"errors"

	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/httpx"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/service"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// serviceError maps service-layer sentinels onto HTTP responses.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotChannelMember):
		return httpx.Forbidden(c, "not_a_member", err.Error())
	case errors.Is(err, service.ErrEmptyContent),
		errors.Is(err, service.ErrContentTooLong),
		errors.Is(err, service.ErrInvalidOffset),
		errors.Is(err, service.ErrInvalidChannel),
		errors.Is(err, service.ErrInvalidUsername):
		return httpx.BadRequest(c, "validation_failed", err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		return httpx.NotFound(c, "not_found", "Resource not found")
	default:
		return httpx.Internal(c, "internal_error")
	}
}

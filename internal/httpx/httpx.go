package httpx

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func requestID(c *fiber.Ctx) string {
	if v := c.Locals("requestid"); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func Error(c *fiber.Ctx, status int, code string, message string) error {
	if message == "" {
		message = "Request failed"
	}
	return c.Status(status).JSON(ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestID(c),
	})
}

func BadRequest(c *fiber.Ctx, code string, message string) error {
	return Error(c, fiber.StatusBadRequest, code, message)
}

func Forbidden(c *fiber.Ctx, code string, message string) error {
	return Error(c, fiber.StatusForbidden, code, message)
}

func NotFound(c *fiber.Ctx, code string, message string) error {
	return Error(c, fiber.StatusNotFound, code, message)
}

func Internal(c *fiber.Ctx, code string) error {
	return Error(c, fiber.StatusInternalServerError, code, "Internal server error")
}

// Accepted reports that a command was queued for asynchronous processing.
func Accepted(c *fiber.Ctx, payload interface{}) error {
	return c.Status(fiber.StatusAccepted).JSON(payload)
}

func QueryUint(c *fiber.Ctx, key string) (uint, error) {
	v := c.Query(key)
	if v == "" {
		return 0, fmt.Errorf("missing query param %s", key)
	}
	u, err := ParseUint(v)
	if err != nil {
		return 0, fmt.Errorf("invalid query param %s", key)
	}
	return u, nil
}

func ParamsUint(c *fiber.Ctx, key string) (uint, error) {
	u, err := ParseUint(c.Params(key))
	if err != nil {
		return 0, fmt.Errorf("invalid path param %s", key)
	}
	return u, nil
}

// ParseUint parses a decimal id; trailing garbage is an error, so a path
// like /channels/12abc fails instead of resolving channel 12.
func ParseUint(s string) (uint, error) {
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(u), nil
}

package handlers

import (
	"log/slog"

	"github.com/campusguard/campusguard-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// internalError logs the failure server-side (the DB log handler picks
// it up) and answers with a detail-free 500.
func internalError(c *fiber.Ctx, action string, err error) error {
	slog.Error("request failed",
		"action", action,
		"method", c.Method(),
		"path", c.Path(),
		"request_id", requestID(c),
		"error", err.Error(),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: "Internal server error",
	})
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}

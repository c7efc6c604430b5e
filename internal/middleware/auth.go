package middleware

import (
	"strings"

	"github.com/campusguard/campusguard-backend/internal/config"
	"github.com/campusguard/campusguard-backend/internal/dto"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// JWTProtected guards a route with the shared HS256 signing key.
// A missing token is a 401; a present-but-invalid one is a 403.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if strings.Contains(err.Error(), "missing or malformed") {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
					Error: "Access token required",
				})
			}
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: "Invalid or expired token",
			})
		},
	})
}

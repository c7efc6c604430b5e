package middleware

import (
	"errors"

	"github.com/campusguard/campusguard-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var errNoToken = errors.New("no verified token in request context")

// TokenAdmin extracts the admin claims that JWTProtected stored on the
// request. Only meaningful behind that middleware.
func TokenAdmin(c *fiber.Ctx) (*dto.TokenAdmin, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil, errNoToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errNoToken
	}

	id, _ := claims["id"].(float64)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return &dto.TokenAdmin{ID: uint(id), Email: email, Role: role}, nil
}

// RoleRequired rejects authenticated callers whose role claim is not
// in the allowed set.
func RoleRequired(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		admin, err := TokenAdmin(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: "Authentication required",
			})
		}
		for _, role := range roles {
			if admin.Role == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: "Insufficient permissions for this action",
		})
	}
}

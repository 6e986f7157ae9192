package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/gearswap/gearswap-api/internal/session"
	"github.com/gearswap/gearswap-api/internal/utils"
)

// AuthMiddleware validates the bearer token and checks that its session has
// not been revoked. On success the authenticated user id is stored in the
// request locals.
func AuthMiddleware(jwtService *utils.JWTService, sessions session.Store) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing authorization header",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid authorization header format",
			})
		}

		userID, sessionID, err := jwtService.ExtractClaims(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		live, err := sessions.Exists(c.Context(), sessionID)
		if err != nil || !live {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "session expired",
			})
		}

		uid, err := uuid.Parse(userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid user id",
			})
		}

		c.Locals("userID", uid)
		c.Locals("sessionID", sessionID)

		return c.Next()
	}
}

// UserID returns the authenticated user id set by AuthMiddleware.
func UserID(c fiber.Ctx) uuid.UUID {
	uid, _ := c.Locals("userID").(uuid.UUID)
	return uid
}

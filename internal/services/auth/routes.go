package auth

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes registers the auth API routes. Logout needs a valid token.
func (s *AuthService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	api := app.Group("/api/auth")

	api.Post("/signup", s.Signup)
	api.Post("/login", s.Login)

	api.Use(authMiddleware)
	api.Post("/logout", s.Logout)
}

package user

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes registers the profile API routes.
func (s *UserService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	api := app.Group("/api/users")
	api.Use(authMiddleware)

	api.Get("/me", s.Me)
	api.Patch("/me", s.UpdateMe)
}

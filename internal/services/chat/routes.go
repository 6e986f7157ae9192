package chat

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes registers the conversation routes under the trade API.
func (s *ChatService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	api := app.Group("/api/trades")
	api.Use(authMiddleware)

	api.Get("/:id/messages", s.GetMessages)
	api.Post("/:id/messages", s.SendMessage)
}

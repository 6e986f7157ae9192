package item

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes registers the item API routes. Browsing is public; mutations
// require authentication. Public routes must be registered before the
// guarded group so they are matched first.
func (s *ItemService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	app.Get("/api/items", s.GetItems)
	app.Get("/api/items/:id", s.GetItem)

	api := app.Group("/api/items")
	api.Use(authMiddleware)

	api.Post("/", s.CreateItem)
	api.Patch("/:id", s.UpdateItem)
	api.Delete("/:id", s.DeleteItem)
}

package trade

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes registers the trade API routes.
func (s *TradeService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	api := app.Group("/api/trades")
	api.Use(authMiddleware)

	api.Post("/", s.CreateTrade)
	api.Get("/", s.GetMyTrades)
	api.Get("/:id", s.GetTrade)
	api.Patch("/:id/status", s.UpdateTradeStatus)
}

package trade

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/gearswap/gearswap-api/internal/apperrors"
	"github.com/gearswap/gearswap-api/internal/middleware"
	"github.com/gearswap/gearswap-api/internal/models"
	"github.com/gearswap/gearswap-api/internal/storage"
)

// TradeService exposes the trade lifecycle over HTTP.
type TradeService struct {
	engine *Engine
}

// NewTradeService creates a new TradeService on top of the given storage.
func NewTradeService(store storage.Storage) *TradeService {
	return &TradeService{engine: NewEngine(store)}
}

// CreateTrade handles POST /api/trades.
func (s *TradeService) CreateTrade(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	var requestData struct {
		ItemID string `json:"item_id"`
	}
	if err := c.Bind().Body(&requestData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	itemID, err := uuid.Parse(requestData.ItemID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid item id"})
	}

	trade, err := s.engine.Create(c.Context(), userID, itemID)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(trade)
}

// GetMyTrades handles GET /api/trades.
func (s *TradeService) GetMyTrades(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	trades, err := s.engine.ListForUser(c.Context(), userID)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	if trades == nil {
		trades = []models.Trade{}
	}

	return c.JSON(trades)
}

// GetTrade handles GET /api/trades/:id.
func (s *TradeService) GetTrade(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	tradeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid trade id"})
	}

	detail, err := s.engine.Get(c.Context(), userID, tradeID)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	return c.JSON(detail)
}

// UpdateTradeStatus handles PATCH /api/trades/:id/status.
func (s *TradeService) UpdateTradeStatus(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	tradeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid trade id"})
	}

	var requestData struct {
		Status string `json:"status"`
	}
	if err := c.Bind().Body(&requestData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	trade, err := s.engine.UpdateStatus(c.Context(), userID, tradeID, requestData.Status)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	return c.JSON(trade)
}

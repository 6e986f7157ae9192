package chat

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/gearswap/gearswap-api/internal/apperrors"
	"github.com/gearswap/gearswap-api/internal/middleware"
	"github.com/gearswap/gearswap-api/internal/storage"
)

// ChatService exposes per-trade conversations over HTTP.
type ChatService struct {
	conversation *Conversation
}

// NewChatService creates a new ChatService on top of the given storage.
func NewChatService(store storage.Storage) *ChatService {
	return &ChatService{conversation: NewConversation(store)}
}

// GetMessages handles GET /api/trades/:id/messages.
func (s *ChatService) GetMessages(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	tradeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid trade id"})
	}

	messages, err := s.conversation.ListMessages(c.Context(), userID, tradeID)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	return c.JSON(messages)
}

// SendMessage handles POST /api/trades/:id/messages.
func (s *ChatService) SendMessage(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	tradeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid trade id"})
	}

	var requestData struct {
		Content string `json:"content"`
	}
	if err := c.Bind().Body(&requestData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	msg, err := s.conversation.SendMessage(c.Context(), userID, tradeID, requestData.Content)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(msg)
}

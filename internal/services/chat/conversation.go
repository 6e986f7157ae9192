package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gearswap/gearswap-api/internal/apperrors"
	"github.com/gearswap/gearswap-api/internal/models"
	"github.com/gearswap/gearswap-api/internal/storage"
)

// Conversation owns the per-trade message thread: only trade participants
// may read or append, messages are immutable and ordered by creation time.
//
// Appending is not gated on trade status. A rejected or completed trade
// keeps its thread open so participants can still wrap up; this mirrors the
// original behavior and is deliberate.
type Conversation struct {
	store storage.Storage
}

func NewConversation(store storage.Storage) *Conversation {
	return &Conversation{store: store}
}

// ListMessages returns the thread oldest-first.
func (cv *Conversation) ListMessages(ctx context.Context, actorID, tradeID uuid.UUID) ([]models.Message, error) {
	trade, err := cv.store.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if !trade.IsParticipant(actorID) {
		return nil, fmt.Errorf("not a trade participant: %w", apperrors.ErrForbidden)
	}

	messages, err := cv.store.GetMessages(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return messages, nil
}

// SendMessage appends a message from actorID to the trade's thread.
func (cv *Conversation) SendMessage(ctx context.Context, actorID, tradeID uuid.UUID, content string) (*models.Message, error) {
	trade, err := cv.store.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if !trade.IsParticipant(actorID) {
		return nil, fmt.Errorf("not a trade participant: %w", apperrors.ErrForbidden)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("message content cannot be empty: %w", apperrors.ErrInvalidArgument)
	}

	msg := &models.Message{
		TradeID:  tradeID,
		SenderID: actorID,
		Content:  content,
	}
	if err := cv.store.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

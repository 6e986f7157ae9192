package models

import (
	"time"

	"github.com/google/uuid"
)

// Message represents one chat message inside a trade's conversation.
// Messages are append-only and never edited or deleted.
type Message struct {
	ID        uuid.UUID `json:"id"`
	TradeID   uuid.UUID `json:"trade_id"`
	SenderID  uuid.UUID `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

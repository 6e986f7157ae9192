package models

import (
	"time"

	"github.com/google/uuid"
)

// Trade status lifecycle: requested -> accepted | rejected, accepted -> completed.
// rejected and completed are terminal.
const (
	TradeRequested = "requested"
	TradeAccepted  = "accepted"
	TradeRejected  = "rejected"
	TradeCompleted = "completed"
)

// Trade represents a trade request on a single item.
//
// OwnerID is a snapshot of the item's owner taken when the trade is created.
// It is never re-synced afterwards; authorization checks run against the snapshot.
type Trade struct {
	ID          uuid.UUID `json:"id"`
	ItemID      uuid.UUID `json:"item_id"`
	RequesterID uuid.UUID `json:"requester_id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TradeDetail is a trade joined with its item and full conversation,
// as returned by the trade detail endpoint.
type TradeDetail struct {
	Trade
	Item     *Item     `json:"item"`
	Messages []Message `json:"messages"`
}

// IsParticipant reports whether userID is the trade's requester or owner.
func (t *Trade) IsParticipant(userID uuid.UUID) bool {
	return t.RequesterID == userID || t.OwnerID == userID
}

// IsTerminal reports whether no further status transitions are permitted.
func (t *Trade) IsTerminal() bool {
	return t.Status == TradeRejected || t.Status == TradeCompleted
}

package trade

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/gearswap/gearswap-api/internal/apperrors"
	"github.com/gearswap/gearswap-api/internal/models"
	"github.com/gearswap/gearswap-api/internal/storage"
)

// Engine owns the trade lifecycle: who may move a trade to which status,
// and how item availability follows trade outcomes.
//
// Transitions: requested -> accepted | rejected (owner only),
// accepted -> completed (either participant). rejected and completed are
// terminal. A wrong actor and a wrong source state both surface
// ErrForbidden.
type Engine struct {
	store storage.Storage
}

func NewEngine(store storage.Storage) *Engine {
	return &Engine{store: store}
}

// Create opens a trade request on an item. The item's current owner is
// snapshotted onto the trade and used for all later authorization checks.
// Requesting a trade on your own item is rejected. Several open requests
// may exist on the same item; only their outcomes touch item availability.
func (e *Engine) Create(ctx context.Context, requesterID, itemID uuid.UUID) (*models.Trade, error) {
	item, err := e.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID == requesterID {
		return nil, fmt.Errorf("cannot trade with yourself: %w", apperrors.ErrInvalidOperation)
	}

	trade := &models.Trade{
		ItemID:      itemID,
		RequesterID: requesterID,
		OwnerID:     item.OwnerID,
		Status:      models.TradeRequested,
	}
	if err := e.store.CreateTrade(ctx, trade); err != nil {
		return nil, err
	}
	return trade, nil
}

// UpdateStatus applies a lifecycle transition on behalf of actorID. The
// storage write is a compare-and-swap on the status the rules were checked
// against, so a transition that lost a race fails with ErrConflict instead
// of silently overwriting.
func (e *Engine) UpdateStatus(ctx context.Context, actorID, tradeID uuid.UUID, newStatus string) (*models.Trade, error) {
	switch newStatus {
	case models.TradeAccepted, models.TradeRejected, models.TradeCompleted:
	default:
		return nil, fmt.Errorf("invalid trade status %q: %w", newStatus, apperrors.ErrInvalidArgument)
	}

	trade, err := e.store.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if !trade.IsParticipant(actorID) {
		return nil, fmt.Errorf("not a trade participant: %w", apperrors.ErrForbidden)
	}

	switch newStatus {
	case models.TradeAccepted, models.TradeRejected:
		if trade.OwnerID != actorID {
			return nil, fmt.Errorf("only the item owner can accept or reject: %w", apperrors.ErrForbidden)
		}
		if trade.Status != models.TradeRequested {
			return nil, fmt.Errorf("trade is not pending: %w", apperrors.ErrForbidden)
		}
	case models.TradeCompleted:
		if trade.Status != models.TradeAccepted {
			return nil, fmt.Errorf("trade is not accepted: %w", apperrors.ErrForbidden)
		}
	}

	updated, err := e.store.UpdateTradeStatus(ctx, tradeID, trade.Status, newStatus)
	if err != nil {
		return nil, err
	}

	// A completed trade takes the item off the market.
	if newStatus == models.TradeCompleted {
		if err := e.store.SetItemStatus(ctx, updated.ItemID, models.ItemSold); err != nil {
			log.Printf("mark item %s sold for trade %s: %v", updated.ItemID, updated.ID, err)
		}
	}

	return updated, nil
}

// ListForUser returns every trade the user participates in, newest first.
func (e *Engine) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Trade, error) {
	return e.store.GetTradesForUser(ctx, userID)
}

// Get returns the trade joined with its item and full conversation.
// Only participants may see it.
func (e *Engine) Get(ctx context.Context, actorID, tradeID uuid.UUID) (*models.TradeDetail, error) {
	trade, err := e.store.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if !trade.IsParticipant(actorID) {
		return nil, fmt.Errorf("not a trade participant: %w", apperrors.ErrForbidden)
	}

	item, err := e.store.GetItem(ctx, trade.ItemID)
	if err != nil {
		return nil, err
	}
	messages, err := e.store.GetMessages(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []models.Message{}
	}

	return &models.TradeDetail{Trade: *trade, Item: item, Messages: messages}, nil
}

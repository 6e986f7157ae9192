// Package storage defines the persistence interface the services depend on,
// together with its PostgreSQL and in-memory implementations. Services never
// see a concrete backend; everything is injected through Storage.
package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/gearswap/gearswap-api/internal/models"
)

// ItemFilters narrows GetItems. Zero values mean "no filter". Search is a
// case-insensitive substring match over title and description. Proximity
// filtering is not a storage concern; it runs in the item service on top of
// the rows returned here.
type ItemFilters struct {
	Category string
	Search   string
	Status   string
}

// Storage is the full persistence capability set: user, item, trade and
// message CRUD plus query-by-filter.
//
// Create methods assign the entity's ID and CreatedAt and write them back
// into the passed struct.
type Storage interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, upd models.UserUpdate) (*models.User, error)

	// Items
	GetItems(ctx context.Context, filters ItemFilters) ([]models.Item, error)
	GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error)
	CreateItem(ctx context.Context, item *models.Item) error
	UpdateItem(ctx context.Context, id uuid.UUID, upd models.ItemUpdate) (*models.Item, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	SetItemStatus(ctx context.Context, id uuid.UUID, status string) error

	// Trades
	CreateTrade(ctx context.Context, trade *models.Trade) error
	GetTrade(ctx context.Context, id uuid.UUID) (*models.Trade, error)
	GetTradesForUser(ctx context.Context, userID uuid.UUID) ([]models.Trade, error)
	// UpdateTradeStatus is a compare-and-swap: the row is updated only when
	// its current status equals expectedStatus. A trade that moved in the
	// meantime surfaces apperrors.ErrConflict, an unknown id ErrNotFound.
	UpdateTradeStatus(ctx context.Context, id uuid.UUID, expectedStatus, newStatus string) (*models.Trade, error)

	// Messages
	CreateMessage(ctx context.Context, msg *models.Message) error
	GetMessages(ctx context.Context, tradeID uuid.UUID) ([]models.Message, error)
}

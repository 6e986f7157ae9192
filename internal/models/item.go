package models

import (
	"time"

	"github.com/google/uuid"
)

// Item status values. An item becomes sold when a trade on it completes,
// not by a direct owner edit.
const (
	ItemAvailable = "available"
	ItemSold      = "sold"
)

// Item represents gear listed for trade.
type Item struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Images      []string  `json:"images"`
	Status      string    `json:"status"`
	Location    string    `json:"location,omitempty"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ItemUpdate carries the fields an owner may change on a listing.
// Nil pointers mean "leave as is".
type ItemUpdate struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Images      *[]string `json:"images"`
	Location    *string   `json:"location"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
}

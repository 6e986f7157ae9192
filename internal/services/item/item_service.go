package item

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/gearswap/gearswap-api/internal/apperrors"
	"github.com/gearswap/gearswap-api/internal/geo"
	"github.com/gearswap/gearswap-api/internal/middleware"
	"github.com/gearswap/gearswap-api/internal/models"
	"github.com/gearswap/gearswap-api/internal/storage"
)

// ItemService exposes listing CRUD and the filtered public browse endpoint.
type ItemService struct {
	store storage.Storage
}

// NewItemService creates a new ItemService on top of the given storage.
func NewItemService(store storage.Storage) *ItemService {
	return &ItemService{store: store}
}

// GetItems handles GET /api/items. Category, search and availability are
// applied by storage; the radius filter runs here on top of that set and is
// active only when lat, lng and radius are all present.
func (s *ItemService) GetItems(c fiber.Ctx) error {
	filters := storage.ItemFilters{
		Status:   models.ItemAvailable,
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}

	latStr, lngStr, radiusStr := c.Query("lat"), c.Query("lng"), c.Query("radius")
	radiusActive := latStr != "" && lngStr != "" && radiusStr != ""

	var lat, lng, radius float64
	if radiusActive {
		var err error
		if lat, err = strconv.ParseFloat(latStr, 64); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid lat"})
		}
		if lng, err = strconv.ParseFloat(lngStr, 64); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid lng"})
		}
		if radius, err = strconv.ParseFloat(radiusStr, 64); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid radius"})
		}
	}

	items, err := s.store.GetItems(c.Context(), filters)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	if radiusActive {
		items = geo.FilterByRadius(items, lat, lng, radius)
	}
	if items == nil {
		items = []models.Item{}
	}

	return c.JSON(items)
}

// GetItem handles GET /api/items/:id.
func (s *ItemService) GetItem(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "item not found"})
	}

	item, err := s.store.GetItem(c.Context(), id)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	return c.JSON(item)
}

// CreateItem handles POST /api/items.
func (s *ItemService) CreateItem(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	var requestData struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Category    string   `json:"category"`
		Images      []string `json:"images"`
		Location    string   `json:"location"`
		Latitude    *float64 `json:"latitude"`
		Longitude   *float64 `json:"longitude"`
	}
	if err := c.Bind().Body(&requestData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if strings.TrimSpace(requestData.Title) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title is required"})
	}
	if strings.TrimSpace(requestData.Description) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "description is required"})
	}
	if strings.TrimSpace(requestData.Category) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "category is required"})
	}

	item := &models.Item{
		OwnerID:     userID,
		Title:       requestData.Title,
		Description: requestData.Description,
		Category:    requestData.Category,
		Images:      requestData.Images,
		Status:      models.ItemAvailable,
		Location:    requestData.Location,
		Latitude:    requestData.Latitude,
		Longitude:   requestData.Longitude,
	}
	if err := s.store.CreateItem(c.Context(), item); err != nil {
		return apperrors.Respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

// UpdateItem handles PATCH /api/items/:id. Owner only.
func (s *ItemService) UpdateItem(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "item not found"})
	}

	existing, err := s.store.GetItem(c.Context(), id)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	if existing.OwnerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	}

	var upd models.ItemUpdate
	if err := c.Bind().Body(&upd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	item, err := s.store.UpdateItem(c.Context(), id, upd)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	return c.JSON(item)
}

// DeleteItem handles DELETE /api/items/:id. Owner only.
func (s *ItemService) DeleteItem(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "item not found"})
	}

	existing, err := s.store.GetItem(c.Context(), id)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	if existing.OwnerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	}

	if err := s.store.DeleteItem(c.Context(), id); err != nil {
		return apperrors.Respond(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

package item

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gearswap/gearswap-api/internal/models"
	"github.com/gearswap/gearswap-api/internal/storage"
)

// fakeAuth injects a fixed user id, standing in for the JWT middleware.
func fakeAuth(userID uuid.UUID) fiber.Handler {
	return func(c fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	}
}

func newTestApp(t *testing.T) (*fiber.App, *storage.MemoryStorage, *models.User) {
	t.Helper()
	store := storage.NewMemoryStorage()

	owner := &models.User{Username: "guitar_hero", PasswordHash: "x"}
	require.NoError(t, store.CreateUser(context.Background(), owner))

	app := fiber.New()
	NewItemService(store).SetupRoutes(app, fakeAuth(owner.ID))
	return app, store, owner
}

func seedItem(t *testing.T, store *storage.MemoryStorage, owner *models.User, title string, lat, lng float64) *models.Item {
	t.Helper()
	it := &models.Item{
		OwnerID:     owner.ID,
		Title:       title,
		Description: "seeded",
		Category:    "Music",
		Latitude:    &lat,
		Longitude:   &lng,
	}
	require.NoError(t, store.CreateItem(context.Background(), it))
	return it
}

func decodeItems(t *testing.T, resp *http.Response) []models.Item {
	t.Helper()
	var items []models.Item
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	return items
}

func TestGetItemsRadiusFilter(t *testing.T) {
	app, store, owner := newTestApp(t)

	brooklyn := seedItem(t, store, owner, "Canon AE-1", 40.6782, -73.9442)
	_ = seedItem(t, store, owner, "Leica M3", 34.0522, -118.2437) // Los Angeles

	// Manhattan origin, 10 mile radius: Brooklyn in, LA out.
	req := httptest.NewRequest(http.MethodGet, "/api/items?lat=40.7128&lng=-74.0060&radius=10", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	items := decodeItems(t, resp)
	require.Len(t, items, 1)
	assert.Equal(t, brooklyn.ID, items[0].ID)

	// 1 mile radius excludes Brooklyn too.
	req = httptest.NewRequest(http.MethodGet, "/api/items?lat=40.7128&lng=-74.0060&radius=1", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Empty(t, decodeItems(t, resp))
}

func TestGetItemsRadiusExcludesItemsWithoutCoordinates(t *testing.T) {
	app, store, owner := newTestApp(t)

	noCoords := &models.Item{OwnerID: owner.ID, Title: "No location", Description: "x", Category: "Music"}
	require.NoError(t, store.CreateItem(context.Background(), noCoords))

	// Without a radius filter the item shows up.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/items", nil))
	require.NoError(t, err)
	assert.Len(t, decodeItems(t, resp), 1)

	// With a radius filter it is excluded.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/items?lat=40.7&lng=-74.0&radius=10000", nil))
	require.NoError(t, err)
	assert.Empty(t, decodeItems(t, resp))
}

func TestGetItemsInvalidCoordinates(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/items?lat=abc&lng=-74.0&radius=10", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetItemsHidesSold(t *testing.T) {
	app, store, owner := newTestApp(t)

	it := seedItem(t, store, owner, "Strat", 40.7, -74.0)
	require.NoError(t, store.SetItemStatus(context.Background(), it.ID, models.ItemSold))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/items", nil))
	require.NoError(t, err)
	assert.Empty(t, decodeItems(t, resp))
}

func TestCreateItem(t *testing.T) {
	app, _, owner := newTestApp(t)

	body, _ := json.Marshal(map[string]any{
		"title":       "Fender Stratocaster 1998",
		"description": "Classic sunburst, good condition.",
		"category":    "Music",
		"images":      []string{"https://example.com/strat.jpg"},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Item
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, owner.ID, created.OwnerID)
	assert.Equal(t, models.ItemAvailable, created.Status)
}

func TestCreateItemValidation(t *testing.T) {
	app, _, _ := newTestApp(t)

	body, _ := json.Marshal(map[string]any{"description": "no title", "category": "Music"})
	req := httptest.NewRequest(http.MethodPost, "/api/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateItemOwnership(t *testing.T) {
	app, store, owner := newTestApp(t)
	ctx := context.Background()

	other := &models.User{Username: "camera_fan", PasswordHash: "x"}
	require.NoError(t, store.CreateUser(ctx, other))
	foreign := &models.Item{OwnerID: other.ID, Title: "Not yours", Description: "x", Category: "Tech"}
	require.NoError(t, store.CreateItem(ctx, foreign))

	body, _ := json.Marshal(map[string]any{"title": "hijacked"})
	req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/api/items/%s", foreign.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The owner succeeds.
	mine := &models.Item{OwnerID: owner.ID, Title: "Mine", Description: "x", Category: "Tech"}
	require.NoError(t, store.CreateItem(ctx, mine))
	req = httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/api/items/%s", mine.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDeleteItem(t *testing.T) {
	app, store, owner := newTestApp(t)
	ctx := context.Background()

	it := &models.Item{OwnerID: owner.ID, Title: "Mine", Description: "x", Category: "Tech"}
	require.NoError(t, store.CreateItem(ctx, it))

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/items/%s", it.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/items/%s", it.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetItemNotFound(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/items/"+uuid.NewString(), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

package user

import (
	"github.com/gofiber/fiber/v3"

	"github.com/gearswap/gearswap-api/internal/apperrors"
	"github.com/gearswap/gearswap-api/internal/middleware"
	"github.com/gearswap/gearswap-api/internal/models"
	"github.com/gearswap/gearswap-api/internal/storage"
)

// UserService exposes the profile endpoints.
type UserService struct {
	store storage.Storage
}

// NewUserService creates a new UserService on top of the given storage.
func NewUserService(store storage.Storage) *UserService {
	return &UserService{store: store}
}

// Me handles GET /api/users/me.
func (s *UserService) Me(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	user, err := s.store.GetUser(c.Context(), userID)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	return c.JSON(user)
}

// UpdateMe handles PATCH /api/users/me. Only the profile owner reaches this
// handler; the id comes from the token, never from the request.
func (s *UserService) UpdateMe(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	var upd models.UserUpdate
	if err := c.Bind().Body(&upd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	user, err := s.store.UpdateUser(c.Context(), userID, upd)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	return c.JSON(user)
}

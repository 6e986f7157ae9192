package auth

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/crypto/bcrypt"

	"github.com/gearswap/gearswap-api/internal/apperrors"
	"github.com/gearswap/gearswap-api/internal/models"
	"github.com/gearswap/gearswap-api/internal/session"
	"github.com/gearswap/gearswap-api/internal/storage"
	"github.com/gearswap/gearswap-api/internal/utils"
)

// AuthService handles signup, login and logout.
type AuthService struct {
	store      storage.Storage
	sessions   session.Store
	jwtService *utils.JWTService
}

// NewAuthService creates a new AuthService.
func NewAuthService(store storage.Storage, sessions session.Store, jwtService *utils.JWTService) *AuthService {
	return &AuthService{store: store, sessions: sessions, jwtService: jwtService}
}

// GetJWTService exposes the token service for middleware wiring.
func (s *AuthService) GetJWTService() *utils.JWTService {
	return s.jwtService
}

// Signup handles POST /api/auth/signup.
func (s *AuthService) Signup(c fiber.Ctx) error {
	var requestData struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Email    string `json:"email"`
		Bio      string `json:"bio"`
		Location string `json:"location"`
	}
	if err := c.Bind().Body(&requestData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if requestData.Username == "" || requestData.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "username and password are required"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(requestData.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	user := &models.User{
		Username:     requestData.Username,
		PasswordHash: string(hash),
		Email:        requestData.Email,
		Bio:          requestData.Bio,
		Location:     requestData.Location,
	}
	if err := s.store.CreateUser(c.Context(), user); err != nil {
		return apperrors.Respond(c, err)
	}

	token, err := s.issueToken(c, user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user, "token": token})
}

// Login handles POST /api/auth/login.
func (s *AuthService) Login(c fiber.Ctx) error {
	var requestData struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind().Body(&requestData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	user, err := s.store.GetUserByUsername(c.Context(), requestData.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
		}
		return apperrors.Respond(c, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(requestData.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	}

	token, err := s.issueToken(c, user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(fiber.Map{"user": user, "token": token})
}

// Logout handles POST /api/auth/logout. Revokes the current session so the
// token stops working before it expires.
func (s *AuthService) Logout(c fiber.Ctx) error {
	sessionID, _ := c.Locals("sessionID").(string)
	if sessionID != "" {
		if err := s.sessions.Delete(c.Context(), sessionID); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
		}
	}
	return c.JSON(fiber.Map{"message": "logged out"})
}

func (s *AuthService) issueToken(c fiber.Ctx, user *models.User) (string, error) {
	sid, err := s.sessions.Create(c.Context(), user.ID.String())
	if err != nil {
		return "", err
	}
	return s.jwtService.GenerateToken(user.ID, sid)
}

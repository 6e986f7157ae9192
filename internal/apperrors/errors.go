// Package apperrors defines the error taxonomy shared by all services.
// Storage and domain code return these sentinels (usually wrapped with
// context via fmt.Errorf and %w); the HTTP layer maps them to status codes.
package apperrors

import (
	"errors"

	"github.com/gofiber/fiber/v3"
)

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when an authenticated user is not authorized
// for the entity or transition in question.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized is returned when no valid identity is present.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalidArgument is returned for malformed or empty input.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrInvalidOperation is returned for semantically disallowed actions,
// e.g. requesting a trade on your own item.
var ErrInvalidOperation = errors.New("invalid operation")

// ErrConflict is returned when a status transition lost a concurrent race
// or a uniqueness constraint was violated.
var ErrConflict = errors.New("conflict")

// Respond writes the JSON error body for err with its mapped status code.
// Internal errors are masked; taxonomy errors carry their message through.
func Respond(c fiber.Ctx, err error) error {
	code := StatusCode(err)
	msg := err.Error()
	if code == fiber.StatusInternalServerError {
		msg = "internal server error"
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}

// StatusCode maps a taxonomy error to its HTTP status. Anything outside
// the taxonomy is treated as an internal error.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrInvalidOperation):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

package handlers

import (
	"errors"

	"github.com/dlGuiri/Dental-Lens/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// serviceError maps service sentinel errors onto HTTP responses so
// every handler surfaces persistence failures the same way.
func serviceError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrEmptyContent),
		errors.Is(err, services.ErrInvalidParticipants),
		errors.Is(err, services.ErrInvalidTimeRange),
		errors.Is(err, services.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrNotParticipant):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrSlotTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fallback})
}

func currentUser(c *fiber.Ctx) (uuid.UUID, string) {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	rawID, _ := claims["user_id"].(string)
	userID, _ := uuid.Parse(rawID)
	role, _ := claims["role"].(string)
	return userID, role
}

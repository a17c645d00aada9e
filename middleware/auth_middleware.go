package middleware

import (
	config "github.com/dlGuiri/Dental-Lens/configs"
	"github.com/dlGuiri/Dental-Lens/models"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
)

// Areas of the application. Every guard goes through RoleAllowed so
// the access rules live in exactly one place.
const (
	AreaPublic  = "public"
	AreaShared  = "shared"
	AreaPatient = "patient"
	AreaDentist = "dentist"
)

// RoleAllowed is the single routing policy: it decides whether a
// request in the given authentication state may enter an area.
func RoleAllowed(authenticated bool, role, area string) bool {
	if !authenticated {
		return area == AreaPublic
	}
	switch area {
	case AreaPublic:
		return true
	case AreaShared:
		return role == models.RolePatient || role == models.RoleDentist
	case AreaPatient:
		return role == models.RolePatient
	case AreaDentist:
		return role == models.RoleDentist
	}
	return false
}

func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(config.Config("JWT_SECRET")),
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT", "data": nil})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT", "data": nil})
}

func requireArea(area string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Locals("user").(*jwt.Token)
		claims := token.Claims.(jwt.MapClaims)
		role, _ := claims["role"].(string)

		if !RoleAllowed(true, role, area) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: " + area + " access required",
			})
		}
		return c.Next()
	}
}

func DentistRequired() fiber.Handler {
	return requireArea(AreaDentist)
}

func PatientRequired() fiber.Handler {
	return requireArea(AreaPatient)
}

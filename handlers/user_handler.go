package handlers

import (
	"github.com/dlGuiri/Dental-Lens/database"
	"github.com/dlGuiri/Dental-Lens/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func GetMe(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	var user models.User
	if err := database.DB.Preload("ScanRecords").First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	return c.JSON(user)
}

func GetUserByID(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var user models.User
	if err := database.DB.Preload("ScanRecords").First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	return c.JSON(user)
}

// GetAllUsers is the dentist's patient roster.
func GetAllUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := database.DB.Preload("ScanRecords").Order("created_at DESC").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch users"})
	}
	return c.JSON(users)
}

func GetUserCount(c *fiber.Ctx) error {
	var count int64
	if err := database.DB.Model(&models.User{}).Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to count users"})
	}
	return c.JSON(fiber.Map{"count": count})
}

// GetDentists lists the dentists a patient can book or message.
func GetDentists(c *fiber.Ctx) error {
	var dentists []models.User
	if err := database.DB.Where("role = ?", models.RoleDentist).Order("name ASC").Find(&dentists).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch dentists"})
	}
	return c.JSON(dentists)
}

func UpdateUser(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	type Request struct {
		Name        *string `json:"name"`
		AvatarURL   *string `json:"avatar_url"`
		TeethStatus *string `json:"teeth_status"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = *req.AvatarURL
	}
	if req.TeethStatus != nil {
		updates["teeth_status"] = *req.TeethStatus
	}
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Nothing to update"})
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user"})
	}
	return c.JSON(user)
}

func DeleteUser(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	if err := database.DB.Delete(&models.User{}, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete user"})
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

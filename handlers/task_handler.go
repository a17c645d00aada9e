package handlers

import (
	"strconv"
	"time"

	"github.com/dlGuiri/Dental-Lens/database"
	"github.com/dlGuiri/Dental-Lens/models"
	"github.com/dlGuiri/Dental-Lens/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Description string `json:"description" validate:"required"`
	Type        string `json:"type"`
	DateID      string `json:"date_id" validate:"required"`
	DueDate     string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

func CreateTask(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	task := models.Task{
		UserID:      userID,
		Description: req.Description,
		Type:        req.Type,
		DateID:      req.DateID,
	}
	if req.DueDate != "" {
		dueDate, _ := time.Parse("2006-01-02", req.DueDate)
		task.DueDate = &dueDate
	}

	if err := services.CreateTask(database.DB, &task); err != nil {
		return serviceError(c, err, "Failed to create task")
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

func UpdateTask(c *fiber.Ctx) error {
	taskID, err := uuid.Parse(c.Params("taskId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	type Request struct {
		Description *string `json:"description"`
		Type        *string `json:"type"`
		Completed   *bool   `json:"completed"`
		DateID      *string `json:"date_id"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	updates := map[string]interface{}{}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Completed != nil {
		updates["completed"] = *req.Completed
	}
	if req.DateID != nil {
		updates["date_id"] = *req.DateID
	}
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Nothing to update"})
	}

	task, err := services.UpdateTask(database.DB, taskID, updates)
	if err != nil {
		return serviceError(c, err, "Failed to update task")
	}
	return c.JSON(task)
}

func DeleteTask(c *fiber.Ctx) error {
	taskID, err := uuid.Parse(c.Params("taskId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	if err := services.DeleteTask(database.DB, taskID); err != nil {
		return serviceError(c, err, "Failed to delete task")
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

func ToggleTaskComplete(c *fiber.Ctx) error {
	taskID, err := uuid.Parse(c.Params("taskId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	task, err := services.ToggleTaskComplete(database.DB, taskID)
	if err != nil {
		return serviceError(c, err, "Failed to toggle task")
	}
	return c.JSON(task)
}

func GetTasksByDate(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	tasks, err := services.GetTasksByUserAndDate(database.DB, userID, c.Params("dateId"))
	if err != nil {
		return serviceError(c, err, "Failed to fetch tasks")
	}
	return c.JSON(tasks)
}

func GetTasksByMonth(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	month, err := strconv.Atoi(c.Params("month"))
	if err != nil || month < 0 || month > 11 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Month must be a zero-based index from 0 to 11"})
	}
	year, _ := strconv.Atoi(c.Query("year", strconv.Itoa(time.Now().Year())))

	tasks, err := services.GetTasksByUserAndMonth(database.DB, userID, month, year)
	if err != nil {
		return serviceError(c, err, "Failed to fetch tasks")
	}
	return c.JSON(tasks)
}

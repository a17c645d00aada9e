package routes

import (
	"github.com/dlGuiri/Dental-Lens/handlers"
	"github.com/dlGuiri/Dental-Lens/middleware"
	"github.com/gofiber/fiber/v2"
)

func TaskRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	tasks := api.Group("/tasks", middleware.Protected())
	tasks.Post("", handlers.CreateTask)
	tasks.Patch("/:taskId", handlers.UpdateTask)
	tasks.Delete("/:taskId", handlers.DeleteTask)
	tasks.Post("/:taskId/toggle", handlers.ToggleTaskComplete)
	tasks.Get("/date/:dateId", handlers.GetTasksByDate)
	tasks.Get("/month/:month", handlers.GetTasksByMonth)
}

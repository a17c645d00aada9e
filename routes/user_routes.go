package routes

import (
	"github.com/dlGuiri/Dental-Lens/handlers"
	"github.com/dlGuiri/Dental-Lens/middleware"
	"github.com/gofiber/fiber/v2"
)

func UserRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	users := api.Group("/users", middleware.Protected())
	users.Get("/me", handlers.GetMe)
	users.Patch("/me", handlers.UpdateUser)
	users.Delete("/me", handlers.DeleteUser)
	users.Get("/count", middleware.DentistRequired(), handlers.GetUserCount)
	users.Get("", middleware.DentistRequired(), handlers.GetAllUsers)
	users.Get("/:userId", handlers.GetUserByID)

	api.Get("/dentists", middleware.Protected(), handlers.GetDentists)
}

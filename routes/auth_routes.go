package routes

import (
	"github.com/dlGuiri/Dental-Lens/handlers"
	"github.com/dlGuiri/Dental-Lens/middleware"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.RegisterUser)
	auth.Post("/login", handlers.LoginUser)
	auth.Post("/role", middleware.Protected(), handlers.UpdateRole)
}

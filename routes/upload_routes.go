package routes

import (
	"github.com/dlGuiri/Dental-Lens/handlers"
	"github.com/dlGuiri/Dental-Lens/middleware"
	"github.com/gofiber/fiber/v2"
)

func UploadRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/uploads/signature", middleware.Protected(), handlers.GenerateUploadSignature)
}

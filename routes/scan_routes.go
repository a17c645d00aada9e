package routes

import (
	"github.com/dlGuiri/Dental-Lens/handlers"
	"github.com/dlGuiri/Dental-Lens/middleware"
	"github.com/dlGuiri/Dental-Lens/services"
	"github.com/gofiber/fiber/v2"
)

func ScanRoutes(app *fiber.App, inference *services.InferenceClient) {
	api := app.Group("/api/v1")
	scan := handlers.NewScanHandler(inference)

	scans := api.Group("/scans", middleware.Protected())
	scans.Get("", scan.GetMyScanRecords)
	scans.Post("", scan.CreateScanRecord)
	scans.Patch("/:recordId", scan.UpdateScanRecord)
	scans.Delete("/:recordId", scan.DeleteScanRecord)
	scans.Post("/analyze", scan.AnalyzeScan)
	scans.Post("/explain", scan.ExplainScan)
	scans.Post("/:recordId/report", scan.GenerateReport)

	api.Post("/assistant/chat", middleware.Protected(), scan.AssistantChat)
}

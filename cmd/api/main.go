package main

import (
	"log"
	"time"

	config "github.com/dlGuiri/Dental-Lens/configs"
	"github.com/dlGuiri/Dental-Lens/database"
	"github.com/dlGuiri/Dental-Lens/jobs"
	"github.com/dlGuiri/Dental-Lens/notifications"
	"github.com/dlGuiri/Dental-Lens/routes"
	"github.com/dlGuiri/Dental-Lens/services"
	"github.com/dlGuiri/Dental-Lens/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	database.SeedDentist()
	notifications.InitEmailService()

	c := cron.New()
	c.AddFunc("*/5 * * * *", jobs.SendAppointmentReminders)
	c.AddFunc("0 8 * * *", jobs.SendTaskDigests)
	go c.Start()
	log.Println("✅ Reminder cron jobs scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "Dental Lens",
		CaseSensitive:     true,
		StrictRouting:     true,
		EnablePrintRoutes: true,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to Dental Lens API",
		})
	})

	hub := websocket.NewHub(database.DB)
	go hub.Run()

	inference := services.NewInferenceClient()

	routes.AuthRoutes(app)
	routes.UserRoutes(app)
	routes.ChatRoutes(app, hub)
	routes.TaskRoutes(app)
	routes.AppointmentRoutes(app)
	routes.ScanRoutes(app, inference)
	routes.UploadRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	port := config.Config("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("✅ Server is running on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}

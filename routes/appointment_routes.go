package routes

import (
	"github.com/dlGuiri/Dental-Lens/handlers"
	"github.com/dlGuiri/Dental-Lens/middleware"
	"github.com/gofiber/fiber/v2"
)

func AppointmentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	appointments := api.Group("/appointments", middleware.Protected())
	appointments.Get("/me", handlers.GetMyAppointments)
	appointments.Post("", middleware.PatientRequired(), handlers.CreateAppointment)
	appointments.Post("/:appointmentId/cancel", handlers.CancelAppointment)
	appointments.Post("/:appointmentId/confirm", middleware.DentistRequired(), handlers.ConfirmAppointment)
	appointments.Post("/:appointmentId/complete", middleware.DentistRequired(), handlers.CompleteAppointment)
}

package handlers

import (
	"time"

	"github.com/dlGuiri/Dental-Lens/database"
	"github.com/dlGuiri/Dental-Lens/models"
	"github.com/dlGuiri/Dental-Lens/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateAppointmentRequest struct {
	DentistID string  `json:"dentist_id" validate:"required,uuid"`
	StartTime string  `json:"start_time" validate:"required"`
	EndTime   string  `json:"end_time" validate:"required"`
	Reason    *string `json:"reason"`
}

func CreateAppointment(c *fiber.Ctx) error {
	patientID, _ := currentUser(c)

	var req CreateAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	dentistID, _ := uuid.Parse(req.DentistID)
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start_time must be RFC3339"})
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "end_time must be RFC3339"})
	}

	appointment, err := services.CreateAppointment(database.DB, patientID, dentistID, start, end, req.Reason)
	if err != nil {
		return serviceError(c, err, "Failed to create appointment")
	}
	return c.Status(fiber.StatusCreated).JSON(appointment)
}

func GetMyAppointments(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	appointments, err := services.GetUserAppointments(database.DB, userID)
	if err != nil {
		return serviceError(c, err, "Failed to fetch appointments")
	}
	return c.JSON(appointments)
}

func setStatusHandler(status string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actorID, _ := currentUser(c)

		appointmentID, err := uuid.Parse(c.Params("appointmentId"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid appointment ID"})
		}

		type Request struct {
			Notes *string `json:"notes"`
		}
		var req Request
		_ = c.BodyParser(&req) // body is optional

		appointment, err := services.SetAppointmentStatus(database.DB, appointmentID, actorID, status, req.Notes)
		if err != nil {
			return serviceError(c, err, "Failed to update appointment")
		}
		return c.JSON(appointment)
	}
}

var (
	ConfirmAppointment  = setStatusHandler(models.AppointmentConfirmed)
	CompleteAppointment = setStatusHandler(models.AppointmentCompleted)
	CancelAppointment   = setStatusHandler(models.AppointmentCancelled)
)

package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/dlGuiri/Dental-Lens/database"
	"github.com/dlGuiri/Dental-Lens/models"
	"github.com/dlGuiri/Dental-Lens/notifications"
	"github.com/dlGuiri/Dental-Lens/utils"
	"gorm.io/gorm"
)

// appointmentsNeedingReminder returns confirmed appointments starting
// within [now+60m, now+65m). The upper bound is exclusive: an
// appointment landing exactly on a boundary belongs to the next run's
// window, never to both.
func appointmentsNeedingReminder(db *gorm.DB, now time.Time) ([]models.Appointment, error) {
	lowerBound := now.Add(60 * time.Minute)
	upperBound := now.Add(65 * time.Minute)

	var upcoming []models.Appointment
	err := db.
		Preload("Patient").
		Preload("Dentist").
		Where("status = ? AND start_time >= ? AND start_time < ?", models.AppointmentConfirmed, lowerBound, upperBound).
		Find(&upcoming).Error
	return upcoming, err
}

// SendAppointmentReminders emails both parties of appointments
// starting roughly an hour from now. Runs every 5 minutes, so the
// 60-65 minute window catches each appointment exactly once.
func SendAppointmentReminders() {
	log.Println("Running job: SendAppointmentReminders...")

	upcoming, err := appointmentsNeedingReminder(database.DB, time.Now())
	if err != nil {
		log.Printf("Error checking for upcoming appointments: %v", err)
		return
	}

	for _, appointment := range upcoming {
		log.Printf("Sending reminder for appointment ID: %s", appointment.ID)

		emailSubject := "Reminder: Your Dental Appointment Starts in 1 Hour!"
		emailBody := fmt.Sprintf(
			"<h1>Appointment Reminder</h1><p>Hi there,</p><p>This is a friendly reminder that your appointment is scheduled for %s.</p>",
			appointment.StartTime.Format(time.Kitchen),
		)

		go notifications.SendEmail(appointment.Patient.Name, appointment.Patient.Email, emailSubject, emailBody)
		go notifications.SendEmail(appointment.Dentist.Name, appointment.Dentist.Email, emailSubject, emailBody)
	}
}

// SendTaskDigests emails each user a morning summary of their
// unfinished care tasks for today.
func SendTaskDigests() {
	log.Println("Running job: SendTaskDigests...")

	todayID := utils.DateIDForTime(time.Now())

	var tasks []models.Task
	err := database.DB.
		Preload("User").
		Where("date_id = ? AND completed = ?", todayID, false).
		Order("user_id").
		Find(&tasks).Error
	if err != nil {
		log.Printf("Error fetching today's tasks: %v", err)
		return
	}

	byUser := make(map[string][]models.Task)
	for _, task := range tasks {
		byUser[task.UserID.String()] = append(byUser[task.UserID.String()], task)
	}

	for _, userTasks := range byUser {
		user := userTasks[0].User

		list := ""
		for _, task := range userTasks {
			list += fmt.Sprintf("<li>%s</li>", task.Description)
		}
		emailBody := fmt.Sprintf(
			"<h1>Your Care Tasks for Today</h1><p>You have %d task(s) waiting:</p><ul>%s</ul>",
			len(userTasks), list,
		)

		go notifications.SendEmail(user.Name, user.Email, "Today's Dental Care Tasks", emailBody)
	}
}

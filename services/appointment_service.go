package services

import (
	"errors"
	"time"

	"github.com/dlGuiri/Dental-Lens/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func CreateAppointment(db *gorm.DB, patientID, dentistID uuid.UUID, start, end time.Time, reason *string) (*models.Appointment, error) {
	if !end.After(start) {
		return nil, ErrInvalidTimeRange
	}

	var appointment models.Appointment
	err := db.Transaction(func(tx *gorm.DB) error {
		var dentist models.User
		if err := tx.First(&dentist, "id = ? AND role = ?", dentistID, models.RoleDentist).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var overlapping int64
		if err := tx.Model(&models.Appointment{}).
			Where("dentist_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
				dentistID,
				[]string{models.AppointmentPending, models.AppointmentConfirmed},
				end, start).
			Count(&overlapping).Error; err != nil {
			return err
		}
		if overlapping > 0 {
			return ErrSlotTaken
		}

		appointment = models.Appointment{
			PatientID: patientID,
			DentistID: dentistID,
			StartTime: start,
			EndTime:   end,
			Status:    models.AppointmentPending,
			Reason:    reason,
		}
		return tx.Create(&appointment).Error
	})
	if err != nil {
		return nil, err
	}

	return &appointment, nil
}

func GetUserAppointments(db *gorm.DB, userID uuid.UUID) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := db.Preload("Patient").Preload("Dentist").
		Where("patient_id = ? OR dentist_id = ?", userID, userID).
		Order("start_time ASC").
		Find(&appointments).Error
	return appointments, err
}

// SetAppointmentStatus moves an appointment into the given status.
// Only the owning dentist may confirm or complete; either party may
// cancel.
func SetAppointmentStatus(db *gorm.DB, appointmentID, actorID uuid.UUID, status string, notes *string) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := db.First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	switch status {
	case models.AppointmentConfirmed, models.AppointmentCompleted:
		if appointment.DentistID != actorID {
			return nil, ErrNotFound
		}
	case models.AppointmentCancelled:
		if appointment.DentistID != actorID && appointment.PatientID != actorID {
			return nil, ErrNotFound
		}
	default:
		return nil, ErrInvalidStatus
	}

	updates := map[string]interface{}{"status": status}
	if notes != nil {
		updates["dentist_notes"] = *notes
	}
	if err := db.Model(&appointment).Updates(updates).Error; err != nil {
		return nil, err
	}
	appointment.Status = status
	if notes != nil {
		appointment.DentistNotes = notes
	}
	return &appointment, nil
}

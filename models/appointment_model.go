package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCancelled = "cancelled"
	AppointmentCompleted = "completed"
)

type Appointment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	DentistID uuid.UUID `gorm:"type:uuid;not null;index" json:"dentist_id"`
	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`
	Status    string    `gorm:"size:20;not null;default:'pending'" json:"status"`

	Reason       *string `gorm:"type:text" json:"reason"`
	DentistNotes *string `gorm:"type:text" json:"dentist_notes"`

	Patient User `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Dentist User `gorm:"foreignKey:DentistID" json:"dentist,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

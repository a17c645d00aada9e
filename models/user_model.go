package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RolePatient = "patient"
	RoleDentist = "dentist"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"size:255;not null" json:"name"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"size:20;not null;default:'patient'" json:"role"`

	AvatarURL   *string `gorm:"size:255" json:"avatar_url"`
	TeethStatus *string `gorm:"size:255" json:"teeth_status"`

	ScanRecords   []ScanRecord    `gorm:"foreignKey:UserID" json:"scan_records,omitempty"`
	Conversations []*Conversation `gorm:"many2many:conversation_participants;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DateID is the calendar key the clients index by: day concatenated
// with the zero-based month ("15"+"0" for January 15th). DueDate
// carries the real timestamp so the string key can be retired later.
type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Type        string     `gorm:"size:50" json:"type"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	DateID      string     `gorm:"size:8;not null;index" json:"date_id"`
	DueDate     *time.Time `json:"due_date"`

	User User `gorm:"foreignKey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

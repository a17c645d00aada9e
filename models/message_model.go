package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Seq is the per-conversation insertion sequence. Ordering by
// (created_at, seq) stays stable when two messages land within the
// same second.
type Message struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index" json:"conversation_id"`
	SenderID       uuid.UUID `gorm:"type:uuid;not null" json:"sender_id"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	IsRead         bool      `gorm:"not null;default:false" json:"is_read"`
	Seq            int64     `gorm:"not null;index" json:"seq"`

	Sender User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

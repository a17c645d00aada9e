package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ParticipantKey holds the sorted participant IDs joined with ":".
// The unique index on it is what guarantees at most one conversation
// per distinct participant set, even under concurrent creation.
type Conversation struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ParticipantKey string     `gorm:"size:512;not null;uniqueIndex" json:"-"`
	LastMessageID  *uuid.UUID `gorm:"type:uuid" json:"last_message_id"`

	Participants []*User   `gorm:"many2many:conversation_participants;" json:"participants,omitempty"`
	LastMessage  *Message  `gorm:"foreignKey:LastMessageID" json:"last_message,omitempty"`
	Messages     []Message `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

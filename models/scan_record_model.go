package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScanRecord struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	Date                 *string  `gorm:"size:30" json:"date"`
	Notes                []string `gorm:"serializer:json" json:"notes"`
	ImageURLs            []string `gorm:"serializer:json" json:"image_urls"`
	LimeVisualizationURL *string  `gorm:"size:512" json:"lime_visualization_url"`
	Result               []string `gorm:"serializer:json" json:"result"`
	ReportURL            *string  `gorm:"size:512" json:"report_url"`

	User User `gorm:"foreignKey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *ScanRecord) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

package store

import (
	"time"

	"gorm.io/datatypes"
)

// DocumentModel stores one collection document per row.
type DocumentModel struct {
	Name      string         `gorm:"primaryKey"`
	// json rather than jsonb so the stored bytes round-trip unchanged.
	Document  datatypes.JSON `gorm:"type:json;not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}

func (DocumentModel) TableName() string {
	return "forum_documents"
}

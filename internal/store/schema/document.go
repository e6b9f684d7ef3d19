package schema

import (
	"time"

	"gorm.io/datatypes"
)

// Document is one JSON document of a named collection
type Document struct {
	Collection string         `gorm:"primaryKey;type:text"`
	ID         string         `gorm:"primaryKey;type:text"`
	Data       datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
}

func (Document) TableName() string {
	return "documents"
}

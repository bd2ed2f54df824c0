package models

import (
	"time"

	"centavo/internal/uuid"

	"gorm.io/gorm"
)

// Base contains the columns shared by all tables. Deletes in this
// application are hard deletes, so there is no deleted_at column.
type Base struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}

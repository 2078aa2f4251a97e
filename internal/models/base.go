package models

import (
	"time"

	"apexfund/internal/uuid"

	"gorm.io/gorm"
)

// Base contains the columns shared by mutable records. IDs are UUIDv7 so that
// ordering by id matches creation order.
type Base struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	b.AssignID()
	return nil
}

// AssignID sets a fresh id when none is present. Adapters that do not go
// through gorm call it directly.
func (b *Base) AssignID() {
	if b.ID == "" {
		b.ID = uuid.New()
	}
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// TraderModel mirrors the 'traders' table. One row per email exists globally;
// every manufacturer that adds the trader appears in Manufacturers, and every
// product shared with the trader in Products.
type TraderModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Title         string    `gorm:"type:varchar(255);not null"`
	Email         string    `gorm:"type:varchar(255);unique;not null"`
	Address       string    `gorm:"type:text"`
	Manufacturers UUIDSlice `gorm:"type:jsonb;not null;default:'[]'"`
	Products      UUIDSlice `gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName explicitly sets the table name for GORM.
func (TraderModel) TableName() string {
	return "traders"
}

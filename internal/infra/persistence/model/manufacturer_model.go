package model

import (
	"time"

	"github.com/google/uuid"
)

// ManufacturerModel mirrors the 'manufacturers' table. The Traders and
// Products arrays are one half of bidirectional relations; the reciprocal
// halves live on TraderModel and ProductModel.
type ManufacturerModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	Address     string    `gorm:"type:text"`
	OwnerUserID uuid.UUID `gorm:"type:uuid;not null;index"`
	AdminUserID uuid.UUID `gorm:"type:uuid;not null"`
	Traders     UUIDSlice `gorm:"type:jsonb;not null;default:'[]'"`
	Products    UUIDSlice `gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (ManufacturerModel) TableName() string {
	return "manufacturers"
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// TraderDashboardModel mirrors the 'trader_dashboards' table, one row per
// Trader-role user. Manufacturers is a snapshot, not a synchronized mirror.
type TraderDashboardModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Title         string    `gorm:"type:varchar(255);not null"`
	Description   string    `gorm:"type:text"`
	Address       string    `gorm:"type:text"`
	UserID        uuid.UUID `gorm:"type:uuid;unique;not null"`
	AdminUserID   uuid.UUID `gorm:"type:uuid;not null"`
	Manufacturers UUIDSlice `gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName explicitly sets the table name for GORM.
func (TraderDashboardModel) TableName() string {
	return "trader_dashboards"
}

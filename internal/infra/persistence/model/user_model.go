package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
type UserModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name          string    `gorm:"type:varchar(100);not null"`
	Email         string    `gorm:"type:varchar(255);unique;not null"`
	MobileNo      string    `gorm:"type:varchar(30)"`
	PasswordHash  string    `gorm:"type:varchar(255);not null"`
	Role          string    `gorm:"type:varchar(20);not null"`
	Image         string    `gorm:"type:varchar(512)"`
	Folder        string    `gorm:"type:varchar(255)"`
	Manufacturers UUIDSlice `gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

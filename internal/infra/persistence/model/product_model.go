package model

import (
	"time"

	"github.com/google/uuid"
)

// ProductModel mirrors the 'products' table. The five document columns hold
// blob keys; the file basename inside the product folder matches the column
// name, which download resolution relies on.
type ProductModel struct {
	ID             uuid.UUID   `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Folder         string      `gorm:"type:varchar(512)"`
	Title          string      `gorm:"type:varchar(255);not null"`
	Description    string      `gorm:"type:text"`
	Price          string      `gorm:"type:varchar(100)"`
	Category       string      `gorm:"type:varchar(100);index"`
	Image          string      `gorm:"type:varchar(512)"`
	COA            string      `gorm:"column:coa;type:varchar(512)"`
	MSDS           string      `gorm:"column:msds;type:varchar(512)"`
	CEP            string      `gorm:"column:cep;type:varchar(512)"`
	QOS            string      `gorm:"column:qos;type:varchar(512)"`
	Impurities     string      `gorm:"type:text"`
	RefStandards   string      `gorm:"type:text"`
	DMF            StringSlice `gorm:"column:dmf;type:jsonb;not null;default:'[]'"`
	Pharmacopoeias StringSlice `gorm:"type:jsonb;not null;default:'[]'"`
	ManufacturerID uuid.UUID   `gorm:"type:uuid;not null;index"`
	Traders        UUIDSlice   `gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}

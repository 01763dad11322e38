package entity

import (
	"time"

	"github.com/google/uuid"
)

// Trader is a buyer entity shared across manufacturers. One trader entity per
// email exists globally; manufacturers that add the trader link themselves
// into Manufacturers, and the products they expose to the trader into
// Products. Both sets have reciprocal halves on Manufacturer and Product.
type Trader struct {
	ID            uuid.UUID
	Title         string
	Email         string // Unique across traders; also the email of the paired Trader-role user.
	Address       string
	Manufacturers RefSet // Mirror of Manufacturer.Traders.
	Products      RefSet // Mirror of Product.Traders.
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

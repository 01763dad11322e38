package entity

import (
	"time"

	"github.com/google/uuid"
)

// Manufacturer is a supplier listing owned by exactly one Manufacturer-role
// user. Its Traders and Products sets are the manufacturer-side halves of the
// trader and product relations; the reciprocal halves live on Trader and
// Product and must stay symmetric.
type Manufacturer struct {
	ID          uuid.UUID
	Title       string
	Description string
	Address     string
	OwnerUserID uuid.UUID // The Manufacturer-role user that owns this listing.
	AdminUserID uuid.UUID // The platform admin resolved by well-known email at creation.
	Traders     RefSet    // Trader entities linked to this manufacturer. Mirror of Trader.Manufacturers.
	Products    RefSet    // Products owned by this manufacturer. Mirror of Product.ManufacturerID containment.
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

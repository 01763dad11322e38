package entity

import (
	"time"

	"github.com/google/uuid"
)

// TraderDashboard is the supplementary profile a Trader-role user maintains
// for themselves, one-to-one with the Trader entity through the shared email.
//
// Manufacturers is a snapshot of the trader's manufacturer links taken at
// creation. It is not kept in sync by trader mutations; callers refresh it
// explicitly through the refresh operation.
type TraderDashboard struct {
	ID            uuid.UUID
	Title         string
	Description   string
	Address       string
	UserID        uuid.UUID // The Trader-role user this profile belongs to.
	AdminUserID   uuid.UUID
	Manufacturers RefSet
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

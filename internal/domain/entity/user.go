package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the credential-bearing account in the system. Every principal that
// can call a mutating operation is a User; trader entities get a paired
// Trader-role User created alongside them.
type User struct {
	ID            uuid.UUID // The unique identifier for the user.
	Name          string    // The user's display name, also used as their blob folder segment.
	Email         string    // Unique login identifier.
	MobileNo      string    // Contact number captured at signup.
	PasswordHash  string    // Hashed credential; never exposed outside the credential service.
	Role          Role      // Fixed at creation, either Manufacturer or Trader.
	Image         string    // Blob key of the profile image, empty when none was uploaded.
	Folder        string    // Blob folder chosen at signup.
	Manufacturers RefSet    // Manufacturer listings associated to this account. Only the platform admin accumulates these.
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

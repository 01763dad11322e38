// Package entity contains the core business objects of the project.
package entity

// Role represents the type of account a user holds in the marketplace.
type Role string

const (
	// RoleManufacturer indicates an account that owns a manufacturer listing.
	RoleManufacturer Role = "Manufacturer"
	// RoleTrader indicates an account paired with a trader entity.
	RoleTrader Role = "Trader"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleManufacturer, RoleTrader:
		return true
	default:
		return false
	}
}

package repository

import (
	"context"
	"errors"

	"tradeport/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrManufacturerNotFound is returned when a manufacturer lookup misses.
var ErrManufacturerNotFound = errors.New("manufacturer not found")

// ManufacturerRepository defines the persistence operations for manufacturers.
type ManufacturerRepository interface {
	// FindByID retrieves a single manufacturer by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Manufacturer, error)

	// FindByOwner retrieves the manufacturer owned by the given user.
	FindByOwner(ctx context.Context, ownerUserID uuid.UUID) (*entity.Manufacturer, error)

	// FindByIDs retrieves the manufacturers whose IDs are in the given set,
	// in no particular order. Missing IDs are skipped, not an error.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Manufacturer, error)

	// List retrieves a title-sorted page of manufacturers plus the total count.
	List(ctx context.Context, page, size int) ([]*entity.Manufacturer, int64, error)

	// Create persists a new manufacturer.
	Create(ctx context.Context, manufacturer *entity.Manufacturer) error

	// Update modifies an existing manufacturer, reference sets included.
	Update(ctx context.Context, manufacturer *entity.Manufacturer) error

	// Delete removes a manufacturer.
	Delete(ctx context.Context, id uuid.UUID) error
}

package repository

import (
	"context"
	"errors"

	"tradeport/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrProductNotFound is returned when a product lookup misses.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the persistence operations for products.
type ProductRepository interface {
	// FindByID retrieves a single product by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// FindByIDs retrieves the products whose IDs are in the given set.
	// Missing IDs are skipped, not an error.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Product, error)

	// FindByManufacturerAndTitle retrieves the product with an exact title
	// under the given manufacturer, or ErrProductNotFound.
	FindByManufacturerAndTitle(ctx context.Context, manufacturerID uuid.UUID, title string) (*entity.Product, error)

	// FindByFileKey retrieves the product whose named document slot stores
	// the given blob key.
	FindByFileKey(ctx context.Context, field entity.FileField, key string) (*entity.Product, error)

	// ListByManufacturer retrieves a title-sorted page of the manufacturer's
	// products in a category plus the total count. An empty category matches all.
	ListByManufacturer(ctx context.Context, manufacturerID uuid.UUID, category string, page, size int) ([]*entity.Product, int64, error)

	// ListByTrader retrieves a page of the products linked to a trader in a
	// category plus the total count.
	ListByTrader(ctx context.Context, traderID uuid.UUID, category string, page, size int) ([]*entity.Product, int64, error)

	// ListByTraderAndManufacturer retrieves a title-sorted page of the
	// products linked to a trader AND owned by a manufacturer, plus the total.
	ListByTraderAndManufacturer(ctx context.Context, traderID, manufacturerID uuid.UUID, category string, page, size int) ([]*entity.Product, int64, error)

	// Create persists a new product.
	Create(ctx context.Context, product *entity.Product) error

	// Update modifies an existing product, reference sets included.
	Update(ctx context.Context, product *entity.Product) error

	// Delete removes a product.
	Delete(ctx context.Context, id uuid.UUID) error
}

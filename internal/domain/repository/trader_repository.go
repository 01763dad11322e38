package repository

import (
	"context"
	"errors"

	"tradeport/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrTraderNotFound is returned when a trader lookup misses.
var ErrTraderNotFound = errors.New("trader not found")

// TraderRepository defines the persistence operations for traders.
type TraderRepository interface {
	// FindByID retrieves a single trader by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Trader, error)

	// FindByEmail retrieves a single trader by its unique email.
	FindByEmail(ctx context.Context, email string) (*entity.Trader, error)

	// FindByTitle retrieves the traders matching an exact title.
	FindByTitle(ctx context.Context, title string) ([]*entity.Trader, error)

	// FindByIDs retrieves traders whose IDs are in the given set.
	// Missing IDs are skipped, not an error.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Trader, error)

	// ListPageByIDs retrieves a title-sorted page out of the given ID set.
	ListPageByIDs(ctx context.Context, ids []uuid.UUID, page, size int) ([]*entity.Trader, error)

	// ListNotLinkedTo retrieves the traders not yet linked to the given
	// manufacturer, title-sorted.
	ListNotLinkedTo(ctx context.Context, manufacturerID uuid.UUID) ([]*entity.Trader, error)

	// List retrieves a title-sorted page of all traders plus the total count.
	List(ctx context.Context, page, size int) ([]*entity.Trader, int64, error)

	// Create persists a new trader.
	Create(ctx context.Context, trader *entity.Trader) error

	// Update modifies an existing trader, reference sets included.
	Update(ctx context.Context, trader *entity.Trader) error

	// Delete removes a trader.
	Delete(ctx context.Context, id uuid.UUID) error
}

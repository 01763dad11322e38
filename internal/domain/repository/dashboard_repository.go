package repository

import (
	"context"
	"errors"

	"tradeport/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrTraderDashboardNotFound is returned when a dashboard lookup misses.
var ErrTraderDashboardNotFound = errors.New("trader dashboard not found")

// TraderDashboardRepository defines the persistence operations for the
// supplementary trader profile records.
type TraderDashboardRepository interface {
	// FindByID retrieves a single dashboard by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.TraderDashboard, error)

	// FindByUserID retrieves the dashboard belonging to a Trader-role user.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.TraderDashboard, error)

	// Create persists a new dashboard.
	Create(ctx context.Context, dashboard *entity.TraderDashboard) error

	// Update modifies an existing dashboard.
	Update(ctx context.Context, dashboard *entity.TraderDashboard) error

	// Delete removes a dashboard.
	Delete(ctx context.Context, id uuid.UUID) error
}

package usecase

import (
	"context"

	"tradeport/internal/domain/entity"
	"tradeport/internal/domain/service"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// CreateManufacturerInput defines the data required to create a manufacturer listing.
type CreateManufacturerInput struct {
	Title       string
	Description string
	Address     string
}

// UpdateManufacturerInput defines the mutable manufacturer fields.
type UpdateManufacturerInput struct {
	Title       string
	Description string
	Address     string
}

// --- Output DTOs ---

// ManufacturerPage is a paginated manufacturer listing.
type ManufacturerPage struct {
	Items []*entity.Manufacturer
	Total int64
}

// ManufacturerUsecase defines the interface for manufacturer lifecycle operations.
type ManufacturerUsecase interface {
	Create(ctx context.Context, auth *service.AuthContext, input *CreateManufacturerInput) (*entity.Manufacturer, error)
	Update(ctx context.Context, auth *service.AuthContext, id uuid.UUID, input *UpdateManufacturerInput) (*entity.Manufacturer, error)
	Delete(ctx context.Context, auth *service.AuthContext, id uuid.UUID) error

	GetByID(ctx context.Context, id uuid.UUID) (*entity.Manufacturer, error)
	GetByOwner(ctx context.Context, ownerUserID uuid.UUID) (*entity.Manufacturer, error)
	ListForAdmin(ctx context.Context, adminUserID uuid.UUID) ([]*entity.Manufacturer, error)
	List(ctx context.Context, page, size int) (*ManufacturerPage, error)
}

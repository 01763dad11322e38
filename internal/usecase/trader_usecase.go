package usecase

import (
	"context"

	"tradeport/internal/domain/entity"
	"tradeport/internal/domain/service"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// CreateTraderInput defines the data required to add a trader to the acting
// manufacturer. ProductRefs lists the manufacturer's products to share.
type CreateTraderInput struct {
	Title       string
	Email       string
	Address     string
	ProductRefs []uuid.UUID
}

// UpdateTraderInput defines a trader update scoped to the acting manufacturer.
// ProductRefs is the complete desired set of the manufacturer's products for
// this trader; the diff against the current scoped set drives linking. An
// email change is propagated to the paired trader login account.
type UpdateTraderInput struct {
	Title       string
	Email       string
	Address     string
	ProductRefs []uuid.UUID
}

// DashboardInput defines the mutable trader dashboard fields.
type DashboardInput struct {
	Title       string
	Description string
	Address     string
}

// --- Output DTOs ---

// CreateTraderOutput returns the trader plus, for a brand-new trader, the
// generated plaintext credential. The credential is never retrievable again;
// it is empty when an existing trader was attached.
type CreateTraderOutput struct {
	Trader            *entity.Trader
	GeneratedPassword string
}

// TraderPage is a paginated trader listing.
type TraderPage struct {
	Items []*entity.Trader
	Total int64
}

// TraderUsecase defines the interface for trader lifecycle operations,
// including the supplementary dashboard profile.
type TraderUsecase interface {
	Create(ctx context.Context, auth *service.AuthContext, input *CreateTraderInput) (*CreateTraderOutput, error)
	Update(ctx context.Context, auth *service.AuthContext, id uuid.UUID, input *UpdateTraderInput) (*entity.Trader, error)
	Delete(ctx context.Context, auth *service.AuthContext, id uuid.UUID) error

	GetByID(ctx context.Context, id uuid.UUID) (*entity.Trader, error)
	GetByName(ctx context.Context, name string) ([]*entity.Trader, error)
	ListAvailable(ctx context.Context, actingUserID uuid.UUID) ([]*entity.Trader, error)
	ListByManufacturer(ctx context.Context, ownerUserID uuid.UUID, page, size int) (*TraderPage, error)
	List(ctx context.Context, page, size int) (*TraderPage, error)

	CreateDashboard(ctx context.Context, auth *service.AuthContext, input *DashboardInput) (*entity.TraderDashboard, error)
	UpdateDashboard(ctx context.Context, auth *service.AuthContext, input *DashboardInput) (*entity.TraderDashboard, error)
	GetDashboard(ctx context.Context, userID uuid.UUID) (*entity.TraderDashboard, error)
	RefreshDashboardManufacturers(ctx context.Context, auth *service.AuthContext) (*entity.TraderDashboard, error)
}

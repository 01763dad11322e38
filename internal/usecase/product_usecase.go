package usecase

import (
	"context"
	"io"

	"tradeport/internal/domain/entity"
	"tradeport/internal/domain/service"

	"github.com/google/uuid"
)

// FileClearSentinel is the submitted value that clears a stored file field on
// update instead of retaining it.
const FileClearSentinel = "null"

// --- Input DTOs ---

// ProductFields holds the scalar and list fields shared by create and update.
type ProductFields struct {
	Title          string
	Description    string
	Price          string
	Category       string
	Impurities     string
	RefStandards   string
	DMF            []string
	Pharmacopoeias []string
	Folder         string
}

// CreateProductInput defines the data required to create a product. At most
// one upload per document slot.
type CreateProductInput struct {
	ProductFields
	Files map[entity.FileField]*FileUpload
}

// UpdateProductInput defines a product update. Files carries fresh uploads;
// FileValues carries the submitted textual value per slot for fields without
// an upload (the FileClearSentinel clears, anything else retains).
type UpdateProductInput struct {
	ProductFields
	Files      map[entity.FileField]*FileUpload
	FileValues map[entity.FileField]string
}

// --- Output DTOs ---

// ProductPage is a paginated product listing.
type ProductPage struct {
	Items []*entity.Product
	Total int64
}

// DownloadOutput streams one stored product document.
type DownloadOutput struct {
	Key     string
	Content io.ReadCloser
}

// ProductUsecase defines the interface for product lifecycle operations.
type ProductUsecase interface {
	Create(ctx context.Context, auth *service.AuthContext, input *CreateProductInput) (*entity.Product, error)
	Update(ctx context.Context, auth *service.AuthContext, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error)
	Delete(ctx context.Context, auth *service.AuthContext, id uuid.UUID) error

	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	ListByManufacturer(ctx context.Context, ownerUserID uuid.UUID, category string, page, size int) (*ProductPage, error)
	ListForTrader(ctx context.Context, traderEmail string, category string, page, size int) (*ProductPage, error)
	ListForTraderScopedToManufacturer(ctx context.Context, traderID, actingUserID uuid.UUID, category string, page, size int) (*ProductPage, error)

	ResolveDownload(ctx context.Context, fileKey string) (*DownloadOutput, error)
}

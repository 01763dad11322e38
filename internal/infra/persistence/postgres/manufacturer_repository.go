package postgres

import (
	"context"

	"tradeport/internal/domain/entity"
	domainerrors "tradeport/internal/domain/errors"
	"tradeport/internal/domain/repository"
	"tradeport/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// manufacturerRepository implements the domain.ManufacturerRepository interface using GORM.
type manufacturerRepository struct {
	db *gorm.DB
}

// NewManufacturerRepository is the constructor for manufacturerRepository.
func NewManufacturerRepository(db *gorm.DB) repository.ManufacturerRepository {
	return &manufacturerRepository{db: db}
}

// FindByID retrieves a single manufacturer by its unique ID.
func (repo *manufacturerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Manufacturer, error) {
	var manufacturerM model.ManufacturerModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&manufacturerM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrManufacturerNotFound
		}

		return nil, errors.Wrap(err, "failed to find manufacturer by id")
	}

	return toManufacturerDomain(&manufacturerM), nil
}

// FindByOwner retrieves the manufacturer owned by the given user.
func (repo *manufacturerRepository) FindByOwner(ctx context.Context, ownerUserID uuid.UUID) (*entity.Manufacturer, error) {
	var manufacturerM model.ManufacturerModel
	if err := repo.db.WithContext(ctx).Where("owner_user_id = ?", ownerUserID).First(&manufacturerM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrManufacturerNotFound
		}

		return nil, errors.Wrap(err, "failed to find manufacturer by owner")
	}

	return toManufacturerDomain(&manufacturerM), nil
}

// FindByIDs retrieves the manufacturers whose IDs are in the given set.
func (repo *manufacturerRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Manufacturer, error) {
	if len(ids) == 0 {
		return []*entity.Manufacturer{}, nil
	}

	var manufacturerMs []model.ManufacturerModel
	if err := repo.db.WithContext(ctx).Where("id IN ?", ids).Find(&manufacturerMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find manufacturers by ids")
	}

	return toManufacturerDomains(manufacturerMs), nil
}

// List retrieves a title-sorted page of manufacturers plus the total count.
func (repo *manufacturerRepository) List(ctx context.Context, page, size int) ([]*entity.Manufacturer, int64, error) {
	var total int64
	if err := repo.db.WithContext(ctx).Model(&model.ManufacturerModel{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count manufacturers")
	}

	var manufacturerMs []model.ManufacturerModel
	if err := repo.db.WithContext(ctx).
		Order("title ASC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&manufacturerMs).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list manufacturers")
	}

	return toManufacturerDomains(manufacturerMs), total, nil
}

// Create persists a new manufacturer.
func (repo *manufacturerRepository) Create(ctx context.Context, manufacturer *entity.Manufacturer) error {
	manufacturerM := fromManufacturerDomain(manufacturer)

	if err := repo.db.WithContext(ctx).Create(manufacturerM).Error; err != nil {
		if isNotNullConstraintViolation(err) {
			return domainerrors.NewValidationError("missing required manufacturer information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create manufacturer")
	}

	manufacturer.ID = manufacturerM.ID
	manufacturer.CreatedAt = manufacturerM.CreatedAt
	manufacturer.UpdatedAt = manufacturerM.UpdatedAt

	return nil
}

// Update modifies an existing manufacturer, reference sets included.
func (repo *manufacturerRepository) Update(ctx context.Context, manufacturer *entity.Manufacturer) error {
	manufacturerM := fromManufacturerDomain(manufacturer)

	if err := repo.db.WithContext(ctx).Save(manufacturerM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update manufacturer")
	}

	manufacturer.UpdatedAt = manufacturerM.UpdatedAt

	return nil
}

// Delete removes a manufacturer row by ID.
func (repo *manufacturerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ManufacturerModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete manufacturer")
	}
	if result.RowsAffected == 0 {
		return repository.ErrManufacturerNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toManufacturerDomain converts a GORM ManufacturerModel to a domain entity.
func toManufacturerDomain(data *model.ManufacturerModel) *entity.Manufacturer {
	if data == nil {
		return nil
	}

	return &entity.Manufacturer{
		ID:          data.ID,
		Title:       data.Title,
		Description: data.Description,
		Address:     data.Address,
		OwnerUserID: data.OwnerUserID,
		AdminUserID: data.AdminUserID,
		Traders:     entity.RefSet(data.Traders),
		Products:    entity.RefSet(data.Products),
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func toManufacturerDomains(data []model.ManufacturerModel) []*entity.Manufacturer {
	manufacturers := make([]*entity.Manufacturer, 0, len(data))
	for i := range data {
		manufacturers = append(manufacturers, toManufacturerDomain(&data[i]))
	}

	return manufacturers
}

// fromManufacturerDomain converts a domain entity to a GORM ManufacturerModel.
func fromManufacturerDomain(data *entity.Manufacturer) *model.ManufacturerModel {
	if data == nil {
		return nil
	}

	return &model.ManufacturerModel{
		ID:          data.ID,
		Title:       data.Title,
		Description: data.Description,
		Address:     data.Address,
		OwnerUserID: data.OwnerUserID,
		AdminUserID: data.AdminUserID,
		Traders:     model.UUIDSlice(data.Traders),
		Products:    model.UUIDSlice(data.Products),
		CreatedAt:   data.CreatedAt,
	}
}

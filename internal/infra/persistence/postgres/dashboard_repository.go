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

// traderDashboardRepository implements the domain.TraderDashboardRepository interface using GORM.
type traderDashboardRepository struct {
	db *gorm.DB
}

// NewTraderDashboardRepository is the constructor for traderDashboardRepository.
func NewTraderDashboardRepository(db *gorm.DB) repository.TraderDashboardRepository {
	return &traderDashboardRepository{db: db}
}

// FindByID retrieves a single dashboard by its unique ID.
func (repo *traderDashboardRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.TraderDashboard, error) {
	var dashboardM model.TraderDashboardModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&dashboardM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTraderDashboardNotFound
		}

		return nil, errors.Wrap(err, "failed to find trader dashboard by id")
	}

	return toTraderDashboardDomain(&dashboardM), nil
}

// FindByUserID retrieves the dashboard belonging to a Trader-role user.
func (repo *traderDashboardRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.TraderDashboard, error) {
	var dashboardM model.TraderDashboardModel
	if err := repo.db.WithContext(ctx).Where("user_id = ?", userID).First(&dashboardM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTraderDashboardNotFound
		}

		return nil, errors.Wrap(err, "failed to find trader dashboard by user")
	}

	return toTraderDashboardDomain(&dashboardM), nil
}

// Create persists a new dashboard.
func (repo *traderDashboardRepository) Create(ctx context.Context, dashboard *entity.TraderDashboard) error {
	dashboardM := fromTraderDashboardDomain(dashboard)

	if err := repo.db.WithContext(ctx).Create(dashboardM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrTraderAlreadyExists.WrapMessage("dashboard already exists for user")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.NewValidationError("missing required dashboard information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create trader dashboard")
	}

	dashboard.ID = dashboardM.ID
	dashboard.CreatedAt = dashboardM.CreatedAt
	dashboard.UpdatedAt = dashboardM.UpdatedAt

	return nil
}

// Update modifies an existing dashboard.
func (repo *traderDashboardRepository) Update(ctx context.Context, dashboard *entity.TraderDashboard) error {
	dashboardM := fromTraderDashboardDomain(dashboard)

	if err := repo.db.WithContext(ctx).Save(dashboardM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update trader dashboard")
	}

	dashboard.UpdatedAt = dashboardM.UpdatedAt

	return nil
}

// Delete removes a dashboard row by ID.
func (repo *traderDashboardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.TraderDashboardModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete trader dashboard")
	}
	if result.RowsAffected == 0 {
		return repository.ErrTraderDashboardNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toTraderDashboardDomain converts a GORM TraderDashboardModel to a domain entity.
func toTraderDashboardDomain(data *model.TraderDashboardModel) *entity.TraderDashboard {
	if data == nil {
		return nil
	}

	return &entity.TraderDashboard{
		ID:            data.ID,
		Title:         data.Title,
		Description:   data.Description,
		Address:       data.Address,
		UserID:        data.UserID,
		AdminUserID:   data.AdminUserID,
		Manufacturers: entity.RefSet(data.Manufacturers),
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

// fromTraderDashboardDomain converts a domain entity to a GORM TraderDashboardModel.
func fromTraderDashboardDomain(data *entity.TraderDashboard) *model.TraderDashboardModel {
	if data == nil {
		return nil
	}

	return &model.TraderDashboardModel{
		ID:            data.ID,
		Title:         data.Title,
		Description:   data.Description,
		Address:       data.Address,
		UserID:        data.UserID,
		AdminUserID:   data.AdminUserID,
		Manufacturers: model.UUIDSlice(data.Manufacturers),
		CreatedAt:     data.CreatedAt,
	}
}

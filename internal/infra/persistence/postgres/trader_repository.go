package postgres

import (
	"context"
	"fmt"

	"tradeport/internal/domain/entity"
	domainerrors "tradeport/internal/domain/errors"
	"tradeport/internal/domain/repository"
	"tradeport/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// traderRepository implements the domain.TraderRepository interface using GORM.
type traderRepository struct {
	db *gorm.DB
}

// NewTraderRepository is the constructor for traderRepository.
func NewTraderRepository(db *gorm.DB) repository.TraderRepository {
	return &traderRepository{db: db}
}

// jsonbContains builds a JSONB containment argument matching a single UUID
// member of an array column.
func jsonbContains(id uuid.UUID) string {
	return fmt.Sprintf(`["%s"]`, id.String())
}

// FindByID retrieves a single trader by its unique ID.
func (repo *traderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Trader, error) {
	var traderM model.TraderModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&traderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTraderNotFound
		}

		return nil, errors.Wrap(err, "failed to find trader by id")
	}

	return toTraderDomain(&traderM), nil
}

// FindByEmail retrieves a single trader by its unique email.
func (repo *traderRepository) FindByEmail(ctx context.Context, email string) (*entity.Trader, error) {
	var traderM model.TraderModel
	if err := repo.db.WithContext(ctx).Where("email = ?", email).First(&traderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTraderNotFound
		}

		return nil, errors.Wrap(err, "failed to find trader by email")
	}

	return toTraderDomain(&traderM), nil
}

// FindByTitle retrieves the traders matching an exact title.
func (repo *traderRepository) FindByTitle(ctx context.Context, title string) ([]*entity.Trader, error) {
	var traderMs []model.TraderModel
	if err := repo.db.WithContext(ctx).Where("title = ?", title).Find(&traderMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find traders by title")
	}

	return toTraderDomains(traderMs), nil
}

// FindByIDs retrieves traders whose IDs are in the given set.
func (repo *traderRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Trader, error) {
	if len(ids) == 0 {
		return []*entity.Trader{}, nil
	}

	var traderMs []model.TraderModel
	if err := repo.db.WithContext(ctx).Where("id IN ?", ids).Find(&traderMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find traders by ids")
	}

	return toTraderDomains(traderMs), nil
}

// ListPageByIDs retrieves a title-sorted page out of the given ID set.
func (repo *traderRepository) ListPageByIDs(ctx context.Context, ids []uuid.UUID, page, size int) ([]*entity.Trader, error) {
	if len(ids) == 0 {
		return []*entity.Trader{}, nil
	}

	var traderMs []model.TraderModel
	if err := repo.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("title ASC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&traderMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list traders by ids")
	}

	return toTraderDomains(traderMs), nil
}

// ListNotLinkedTo retrieves the traders not yet linked to the given manufacturer.
func (repo *traderRepository) ListNotLinkedTo(ctx context.Context, manufacturerID uuid.UUID) ([]*entity.Trader, error) {
	var traderMs []model.TraderModel
	if err := repo.db.WithContext(ctx).
		Where("NOT (manufacturers @> ?)", jsonbContains(manufacturerID)).
		Order("title ASC").
		Find(&traderMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list unlinked traders")
	}

	return toTraderDomains(traderMs), nil
}

// List retrieves a title-sorted page of all traders plus the total count.
func (repo *traderRepository) List(ctx context.Context, page, size int) ([]*entity.Trader, int64, error) {
	var total int64
	if err := repo.db.WithContext(ctx).Model(&model.TraderModel{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count traders")
	}

	var traderMs []model.TraderModel
	if err := repo.db.WithContext(ctx).
		Order("title ASC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&traderMs).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list traders")
	}

	return toTraderDomains(traderMs), total, nil
}

// Create persists a new trader.
func (repo *traderRepository) Create(ctx context.Context, trader *entity.Trader) error {
	traderM := fromTraderDomain(trader)

	if err := repo.db.WithContext(ctx).Create(traderM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrTraderAlreadyExists.WrapMessage("trader email already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.NewValidationError("missing required trader information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create trader")
	}

	trader.ID = traderM.ID
	trader.CreatedAt = traderM.CreatedAt
	trader.UpdatedAt = traderM.UpdatedAt

	return nil
}

// Update modifies an existing trader, reference sets included.
func (repo *traderRepository) Update(ctx context.Context, trader *entity.Trader) error {
	traderM := fromTraderDomain(trader)

	if err := repo.db.WithContext(ctx).Save(traderM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrTraderAlreadyExists.WrapMessage("trader email already exists")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update trader")
	}

	trader.UpdatedAt = traderM.UpdatedAt

	return nil
}

// Delete removes a trader row by ID.
func (repo *traderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.TraderModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete trader")
	}
	if result.RowsAffected == 0 {
		return repository.ErrTraderNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toTraderDomain converts a GORM TraderModel to a domain entity.
func toTraderDomain(data *model.TraderModel) *entity.Trader {
	if data == nil {
		return nil
	}

	return &entity.Trader{
		ID:            data.ID,
		Title:         data.Title,
		Email:         data.Email,
		Address:       data.Address,
		Manufacturers: entity.RefSet(data.Manufacturers),
		Products:      entity.RefSet(data.Products),
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

func toTraderDomains(data []model.TraderModel) []*entity.Trader {
	traders := make([]*entity.Trader, 0, len(data))
	for i := range data {
		traders = append(traders, toTraderDomain(&data[i]))
	}

	return traders
}

// fromTraderDomain converts a domain entity to a GORM TraderModel.
func fromTraderDomain(data *entity.Trader) *model.TraderModel {
	if data == nil {
		return nil
	}

	return &model.TraderModel{
		ID:            data.ID,
		Title:         data.Title,
		Email:         data.Email,
		Address:       data.Address,
		Manufacturers: model.UUIDSlice(data.Manufacturers),
		Products:      model.UUIDSlice(data.Products),
		CreatedAt:     data.CreatedAt,
	}
}

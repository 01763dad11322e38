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

// productRepository implements the domain.ProductRepository interface using GORM.
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

// FindByID retrieves a single product by its unique ID.
func (repo *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var productM model.ProductModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&productM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product by id")
	}

	return toProductDomain(&productM), nil
}

// FindByIDs retrieves the products whose IDs are in the given set.
func (repo *productRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return []*entity.Product{}, nil
	}

	var productMs []model.ProductModel
	if err := repo.db.WithContext(ctx).Where("id IN ?", ids).Find(&productMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find products by ids")
	}

	return toProductDomains(productMs), nil
}

// FindByManufacturerAndTitle retrieves the product with an exact title under
// the given manufacturer.
func (repo *productRepository) FindByManufacturerAndTitle(ctx context.Context, manufacturerID uuid.UUID, title string) (*entity.Product, error) {
	var productM model.ProductModel
	if err := repo.db.WithContext(ctx).
		Where("manufacturer_id = ? AND title = ?", manufacturerID, title).
		First(&productM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product by manufacturer and title")
	}

	return toProductDomain(&productM), nil
}

// FindByFileKey retrieves the product whose named document column stores the
// given blob key. The column set is closed, so the field name can be spliced
// into the query after validation.
func (repo *productRepository) FindByFileKey(ctx context.Context, field entity.FileField, key string) (*entity.Product, error) {
	if !field.IsValid() {
		return nil, repository.ErrProductNotFound
	}

	var productM model.ProductModel
	if err := repo.db.WithContext(ctx).
		Where(fmt.Sprintf("%s = ?", string(field)), key).
		First(&productM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product by file key")
	}

	return toProductDomain(&productM), nil
}

// ListByManufacturer retrieves a title-sorted page of the manufacturer's
// products in a category plus the total count.
func (repo *productRepository) ListByManufacturer(ctx context.Context, manufacturerID uuid.UUID, category string, page, size int) ([]*entity.Product, int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.ProductModel{}).Where("manufacturer_id = ?", manufacturerID)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	return repo.listPage(query, page, size)
}

// ListByTrader retrieves a title-sorted page of the products linked to a
// trader in a category plus the total count.
func (repo *productRepository) ListByTrader(ctx context.Context, traderID uuid.UUID, category string, page, size int) ([]*entity.Product, int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.ProductModel{}).Where("traders @> ?", jsonbContains(traderID))
	if category != "" {
		query = query.Where("category = ?", category)
	}

	return repo.listPage(query, page, size)
}

// ListByTraderAndManufacturer retrieves a title-sorted page of the products
// linked to a trader AND owned by a manufacturer, plus the total count.
func (repo *productRepository) ListByTraderAndManufacturer(ctx context.Context, traderID, manufacturerID uuid.UUID, category string, page, size int) ([]*entity.Product, int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.ProductModel{}).
		Where("manufacturer_id = ?", manufacturerID).
		Where("traders @> ?", jsonbContains(traderID))
	if category != "" {
		query = query.Where("category = ?", category)
	}

	return repo.listPage(query, page, size)
}

// listPage applies count plus title-sorted pagination to a filtered query.
func (repo *productRepository) listPage(query *gorm.DB, page, size int) ([]*entity.Product, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count products")
	}

	var productMs []model.ProductModel
	if err := query.
		Order("title ASC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&productMs).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list products")
	}

	return toProductDomains(productMs), total, nil
}

// Create persists a new product.
func (repo *productRepository) Create(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	if err := repo.db.WithContext(ctx).Create(productM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrProductAlreadyExists.WrapMessage("product title already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.NewValidationError("missing required product information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create product")
	}

	product.ID = productM.ID
	product.CreatedAt = productM.CreatedAt
	product.UpdatedAt = productM.UpdatedAt

	return nil
}

// Update modifies an existing product, reference sets included.
func (repo *productRepository) Update(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	if err := repo.db.WithContext(ctx).Save(productM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update product")
	}

	product.UpdatedAt = productM.UpdatedAt

	return nil
}

// Delete removes a product row by ID.
func (repo *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ProductModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete product")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toProductDomain converts a GORM ProductModel to a domain entity.
func toProductDomain(data *model.ProductModel) *entity.Product {
	if data == nil {
		return nil
	}

	return &entity.Product{
		ID:          data.ID,
		Folder:      data.Folder,
		Title:       data.Title,
		Description: data.Description,
		Price:       data.Price,
		Category:    data.Category,
		Files: entity.FileRefs{
			Image: data.Image,
			COA:   data.COA,
			MSDS:  data.MSDS,
			CEP:   data.CEP,
			QOS:   data.QOS,
		},
		Impurities:     data.Impurities,
		RefStandards:   data.RefStandards,
		DMF:            []string(data.DMF),
		Pharmacopoeias: []string(data.Pharmacopoeias),
		ManufacturerID: data.ManufacturerID,
		Traders:        entity.RefSet(data.Traders),
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}

func toProductDomains(data []model.ProductModel) []*entity.Product {
	products := make([]*entity.Product, 0, len(data))
	for i := range data {
		products = append(products, toProductDomain(&data[i]))
	}

	return products
}

// fromProductDomain converts a domain entity to a GORM ProductModel.
func fromProductDomain(data *entity.Product) *model.ProductModel {
	if data == nil {
		return nil
	}

	return &model.ProductModel{
		ID:             data.ID,
		Folder:         data.Folder,
		Title:          data.Title,
		Description:    data.Description,
		Price:          data.Price,
		Category:       data.Category,
		Image:          data.Files.Image,
		COA:            data.Files.COA,
		MSDS:           data.Files.MSDS,
		CEP:            data.Files.CEP,
		QOS:            data.Files.QOS,
		Impurities:     data.Impurities,
		RefStandards:   data.RefStandards,
		DMF:            model.StringSlice(data.DMF),
		Pharmacopoeias: model.StringSlice(data.Pharmacopoeias),
		ManufacturerID: data.ManufacturerID,
		Traders:        model.UUIDSlice(data.Traders),
		CreatedAt:      data.CreatedAt,
	}
}

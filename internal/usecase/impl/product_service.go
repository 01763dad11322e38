package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "tradeport/internal/delivery/context"
	"tradeport/internal/domain/entity"
	domainerrors "tradeport/internal/domain/errors"
	"tradeport/internal/domain/repository"
	"tradeport/internal/domain/service"
	"tradeport/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// productService implements the ProductUsecase interface.
type productService struct {
	txManager        repository.TransactionManager
	productRepo      repository.ProductRepository
	manufacturerRepo repository.ManufacturerRepository
	userRepo         repository.UserRepository
	traderRepo       repository.TraderRepository
	blobStore        service.BlobStore
	relocator        service.BlobRelocator
	logger           *slog.Logger
}

// ProductServiceParams holds dependencies for productService, injected by Fx.
type ProductServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	ProductRepo      repository.ProductRepository
	ManufacturerRepo repository.ManufacturerRepository
	UserRepo         repository.UserRepository
	TraderRepo       repository.TraderRepository
	BlobStore        service.BlobStore
	Relocator        service.BlobRelocator
	Logger           *slog.Logger
}

// NewProductService is the constructor for productService.
func NewProductService(params ProductServiceParams) usecase.ProductUsecase {
	return &productService{
		txManager:        params.TxManager,
		productRepo:      params.ProductRepo,
		manufacturerRepo: params.ManufacturerRepo,
		userRepo:         params.UserRepo,
		traderRepo:       params.TraderRepo,
		blobStore:        params.BlobStore,
		relocator:        params.Relocator,
		logger:           params.Logger,
	}
}

func (srv *productService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// actingManufacturer resolves the caller's manufacturer together with the
// owner's blob path segment.
func (srv *productService) actingManufacturer(ctx context.Context, actingUserID uuid.UUID) (*entity.Manufacturer, string, error) {
	manufacturer, err := srv.manufacturerRepo.FindByOwner(ctx, actingUserID)
	if errors.Is(err, repository.ErrManufacturerNotFound) {
		return nil, "", domainerrors.ErrManufacturerNotFound.WrapMessage("no manufacturer registered for this account")
	}
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to resolve acting manufacturer")
	}

	owner, err := srv.userRepo.FindByID(ctx, manufacturer.OwnerUserID)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to load manufacturer owner")
	}

	return manufacturer, ownerSegment(owner), nil
}

// Create persists a new product and appends it to the owning manufacturer's
// reference set atomically. Title uniqueness under the manufacturer is
// case-sensitive after trimming.
func (srv *productService) Create(ctx context.Context, auth *service.AuthContext, input *usecase.CreateProductInput) (*entity.Product, error) {
	manufacturer, ownerSeg, err := srv.actingManufacturer(ctx, auth.UserID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domainerrors.NewValidationError("title is required")
	}

	_, err = srv.productRepo.FindByManufacturerAndTitle(ctx, manufacturer.ID, title)
	if err == nil {
		return nil, domainerrors.ErrProductAlreadyExists.WrapMessage("Product already exists")
	}
	if !errors.Is(err, repository.ErrProductNotFound) {
		return nil, errors.Wrap(err, "failed to check product uniqueness")
	}

	folder := input.Folder
	if folder == "" {
		folder = title
	}

	// Uploads land in the bucket before the transaction; a rollback leaves
	// orphan blobs for the relocator's removal jobs to catch on delete.
	var files entity.FileRefs
	for field, upload := range input.Files {
		if upload == nil || !field.IsValid() {
			continue
		}
		key := productFileKey(ownerSeg, folder, field, upload.Filename)
		if err := srv.blobStore.Write(ctx, key, upload.Content, upload.ContentType); err != nil {
			return nil, errors.Wrapf(err, "failed to store %s upload", field)
		}
		files.Set(field, key)
	}

	product := &entity.Product{
		Folder:         folder,
		Title:          title,
		Description:    input.Description,
		Price:          input.Price,
		Category:       input.Category,
		Files:          files,
		Impurities:     input.Impurities,
		RefStandards:   input.RefStandards,
		DMF:            input.DMF,
		Pharmacopoeias: input.Pharmacopoeias,
		ManufacturerID: manufacturer.ID,
		Traders:        entity.RefSet{},
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.Products().Create(ctx, product); err != nil {
			return err
		}

		manufacturer.Products.Push(product.ID)

		return repoFactory.Manufacturers().Update(ctx, manufacturer)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to create product", slog.String("title", title), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("Product created", slog.Any("productID", product.ID), slog.Any("manufacturerID", manufacturer.ID))

	return product, nil
}

// Update applies field changes to an owned product. A title change rewrites
// retained blob keys by substring substitution; a folder change additionally
// relocates the product's blob subtree after the save.
func (srv *productService) Update(ctx context.Context, auth *service.AuthContext, id uuid.UUID, input *usecase.UpdateProductInput) (*entity.Product, error) {
	manufacturer, ownerSeg, err := srv.actingManufacturer(ctx, auth.UserID)
	if err != nil {
		return nil, err
	}

	product, err := srv.productRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, domainerrors.ErrProductNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load product")
	}

	if product.ManufacturerID != manufacturer.ID {
		return nil, domainerrors.ErrForbidden.WrapMessage("product belongs to another manufacturer")
	}

	oldTitle := product.Title
	oldFolder := product.Folder

	newTitle := oldTitle
	if t := strings.TrimSpace(input.Title); t != "" && t != oldTitle {
		newTitle = normalizeTitle(t)
	}

	newFolder := oldFolder
	if input.Folder != "" && input.Folder != oldFolder {
		newFolder = input.Folder
	}

	for _, field := range entity.FileFields {
		if upload := input.Files[field]; upload != nil {
			key := productFileKey(ownerSeg, newFolder, field, upload.Filename)
			if err := srv.blobStore.Write(ctx, key, upload.Content, upload.ContentType); err != nil {
				return nil, errors.Wrapf(err, "failed to store %s upload", field)
			}
			product.Files.Set(field, key)

			continue
		}

		if input.FileValues[field] == usecase.FileClearSentinel {
			product.Files.Set(field, "")

			continue
		}

		// Retained reference: follow the rename.
		stored := product.Files.Get(field)
		if stored == "" {
			continue
		}
		switch {
		case newFolder != oldFolder:
			product.Files.Set(field, strings.ReplaceAll(stored, oldFolder, newFolder))
		case newTitle != oldTitle:
			product.Files.Set(field, strings.ReplaceAll(stored, oldTitle, newTitle))
		}
	}

	product.Title = newTitle
	product.Folder = newFolder
	if input.Description != "" {
		product.Description = input.Description
	}
	if input.Price != "" {
		product.Price = input.Price
	}
	if input.Category != "" {
		product.Category = input.Category
	}
	if input.Impurities != "" {
		product.Impurities = input.Impurities
	}
	if input.RefStandards != "" {
		product.RefStandards = input.RefStandards
	}
	if input.DMF != nil {
		product.DMF = input.DMF
	}
	if input.Pharmacopoeias != nil {
		product.Pharmacopoeias = input.Pharmacopoeias
	}

	if err := srv.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	if newFolder != oldFolder {
		srv.relocator.Relocate(productPrefix(ownerSeg, oldFolder), productPrefix(ownerSeg, newFolder))
	}

	return product, nil
}

// Delete removes the product and retires every inbound reference atomically,
// then removes its blob subtree asynchronously.
func (srv *productService) Delete(ctx context.Context, auth *service.AuthContext, id uuid.UUID) error {
	var blobPrefix string
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		products := repoFactory.Products()
		traders := repoFactory.Traders()

		product, err := products.FindByID(ctx, id)
		if errors.Is(err, repository.ErrProductNotFound) {
			return domainerrors.ErrProductNotFound
		}
		if err != nil {
			return errors.Wrap(err, "failed to load product")
		}

		manufacturer, err := repoFactory.Manufacturers().FindByID(ctx, product.ManufacturerID)
		if errors.Is(err, repository.ErrManufacturerNotFound) {
			return domainerrors.ErrManufacturerNotFound
		}
		if err != nil {
			return errors.Wrap(err, "failed to load owning manufacturer")
		}

		if manufacturer.OwnerUserID != auth.UserID {
			return domainerrors.ErrForbidden.WrapMessage("product belongs to another manufacturer")
		}

		manufacturer.Products.Pull(product.ID)
		if err := repoFactory.Manufacturers().Update(ctx, manufacturer); err != nil {
			return err
		}

		for _, traderID := range product.Traders {
			trader, err := traders.FindByID(ctx, traderID)
			if errors.Is(err, repository.ErrTraderNotFound) {
				continue
			}
			if err != nil {
				return errors.Wrap(err, "failed to load linked trader")
			}

			trader.Products.Pull(product.ID)
			if err := traders.Update(ctx, trader); err != nil {
				return err
			}
		}

		if owner, err := repoFactory.Users().FindByID(ctx, manufacturer.OwnerUserID); err == nil {
			blobPrefix = productPrefix(ownerSegment(owner), product.Folder)
		}

		return products.Delete(ctx, product.ID)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to delete product", slog.Any("productID", id), slog.Any("error", err))

		return err
	}

	if blobPrefix != "" {
		srv.relocator.Remove(blobPrefix)
	}

	return nil
}

// GetByID returns one product.
func (srv *productService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, domainerrors.ErrProductNotFound
	}

	return product, err
}

// ListByManufacturer pages the acting manufacturer's catalog.
func (srv *productService) ListByManufacturer(ctx context.Context, ownerUserID uuid.UUID, category string, page, size int) (*usecase.ProductPage, error) {
	manufacturer, err := srv.manufacturerRepo.FindByOwner(ctx, ownerUserID)
	if errors.Is(err, repository.ErrManufacturerNotFound) {
		return nil, domainerrors.ErrManufacturerNotFound.WrapMessage("no manufacturer registered for this account")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve acting manufacturer")
	}

	page, size = normalizePage(page, size)
	items, total, err := srv.productRepo.ListByManufacturer(ctx, manufacturer.ID, category, page, size)
	if err != nil {
		return nil, err
	}

	return &usecase.ProductPage{Items: items, Total: total}, nil
}

// ListForTrader pages every product shared with the trader across manufacturers.
func (srv *productService) ListForTrader(ctx context.Context, traderEmail string, category string, page, size int) (*usecase.ProductPage, error) {
	trader, err := srv.traderRepo.FindByEmail(ctx, traderEmail)
	if errors.Is(err, repository.ErrTraderNotFound) {
		return nil, domainerrors.ErrTraderNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load trader")
	}

	page, size = normalizePage(page, size)
	items, total, err := srv.productRepo.ListByTrader(ctx, trader.ID, category, page, size)
	if err != nil {
		return nil, err
	}

	return &usecase.ProductPage{Items: items, Total: total}, nil
}

// ListForTraderScopedToManufacturer pages the products one manufacturer shares
// with one trader.
func (srv *productService) ListForTraderScopedToManufacturer(ctx context.Context, traderID, actingUserID uuid.UUID, category string, page, size int) (*usecase.ProductPage, error) {
	manufacturer, err := srv.manufacturerRepo.FindByOwner(ctx, actingUserID)
	if errors.Is(err, repository.ErrManufacturerNotFound) {
		return nil, domainerrors.ErrManufacturerNotFound.WrapMessage("no manufacturer registered for this account")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve acting manufacturer")
	}

	page, size = normalizePage(page, size)
	items, total, err := srv.productRepo.ListByTraderAndManufacturer(ctx, traderID, manufacturer.ID, category, page, size)
	if err != nil {
		return nil, err
	}

	return &usecase.ProductPage{Items: items, Total: total}, nil
}

// ResolveDownload finds the product document stored under fileKey and opens
// it. The owning field is recovered from the key's basename.
func (srv *productService) ResolveDownload(ctx context.Context, fileKey string) (*usecase.DownloadOutput, error) {
	field, ok := fieldFromKey(fileKey)
	if !ok {
		return nil, domainerrors.ErrFileNotFound
	}

	if _, err := srv.productRepo.FindByFileKey(ctx, field, fileKey); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrFileNotFound
		}

		return nil, errors.Wrap(err, "failed to resolve file owner")
	}

	content, err := srv.blobStore.Read(ctx, fileKey)
	if err != nil {
		if errors.Is(err, service.ErrBlobNotFound) {
			return nil, domainerrors.ErrFileNotFound
		}

		return nil, errors.Wrap(err, "failed to open file")
	}

	return &usecase.DownloadOutput{Key: fileKey, Content: content}, nil
}

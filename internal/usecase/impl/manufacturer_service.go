package impl

import (
	"context"
	"log/slog"

	"tradeport/config"
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

// manufacturerService implements the ManufacturerUsecase interface.
type manufacturerService struct {
	txManager        repository.TransactionManager
	manufacturerRepo repository.ManufacturerRepository
	userRepo         repository.UserRepository
	relocator        service.BlobRelocator
	adminEmail       string
	logger           *slog.Logger
}

// ManufacturerServiceParams holds dependencies for manufacturerService, injected by Fx.
type ManufacturerServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	ManufacturerRepo repository.ManufacturerRepository
	UserRepo         repository.UserRepository
	Relocator        service.BlobRelocator
	Config           *config.Config
	Logger           *slog.Logger
}

// NewManufacturerService is the constructor for manufacturerService.
func NewManufacturerService(params ManufacturerServiceParams) usecase.ManufacturerUsecase {
	adminEmail := ""
	if params.Config != nil && params.Config.Platform != nil {
		adminEmail = params.Config.Platform.AdminEmail
	}

	return &manufacturerService{
		txManager:        params.TxManager,
		manufacturerRepo: params.ManufacturerRepo,
		userRepo:         params.UserRepo,
		relocator:        params.Relocator,
		adminEmail:       adminEmail,
		logger:           params.Logger,
	}
}

func (srv *manufacturerService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create registers a manufacturer listing owned by the caller and links it to
// the platform admin atomically.
func (srv *manufacturerService) Create(ctx context.Context, auth *service.AuthContext, input *usecase.CreateManufacturerInput) (*entity.Manufacturer, error) {
	srv.log(ctx).Info("Creating manufacturer", slog.String("title", input.Title), slog.Any("ownerID", auth.UserID))

	var created *entity.Manufacturer
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		users := repoFactory.Users()

		admin, err := users.FindByEmail(ctx, srv.adminEmail)
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrAdminNotFound
		}
		if err != nil {
			return errors.Wrap(err, "failed to resolve platform admin")
		}

		manufacturer := &entity.Manufacturer{
			Title:       input.Title,
			Description: input.Description,
			Address:     input.Address,
			OwnerUserID: auth.UserID,
			AdminUserID: admin.ID,
			Traders:     entity.RefSet{},
			Products:    entity.RefSet{},
		}
		if err := repoFactory.Manufacturers().Create(ctx, manufacturer); err != nil {
			return err
		}

		admin.Manufacturers.Push(manufacturer.ID)
		if err := users.Update(ctx, admin); err != nil {
			return err
		}

		created = manufacturer

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to create manufacturer", slog.String("title", input.Title), slog.Any("error", err))

		return nil, err
	}

	return created, nil
}

// Update applies scalar field changes after an ownership check.
func (srv *manufacturerService) Update(ctx context.Context, auth *service.AuthContext, id uuid.UUID, input *usecase.UpdateManufacturerInput) (*entity.Manufacturer, error) {
	manufacturer, err := srv.manufacturerRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrManufacturerNotFound) {
		return nil, domainerrors.ErrManufacturerNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load manufacturer")
	}

	if manufacturer.OwnerUserID != auth.UserID {
		return nil, domainerrors.ErrForbidden.WrapMessage("only the owner may update this manufacturer")
	}

	if input.Title != "" {
		manufacturer.Title = input.Title
	}
	if input.Description != "" {
		manufacturer.Description = input.Description
	}
	if input.Address != "" {
		manufacturer.Address = input.Address
	}

	if err := srv.manufacturerRepo.Update(ctx, manufacturer); err != nil {
		return nil, err
	}

	return manufacturer, nil
}

// Delete removes the manufacturer and retires the admin's reference
// atomically. Deletion is refused while products or traders remain linked.
// The owner's blob subtree is removed asynchronously after commit.
func (srv *manufacturerService) Delete(ctx context.Context, auth *service.AuthContext, id uuid.UUID) error {
	var ownerPrefix string
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		manufacturers := repoFactory.Manufacturers()
		users := repoFactory.Users()

		manufacturer, err := manufacturers.FindByID(ctx, id)
		if errors.Is(err, repository.ErrManufacturerNotFound) {
			return domainerrors.ErrManufacturerNotFound
		}
		if err != nil {
			return errors.Wrap(err, "failed to load manufacturer")
		}

		if manufacturer.AdminUserID != auth.UserID {
			return domainerrors.ErrForbidden.WrapMessage("only the platform admin may delete a manufacturer")
		}

		if len(manufacturer.Products) > 0 || len(manufacturer.Traders) > 0 {
			return domainerrors.ErrManufacturerNotEmpty
		}

		admin, err := users.FindByID(ctx, manufacturer.AdminUserID)
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to load platform admin")
		}
		if admin != nil {
			admin.Manufacturers.Pull(manufacturer.ID)
			if err := users.Update(ctx, admin); err != nil {
				return err
			}
		}

		if owner, err := users.FindByID(ctx, manufacturer.OwnerUserID); err == nil {
			ownerPrefix = manufacturerPrefix(ownerSegment(owner))
		}

		return manufacturers.Delete(ctx, manufacturer.ID)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to delete manufacturer", slog.Any("manufacturerID", id), slog.Any("error", err))

		return err
	}

	if ownerPrefix != "" {
		srv.relocator.Remove(ownerPrefix)
	}

	return nil
}

// GetByID returns one manufacturer.
func (srv *manufacturerService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Manufacturer, error) {
	manufacturer, err := srv.manufacturerRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrManufacturerNotFound) {
		return nil, domainerrors.ErrManufacturerNotFound
	}

	return manufacturer, err
}

// GetByOwner returns the manufacturer owned by the given user.
func (srv *manufacturerService) GetByOwner(ctx context.Context, ownerUserID uuid.UUID) (*entity.Manufacturer, error) {
	manufacturer, err := srv.manufacturerRepo.FindByOwner(ctx, ownerUserID)
	if errors.Is(err, repository.ErrManufacturerNotFound) {
		return nil, domainerrors.ErrManufacturerNotFound
	}

	return manufacturer, err
}

// ListForAdmin resolves the admin's accumulated manufacturer references.
func (srv *manufacturerService) ListForAdmin(ctx context.Context, adminUserID uuid.UUID) ([]*entity.Manufacturer, error) {
	admin, err := srv.userRepo.FindByID(ctx, adminUserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, domainerrors.ErrAdminNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load platform admin")
	}

	return srv.manufacturerRepo.FindByIDs(ctx, admin.Manufacturers)
}

// List returns a title-sorted page of all manufacturers.
func (srv *manufacturerService) List(ctx context.Context, page, size int) (*usecase.ManufacturerPage, error) {
	page, size = normalizePage(page, size)

	items, total, err := srv.manufacturerRepo.List(ctx, page, size)
	if err != nil {
		return nil, err
	}

	return &usecase.ManufacturerPage{Items: items, Total: total}, nil
}

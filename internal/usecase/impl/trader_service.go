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

// traderService implements the TraderUsecase interface. It owns the
// many-to-many trader↔manufacturer↔product graph, so every mutation here runs
// inside one transaction that restores reference symmetry before commit.
type traderService struct {
	txManager        repository.TransactionManager
	traderRepo       repository.TraderRepository
	manufacturerRepo repository.ManufacturerRepository
	userRepo         repository.UserRepository
	dashboardRepo    repository.TraderDashboardRepository
	hasher           service.PasswordHasher
	relocator        service.BlobRelocator
	adminEmail       string
	passwordSfx      string
	logger           *slog.Logger
}

// TraderServiceParams holds dependencies for traderService, injected by Fx.
type TraderServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	TraderRepo       repository.TraderRepository
	ManufacturerRepo repository.ManufacturerRepository
	UserRepo         repository.UserRepository
	DashboardRepo    repository.TraderDashboardRepository
	Hasher           service.PasswordHasher
	Relocator        service.BlobRelocator
	Config           *config.Config
	Logger           *slog.Logger
}

// NewTraderService is the constructor for traderService.
func NewTraderService(params TraderServiceParams) usecase.TraderUsecase {
	adminEmail := ""
	passwordSfx := "1234"
	if params.Config != nil && params.Config.Platform != nil {
		adminEmail = params.Config.Platform.AdminEmail
		if params.Config.Platform.TraderPasswordSuffix != "" {
			passwordSfx = params.Config.Platform.TraderPasswordSuffix
		}
	}

	return &traderService{
		txManager:        params.TxManager,
		traderRepo:       params.TraderRepo,
		manufacturerRepo: params.ManufacturerRepo,
		userRepo:         params.UserRepo,
		dashboardRepo:    params.DashboardRepo,
		hasher:           params.Hasher,
		relocator:        params.Relocator,
		adminEmail:       adminEmail,
		passwordSfx:      passwordSfx,
		logger:           params.Logger,
	}
}

func (srv *traderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// resolveActingManufacturer loads the manufacturer owned by the caller from a
// transaction-bound factory.
func resolveActingManufacturer(ctx context.Context, repoFactory repository.RepositoryFactory, actingUserID uuid.UUID) (*entity.Manufacturer, error) {
	manufacturer, err := repoFactory.Manufacturers().FindByOwner(ctx, actingUserID)
	if errors.Is(err, repository.ErrManufacturerNotFound) {
		return nil, domainerrors.ErrManufacturerNotFound.WrapMessage("no manufacturer registered for this account")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve acting manufacturer")
	}

	return manufacturer, nil
}

// Create adds a trader to the acting manufacturer. An existing trader with the
// same email is attached (one global trader per email); a brand-new trader
// gets a paired Trader-role user with a generated credential returned once.
func (srv *traderService) Create(ctx context.Context, auth *service.AuthContext, input *usecase.CreateTraderInput) (*usecase.CreateTraderOutput, error) {
	srv.log(ctx).Info("Creating trader", slog.String("email", input.Email), slog.Any("actingUserID", auth.UserID))

	output := &usecase.CreateTraderOutput{}
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		manufacturer, err := resolveActingManufacturer(ctx, repoFactory, auth.UserID)
		if err != nil {
			return err
		}

		traders := repoFactory.Traders()
		existing, err := traders.FindByEmail(ctx, input.Email)
		if err != nil && !errors.Is(err, repository.ErrTraderNotFound) {
			return errors.Wrap(err, "failed to check existing trader")
		}

		if existing != nil {
			if manufacturer.Traders.Contains(existing.ID) {
				return domainerrors.ErrTraderAlreadyExists.WrapMessage("trader is already linked to this manufacturer")
			}

			return srv.attachExistingTrader(ctx, repoFactory, manufacturer, existing, input.ProductRefs, output)
		}

		return srv.createNewTrader(ctx, repoFactory, manufacturer, input, output)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to create trader", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	return output, nil
}

// attachExistingTrader links an already-known trader to a further
// manufacturer, sharing the requested products.
func (srv *traderService) attachExistingTrader(
	ctx context.Context,
	repoFactory repository.RepositoryFactory,
	manufacturer *entity.Manufacturer,
	trader *entity.Trader,
	productRefs []uuid.UUID,
	output *usecase.CreateTraderOutput,
) error {
	trader.Manufacturers.Push(manufacturer.ID)
	manufacturer.Traders.Push(trader.ID)

	if err := srv.shareProducts(ctx, repoFactory, manufacturer, trader, productRefs); err != nil {
		return err
	}

	if err := repoFactory.Traders().Update(ctx, trader); err != nil {
		return err
	}
	if err := repoFactory.Manufacturers().Update(ctx, manufacturer); err != nil {
		return err
	}

	output.Trader = trader

	return nil
}

// createNewTrader provisions the trader and its paired user account.
func (srv *traderService) createNewTrader(
	ctx context.Context,
	repoFactory repository.RepositoryFactory,
	manufacturer *entity.Manufacturer,
	input *usecase.CreateTraderInput,
	output *usecase.CreateTraderOutput,
) error {
	users := repoFactory.Users()
	if _, err := users.FindByEmail(ctx, input.Email); err == nil {
		return domainerrors.ErrUserAlreadyExists.WrapMessage("an account with this email already exists")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return errors.Wrap(err, "failed to check existing account")
	}

	password := input.Title + srv.passwordSfx
	hash, err := srv.hasher.Hash(password)
	if err != nil {
		return errors.Wrap(err, "failed to hash generated credential")
	}

	trader := &entity.Trader{
		Title:         input.Title,
		Email:         input.Email,
		Address:       input.Address,
		Manufacturers: entity.RefSet{manufacturer.ID},
		Products:      entity.RefSet{},
	}
	if err := repoFactory.Traders().Create(ctx, trader); err != nil {
		return err
	}

	pairedUser := &entity.User{
		Name:          input.Title,
		Email:         input.Email,
		PasswordHash:  hash,
		Role:          entity.RoleTrader,
		Manufacturers: entity.RefSet{},
	}
	if err := users.Create(ctx, pairedUser); err != nil {
		return err
	}

	manufacturer.Traders.Push(trader.ID)

	if err := srv.shareProducts(ctx, repoFactory, manufacturer, trader, input.ProductRefs); err != nil {
		return err
	}

	if err := repoFactory.Traders().Update(ctx, trader); err != nil {
		return err
	}
	if err := repoFactory.Manufacturers().Update(ctx, manufacturer); err != nil {
		return err
	}

	output.Trader = trader
	output.GeneratedPassword = password

	return nil
}

// shareProducts pushes the trader onto each requested product and mirrors the
// reference on the trader. Products must belong to the acting manufacturer.
func (srv *traderService) shareProducts(
	ctx context.Context,
	repoFactory repository.RepositoryFactory,
	manufacturer *entity.Manufacturer,
	trader *entity.Trader,
	productRefs []uuid.UUID,
) error {
	products := repoFactory.Products()
	for _, productID := range productRefs {
		product, err := products.FindByID(ctx, productID)
		if errors.Is(err, repository.ErrProductNotFound) {
			return domainerrors.ErrProductNotFound
		}
		if err != nil {
			return errors.Wrap(err, "failed to load product to share")
		}

		if product.ManufacturerID != manufacturer.ID {
			return domainerrors.ErrForbidden.WrapMessage("cannot share another manufacturer's product")
		}

		product.Traders.Push(trader.ID)
		if err := products.Update(ctx, product); err != nil {
			return err
		}
		trader.Products.Push(product.ID)
	}

	return nil
}

// changeTraderEmail moves the trader to a new email and carries the paired
// login account along, keeping the trader/user pairing intact. The new email
// must not belong to any existing account.
func (srv *traderService) changeTraderEmail(ctx context.Context, repoFactory repository.RepositoryFactory, trader *entity.Trader, email string) error {
	users := repoFactory.Users()
	if _, err := users.FindByEmail(ctx, email); err == nil {
		return domainerrors.ErrUserAlreadyExists.WrapMessage("an account with this email already exists")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return errors.Wrap(err, "failed to check email availability")
	}

	pairedUser, err := users.FindByEmail(ctx, trader.Email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return errors.Wrap(err, "failed to load paired trader account")
	}
	if pairedUser != nil {
		pairedUser.Email = email
		if err := users.Update(ctx, pairedUser); err != nil {
			return err
		}
	}

	trader.Email = email

	return nil
}

// Update applies scalar changes and reconciles the trader's product links
// scoped to the acting manufacturer: the submitted set fully replaces the
// trader's current links to this manufacturer's products, leaving links to
// other manufacturers' products untouched.
func (srv *traderService) Update(ctx context.Context, auth *service.AuthContext, id uuid.UUID, input *usecase.UpdateTraderInput) (*entity.Trader, error) {
	var updated *entity.Trader
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		manufacturer, err := resolveActingManufacturer(ctx, repoFactory, auth.UserID)
		if err != nil {
			return err
		}

		traders := repoFactory.Traders()
		trader, err := traders.FindByID(ctx, id)
		if errors.Is(err, repository.ErrTraderNotFound) {
			return domainerrors.ErrTraderNotFound
		}
		if err != nil {
			return errors.Wrap(err, "failed to load trader")
		}

		products := repoFactory.Products()
		linked, err := products.FindByIDs(ctx, trader.Products)
		if err != nil {
			return errors.Wrap(err, "failed to load trader products")
		}

		// The scope this manufacturer may reconcile: the trader's current
		// links restricted to products this manufacturer owns.
		var existingScoped entity.RefSet
		for _, product := range linked {
			if product.ManufacturerID == manufacturer.ID {
				existingScoped.Push(product.ID)
			}
		}

		added, removed := refDiff(entity.RefSet(input.ProductRefs), existingScoped)

		if err := srv.shareProducts(ctx, repoFactory, manufacturer, trader, added); err != nil {
			return err
		}

		for _, productID := range removed {
			product, err := products.FindByID(ctx, productID)
			if errors.Is(err, repository.ErrProductNotFound) {
				trader.Products.Pull(productID)

				continue
			}
			if err != nil {
				return errors.Wrap(err, "failed to load product to unlink")
			}

			product.Traders.Pull(trader.ID)
			if err := products.Update(ctx, product); err != nil {
				return err
			}
			trader.Products.Pull(productID)
		}

		// Idempotent identity linking on both sides.
		trader.Manufacturers.Push(manufacturer.ID)
		manufacturer.Traders.Push(trader.ID)

		if input.Title != "" {
			trader.Title = input.Title
		}
		if input.Address != "" {
			trader.Address = input.Address
		}
		if input.Email != "" && input.Email != trader.Email {
			if err := srv.changeTraderEmail(ctx, repoFactory, trader, input.Email); err != nil {
				return err
			}
		}

		if err := traders.Update(ctx, trader); err != nil {
			return err
		}
		if err := repoFactory.Manufacturers().Update(ctx, manufacturer); err != nil {
			return err
		}

		updated = trader

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to update trader", slog.Any("traderID", id), slog.Any("error", err))

		return nil, err
	}

	return updated, nil
}

// Delete unlinks the trader from the acting manufacturer. When that was the
// trader's last manufacturer link, the trader, its paired user and its
// dashboard are cascade-deleted. Product references are retired either way,
// and the trader's blob subtree is removed asynchronously.
func (srv *traderService) Delete(ctx context.Context, auth *service.AuthContext, id uuid.UUID) error {
	var blobPrefix string
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		manufacturer, err := resolveActingManufacturer(ctx, repoFactory, auth.UserID)
		if err != nil {
			return err
		}

		traders := repoFactory.Traders()
		trader, err := traders.FindByID(ctx, id)
		if errors.Is(err, repository.ErrTraderNotFound) {
			return domainerrors.ErrTraderNotFound
		}
		if err != nil {
			return errors.Wrap(err, "failed to load trader")
		}

		if !trader.Manufacturers.Contains(manufacturer.ID) {
			return domainerrors.ErrForbidden.WrapMessage("trader is not linked to this manufacturer")
		}

		manufacturer.Traders.Pull(trader.ID)
		if err := repoFactory.Manufacturers().Update(ctx, manufacturer); err != nil {
			return err
		}

		trader.Manufacturers.Pull(manufacturer.ID)

		// Retire every product link regardless of cascade: a trader that
		// survives under other manufacturers starts with a clean product set.
		products := repoFactory.Products()
		for _, productID := range trader.Products {
			product, err := products.FindByID(ctx, productID)
			if errors.Is(err, repository.ErrProductNotFound) {
				continue
			}
			if err != nil {
				return errors.Wrap(err, "failed to load linked product")
			}

			product.Traders.Pull(trader.ID)
			if err := products.Update(ctx, product); err != nil {
				return err
			}
		}
		trader.Products = entity.RefSet{}

		if len(trader.Manufacturers) > 0 {
			return traders.Update(ctx, trader)
		}

		// Last link removed: cascade the paired account and dashboard.
		users := repoFactory.Users()
		pairedUser, err := users.FindByEmail(ctx, trader.Email)
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to load paired user")
		}
		if pairedUser != nil && pairedUser.Role == entity.RoleTrader {
			dashboard, err := repoFactory.Dashboards().FindByUserID(ctx, pairedUser.ID)
			if err != nil && !errors.Is(err, repository.ErrTraderDashboardNotFound) {
				return errors.Wrap(err, "failed to load trader dashboard")
			}
			if dashboard != nil {
				if err := repoFactory.Dashboards().Delete(ctx, dashboard.ID); err != nil {
					return err
				}
			}
			if err := users.Delete(ctx, pairedUser.ID); err != nil {
				return err
			}
		}

		blobPrefix = traderPrefix(trader.Title)

		return traders.Delete(ctx, trader.ID)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to delete trader", slog.Any("traderID", id), slog.Any("error", err))

		return err
	}

	if blobPrefix != "" {
		srv.relocator.Remove(blobPrefix)
	}

	return nil
}

// GetByID returns one trader.
func (srv *traderService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Trader, error) {
	trader, err := srv.traderRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrTraderNotFound) {
		return nil, domainerrors.ErrTraderNotFound
	}

	return trader, err
}

// GetByName returns the traders matching an exact title.
func (srv *traderService) GetByName(ctx context.Context, name string) ([]*entity.Trader, error) {
	return srv.traderRepo.FindByTitle(ctx, name)
}

// ListAvailable returns the traders the acting manufacturer has not linked yet.
func (srv *traderService) ListAvailable(ctx context.Context, actingUserID uuid.UUID) ([]*entity.Trader, error) {
	manufacturer, err := srv.manufacturerRepo.FindByOwner(ctx, actingUserID)
	if errors.Is(err, repository.ErrManufacturerNotFound) {
		return nil, domainerrors.ErrManufacturerNotFound.WrapMessage("no manufacturer registered for this account")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve acting manufacturer")
	}

	return srv.traderRepo.ListNotLinkedTo(ctx, manufacturer.ID)
}

// ListByManufacturer pages the traders linked to the acting manufacturer.
func (srv *traderService) ListByManufacturer(ctx context.Context, ownerUserID uuid.UUID, page, size int) (*usecase.TraderPage, error) {
	manufacturer, err := srv.manufacturerRepo.FindByOwner(ctx, ownerUserID)
	if errors.Is(err, repository.ErrManufacturerNotFound) {
		return nil, domainerrors.ErrManufacturerNotFound.WrapMessage("no manufacturer registered for this account")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve acting manufacturer")
	}

	page, size = normalizePage(page, size)
	items, err := srv.traderRepo.ListPageByIDs(ctx, manufacturer.Traders, page, size)
	if err != nil {
		return nil, err
	}

	return &usecase.TraderPage{Items: items, Total: int64(len(manufacturer.Traders))}, nil
}

// List pages all traders on the platform.
func (srv *traderService) List(ctx context.Context, page, size int) (*usecase.TraderPage, error) {
	page, size = normalizePage(page, size)

	items, total, err := srv.traderRepo.List(ctx, page, size)
	if err != nil {
		return nil, err
	}

	return &usecase.TraderPage{Items: items, Total: total}, nil
}

// CreateDashboard creates the trader's supplementary profile, snapshotting the
// manufacturer links at creation time.
func (srv *traderService) CreateDashboard(ctx context.Context, auth *service.AuthContext, input *usecase.DashboardInput) (*entity.TraderDashboard, error) {
	if auth.Role != entity.RoleTrader {
		return nil, domainerrors.ErrForbidden.WrapMessage("only trader accounts have a dashboard")
	}

	if _, err := srv.dashboardRepo.FindByUserID(ctx, auth.UserID); err == nil {
		return nil, domainerrors.ErrTraderAlreadyExists.WrapMessage("dashboard already exists for this account")
	} else if !errors.Is(err, repository.ErrTraderDashboardNotFound) {
		return nil, errors.Wrap(err, "failed to check existing dashboard")
	}

	trader, err := srv.traderRepo.FindByEmail(ctx, auth.Email)
	if errors.Is(err, repository.ErrTraderNotFound) {
		return nil, domainerrors.ErrTraderNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load trader")
	}

	admin, err := srv.userRepo.FindByEmail(ctx, srv.adminEmail)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, domainerrors.ErrAdminNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve platform admin")
	}

	dashboard := &entity.TraderDashboard{
		Title:         input.Title,
		Description:   input.Description,
		Address:       input.Address,
		UserID:        auth.UserID,
		AdminUserID:   admin.ID,
		Manufacturers: trader.Manufacturers.Clone(),
	}
	if err := srv.dashboardRepo.Create(ctx, dashboard); err != nil {
		return nil, err
	}

	return dashboard, nil
}

// UpdateDashboard applies scalar changes to the caller's dashboard.
func (srv *traderService) UpdateDashboard(ctx context.Context, auth *service.AuthContext, input *usecase.DashboardInput) (*entity.TraderDashboard, error) {
	dashboard, err := srv.dashboardRepo.FindByUserID(ctx, auth.UserID)
	if errors.Is(err, repository.ErrTraderDashboardNotFound) {
		return nil, domainerrors.ErrTraderDashboardNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load dashboard")
	}

	if input.Title != "" {
		dashboard.Title = input.Title
	}
	if input.Description != "" {
		dashboard.Description = input.Description
	}
	if input.Address != "" {
		dashboard.Address = input.Address
	}

	if err := srv.dashboardRepo.Update(ctx, dashboard); err != nil {
		return nil, err
	}

	return dashboard, nil
}

// GetDashboard returns the dashboard of the given Trader-role user.
func (srv *traderService) GetDashboard(ctx context.Context, userID uuid.UUID) (*entity.TraderDashboard, error) {
	dashboard, err := srv.dashboardRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repository.ErrTraderDashboardNotFound) {
		return nil, domainerrors.ErrTraderDashboardNotFound
	}

	return dashboard, err
}

// RefreshDashboardManufacturers re-snapshots the dashboard's manufacturer set
// from the trader's live links.
func (srv *traderService) RefreshDashboardManufacturers(ctx context.Context, auth *service.AuthContext) (*entity.TraderDashboard, error) {
	dashboard, err := srv.dashboardRepo.FindByUserID(ctx, auth.UserID)
	if errors.Is(err, repository.ErrTraderDashboardNotFound) {
		return nil, domainerrors.ErrTraderDashboardNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load dashboard")
	}

	trader, err := srv.traderRepo.FindByEmail(ctx, auth.Email)
	if errors.Is(err, repository.ErrTraderNotFound) {
		return nil, domainerrors.ErrTraderNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load trader")
	}

	dashboard.Manufacturers = trader.Manufacturers.Clone()
	if err := srv.dashboardRepo.Update(ctx, dashboard); err != nil {
		return nil, err
	}

	return dashboard, nil
}

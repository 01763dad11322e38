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

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	userRepo     repository.UserRepository
	traderRepo   repository.TraderRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	blobStore    service.BlobStore
	passwordSfx  string
	logger       *slog.Logger
}

// UserServiceParams holds dependencies for userService, injected by Fx.
type UserServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	TraderRepo   repository.TraderRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	BlobStore    service.BlobStore
	Config       *config.Config
	Logger       *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	passwordSfx := "1234"
	if params.Config != nil && params.Config.Platform != nil && params.Config.Platform.TraderPasswordSuffix != "" {
		passwordSfx = params.Config.Platform.TraderPasswordSuffix
	}

	return &userService{
		userRepo:     params.UserRepo,
		traderRepo:   params.TraderRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		blobStore:    params.BlobStore,
		passwordSfx:  passwordSfx,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Signup registers a manufacturer account and signs it in.
func (srv *userService) Signup(ctx context.Context, input *usecase.SignupInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Info("Starting signup", slog.String("email", input.Email))

	_, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err == nil {
		return nil, domainerrors.ErrUserAlreadyExists.WrapMessage("an account with this email already exists")
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(err, "failed to check existing account")
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	imageKey := ""
	if input.Image != nil {
		imageKey = userImageKey(input.Folder, input.Image.Filename)
		if err := srv.blobStore.Write(ctx, imageKey, input.Image.Content, input.Image.ContentType); err != nil {
			return nil, errors.Wrap(err, "failed to store profile image")
		}
	}

	user := &entity.User{
		Name:          input.Name,
		Email:         input.Email,
		MobileNo:      input.MobileNo,
		PasswordHash:  hash,
		Role:          entity.RoleManufacturer,
		Image:         imageKey,
		Folder:        input.Folder,
		Manufacturers: entity.RefSet{},
	}
	if err := srv.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := srv.issueToken(user)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Signup completed", slog.Any("userID", user.ID))

	return &usecase.AuthOutput{Token: token, User: sanitizeUser(user)}, nil
}

// Login verifies a credential pair and issues a signed token.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, domainerrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load account")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login rejected", slog.String("email", input.Email))

		return nil, domainerrors.ErrInvalidCredentials
	}

	token, err := srv.issueToken(user)
	if err != nil {
		return nil, err
	}

	return &usecase.AuthOutput{Token: token, User: sanitizeUser(user)}, nil
}

// ForgotPassword regenerates a trader account's deterministic credential and
// returns the plaintext exactly once.
func (srv *userService) ForgotPassword(ctx context.Context, input *usecase.ForgotPasswordInput) (*usecase.ForgotPasswordOutput, error) {
	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, domainerrors.ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load account")
	}

	if user.Role != entity.RoleTrader {
		return nil, domainerrors.ErrForbidden.WrapMessage("password recovery is only available for trader accounts")
	}

	trader, err := srv.traderRepo.FindByEmail(ctx, input.Email)
	if errors.Is(err, repository.ErrTraderNotFound) {
		return nil, domainerrors.ErrTraderNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load trader")
	}

	newPassword := trader.Title + srv.passwordSfx
	hash, err := srv.hasher.Hash(newPassword)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	user.PasswordHash = hash
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Trader credential regenerated", slog.Any("userID", user.ID))

	return &usecase.ForgotPasswordOutput{NewPassword: newPassword}, nil
}

// ListUsers returns every account with credentials stripped.
func (srv *userService) ListUsers(ctx context.Context) ([]*entity.User, error) {
	users, err := srv.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	for i, user := range users {
		users[i] = sanitizeUser(user)
	}

	return users, nil
}

func (srv *userService) issueToken(user *entity.User) (string, error) {
	token, err := srv.tokenService.Generate(&service.AuthContext{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to issue token")
	}

	return token, nil
}

// sanitizeUser strips the credential hash before the entity leaves the
// business layer.
func sanitizeUser(user *entity.User) *entity.User {
	if user == nil {
		return nil
	}

	cleaned := *user
	cleaned.PasswordHash = ""

	return &cleaned
}

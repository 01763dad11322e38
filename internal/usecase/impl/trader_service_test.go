package impl

import (
	"context"
	"testing"

	"tradeport/internal/domain/entity"
	domainerrors "tradeport/internal/domain/errors"
	"tradeport/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// traderServiceFixtures holds all test dependencies for trader service tests.
type traderServiceFixtures struct {
	service   usecase.TraderUsecase
	state     *memState
	relocator *recordingRelocator
}

func createTestTraderService(t *testing.T) traderServiceFixtures {
	t.Helper()

	state := newMemState()
	relocator := &recordingRelocator{}

	service := NewTraderService(TraderServiceParams{
		TxManager:        &fakeTxManager{state: state},
		TraderRepo:       &fakeTraderRepo{state: state},
		ManufacturerRepo: &fakeManufacturerRepo{state: state},
		UserRepo:         &fakeUserRepo{state: state},
		DashboardRepo:    &fakeDashboardRepo{state: state},
		Hasher:           fakeHasher{},
		Relocator:        relocator,
		Config:           testConfig(),
		Logger:           discardLogger(),
	})

	return traderServiceFixtures{
		service:   service,
		state:     state,
		relocator: relocator,
	}
}

func TestTraderService_Create_New(t *testing.T) {
	fx := createTestTraderService(t)
	ctx := context.Background()
	admin := seedAdmin(fx.state)
	owner, manufacturer := seedManufacturer(fx.state, admin, "Acme Labs", "acme")
	product := seedProduct(fx.state, manufacturer, "Aspirin")

	output, err := fx.service.Create(ctx, authFor(owner), &usecase.CreateTraderInput{
		Title:       "Globex",
		Email:       "buyer@globex.example",
		Address:     "7 Harbor Way",
		ProductRefs: []uuid.UUID{product.ID},
	})
	require.NoError(t, err)

	trader := output.Trader
	assert.Equal(t, "Globex"+testPasswordSfx, output.GeneratedPassword,
		"new traders get the deterministic credential back exactly once")

	// Both halves of every relation must agree.
	assert.True(t, trader.Manufacturers.Contains(manufacturer.ID))
	assert.True(t, fx.state.manufacturers[manufacturer.ID].Traders.Contains(trader.ID))
	assert.True(t, fx.state.traders[trader.ID].Products.Contains(product.ID))
	assert.True(t, fx.state.products[product.ID].Traders.Contains(trader.ID))

	// A paired Trader-role user with the hashed credential.
	paired, err := (&fakeUserRepo{state: fx.state}).FindByEmail(ctx, "buyer@globex.example")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleTrader, paired.Role)
	assert.Equal(t, "hashed:Globex"+testPasswordSfx, paired.PasswordHash)
}

func TestTraderService_Create_AttachesExistingTrader(t *testing.T) {
	fx := createTestTraderService(t)
	ctx := context.Background()
	admin := seedAdmin(fx.state)
	_, first := seedManufacturer(fx.state, admin, "Acme Labs", "acme")
	secondOwner, second := seedManufacturer(fx.state, admin, "Beta Chem", "beta")
	trader, _ := seedTrader(fx.state, "Globex", "buyer@globex.example", first)
	product := seedProduct(fx.state, second, "Paracetamol")

	output, err := fx.service.Create(ctx, authFor(secondOwner), &usecase.CreateTraderInput{
		Title:       "Globex",
		Email:       "buyer@globex.example",
		ProductRefs: []uuid.UUID{product.ID},
	})
	require.NoError(t, err)

	assert.Empty(t, output.GeneratedPassword, "attaching an existing trader issues no credential")
	assert.Equal(t, trader.ID, output.Trader.ID, "one trader entity per email, globally")

	stored := fx.state.traders[trader.ID]
	assert.True(t, stored.Manufacturers.Contains(first.ID))
	assert.True(t, stored.Manufacturers.Contains(second.ID))
	assert.True(t, fx.state.manufacturers[second.ID].Traders.Contains(trader.ID))
	assert.True(t, fx.state.products[product.ID].Traders.Contains(trader.ID))
}

func TestTraderService_Create_AlreadyLinked(t *testing.T) {
	fx := createTestTraderService(t)
	ctx := context.Background()
	admin := seedAdmin(fx.state)
	owner, manufacturer := seedManufacturer(fx.state, admin, "Acme Labs", "acme")
	seedTrader(fx.state, "Globex", "buyer@globex.example", manufacturer)

	_, err := fx.service.Create(ctx, authFor(owner), &usecase.CreateTraderInput{
		Title: "Globex",
		Email: "buyer@globex.example",
	})
	assert.ErrorIs(t, err, domainerrors.ErrTraderAlreadyExists)
}

func TestTraderService_Create_EmailTakenByNonTrader(t *testing.T) {
	fx := createTestTraderService(t)
	ctx := context.Background()
	admin := seedAdmin(fx.state)
	owner, _ := seedManufacturer(fx.state, admin, "Acme Labs", "acme")

	_, err := fx.service.Create(ctx, authFor(owner), &usecase.CreateTraderInput{
		Title: "Impostor",
		Email: testAdminEmail,
	})
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
	assert.Empty(t, fx.state.traders, "the failed transaction must leave no trader behind")
}

func TestTraderService_Create_ForeignProductRollsBack(t *testing.T) {
	fx := createTestTraderService(t)
	ctx := context.Background()
	admin := seedAdmin(fx.state)
	owner, _ := seedManufacturer(fx.state, admin, "Acme Labs", "acme")
	_, other := seedManufacturer(fx.state, admin, "Beta Chem", "beta")
	foreign := seedProduct(fx.state, other, "Paracetamol")

	_, err := fx.service.Create(ctx, authFor(owner), &usecase.CreateTraderInput{
		Title:       "Globex",
		Email:       "buyer@globex.example",
		ProductRefs: []uuid.UUID{foreign.ID},
	})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	assert.Empty(t, fx.state.traders, "partial writes must be rolled back")
	assert.Empty(t, fx.state.products[foreign.ID].Traders)
	userRepo := &fakeUserRepo{state: fx.state}
	_, findErr := userRepo.FindByEmail(ctx, "buyer@globex.example")
	assert.Error(t, findErr, "the paired user must not survive the rollback")
}

func TestTraderService_Update_ReconcilesScopedProducts(t *testing.T) {
	fx := createTestTraderService(t)
	ctx := context.Background()
	admin := seedAdmin(fx.state)
	owner, manufacturer := seedManufacturer(fx.state, admin, "Acme Labs", "acme")
	_, other := seedManufacturer(fx.state, admin, "Beta Chem", "beta")

	kept := seedProduct(fx.state, manufacturer, "Aspirin")
	dropped := seedProduct(fx.state, manufacturer, "Ibuprofen")
	foreign := seedProduct(fx.state, other, "Paracetamol")

	trader, _ := seedTrader(fx.state, "Globex", "buyer@globex.example", manufacturer, other)
	for _, p := range []*entity.Product{kept, dropped, foreign} {
		trader.Products.Push(p.ID)
		p.Traders.Push(trader.ID)
	}

	// Submit only "kept": "dropped" leaves the scope, "foreign" is untouched
	// because it belongs to another manufacturer.
	updated, err := fx.service.Update(ctx, authFor(owner), trader.ID, &usecase.UpdateTraderInput{
		Address:     "9 New Quay",
		ProductRefs: []uuid.UUID{kept.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, "9 New Quay", updated.Address)
	assert.Equal(t, "Globex", updated.Title, "empty title keeps the current value")

	stored := fx.state.traders[trader.ID]
	assert.True(t, stored.Products.Contains(kept.ID))
	assert.False(t, stored.Products.Contains(dropped.ID))
	assert.True(t, stored.Products.Contains(foreign.ID), "links outside the caller's scope survive")

	assert.True(t, fx.state.products[kept.ID].Traders.Contains(trader.ID))
	assert.False(t, fx.state.products[dropped.ID].Traders.Contains(trader.ID))
	assert.True(t, fx.state.products[foreign.ID].Traders.Contains(trader.ID))
}

func TestTraderService_Update_AddsNewLink(t *testing.T) {
	fx := createTestTraderService(t)
	ctx := context.Background()
	admin := seedAdmin(fx.state)
	owner, manufacturer := seedManufacturer(fx.state, admin, "Acme Labs", "acme")
	product := seedProduct(fx.state, manufacturer, "Aspirin")
	trader, _ := seedTrader(fx.state, "Globex", "buyer@globex.example", manufacturer)

	_, err := fx.service.Update(ctx, authFor(owner), trader.ID, &usecase.UpdateTraderInput{
		ProductRefs: []uuid.UUID{product.ID},
	})
	require.NoError(t, err)

	assert.True(t, fx.state.traders[trader.ID].Products.Contains(product.ID))
	assert.True(t, fx.state.products[product.ID].Traders.Contains(trader.ID))
}

func TestTraderService_Update_EmailChangeMovesPairedAccount(t *testing.T) {
	fx := createTestTraderService(t)
	ctx := context.Background()
	admin := seedAdmin(fx.state)
	owner, manufacturer := seedManufacturer(fx.state, admin, "Acme Labs", "acme")
	trader, paired := seedTrader(fx.state, "Globex", "buyer@globex.example", manufacturer)

	updated, err := fx.service.Update(ctx, authFor(owner), trader.ID, &usecase.UpdateTraderInput{
		Email: "procurement@globex.example",
	})
	require.NoError(t, err)

	assert.Equal(t, "procurement@globex.example", updated.Email)
	assert.Equal(t, "procurement@globex.example", fx.state.traders[trader.ID].Email)
	assert.Equal(t, "procurement@globex.example", fx.state.users[paired.ID].Email,
		"the paired login account must follow the trader's email")
}

func TestTraderService_Update_EmailTakenRollsBack(t *testing.T) {
	fx := createTestTraderService(t)
	ctx := context.Background()
	admin := seedAdmin(fx.state)
	owner, manufacturer := seedManufacturer(fx.state, admin, "Acme Labs", "acme")
	trader, paired := seedTrader(fx.state, "Globex", "buyer@globex.example", manufacturer)

	_, err := fx.service.Update(ctx, authFor(owner), trader.ID, &usecase.UpdateTraderInput{
		Title: "Globex Renamed",
		Email: testAdminEmail,
	})
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)

	assert.Equal(t, "buyer@globex.example", fx.state.traders[trader.ID].Email)
	assert.Equal(t, "Globex", fx.state.traders[trader.ID].Title,
		"the failed transaction must roll back the scalar updates too")
	assert.Equal(t, "buyer@globex.example", fx.state.users[paired.ID].Email)
}

func TestTraderService_Delete_UnlinksSurvivingTrader(t *testing.T) {
	fx := createTestTraderService(t)
	ctx := context.Background()
	admin := seedAdmin(fx.state)
	owner, manufacturer := seedManufacturer(fx.state, admin, "Acme Labs", "acme")
	_, other := seedManufacturer(fx.state, admin, "Beta Chem", "beta")
	trader, paired := seedTrader(fx.state, "Globex", "buyer@globex.example", manufacturer, other)
	product := seedProduct(fx.state, manufacturer, "Aspirin")
	trader.Products.Push(product.ID)
	product.Traders.Push(trader.ID)

	err := fx.service.Delete(ctx, authFor(owner), trader.ID)
	require.NoError(t, err)

	stored := fx.state.traders[trader.ID]
	require.NotNil(t, stored, "a trader linked elsewhere survives")
	assert.False(t, stored.Manufacturers.Contains(manufacturer.ID))
	assert.True(t, stored.Manufacturers.Contains(other.ID))
	assert.Empty(t, stored.Products, "product links are retired on unlink")
	assert.False(t, fx.state.products[product.ID].Traders.Contains(trader.ID))
	assert.False(t, fx.state.manufacturers[manufacturer.ID].Traders.Contains(trader.ID))
	assert.Contains(t, fx.state.users, paired.ID, "the paired account survives with the trader")
}

func TestTraderService_Delete_LastLinkCascades(t *testing.T) {
	fx := createTestTraderService(t)
	ctx := context.Background()
	admin := seedAdmin(fx.state)
	owner, manufacturer := seedManufacturer(fx.state, admin, "Acme Labs", "acme")
	trader, paired := seedTrader(fx.state, "Globex", "buyer@globex.example", manufacturer)
	dashboard := &entity.TraderDashboard{
		ID:            uuid.New(),
		UserID:        paired.ID,
		Manufacturers: trader.Manufacturers.Clone(),
	}
	fx.state.dashboards[dashboard.ID] = dashboard

	err := fx.service.Delete(ctx, authFor(owner), trader.ID)
	require.NoError(t, err)

	assert.NotContains(t, fx.state.traders, trader.ID)
	assert.NotContains(t, fx.state.users, paired.ID, "the paired account cascades with the last link")
	assert.NotContains(t, fx.state.dashboards, dashboard.ID, "the dashboard cascades too")

	require.Len(t, fx.relocator.removes, 1)
	assert.Equal(t, "documents/traders/Globex", fx.relocator.removes[0])
}

func TestTraderService_Delete_NotLinked(t *testing.T) {
	fx := createTestTraderService(t)
	ctx := context.Background()
	admin := seedAdmin(fx.state)
	owner, _ := seedManufacturer(fx.state, admin, "Acme Labs", "acme")
	_, other := seedManufacturer(fx.state, admin, "Beta Chem", "beta")
	trader, _ := seedTrader(fx.state, "Globex", "buyer@globex.example", other)

	err := fx.service.Delete(ctx, authFor(owner), trader.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	assert.Contains(t, fx.state.traders, trader.ID)
}

func TestTraderService_ListAvailable(t *testing.T) {
	fx := createTestTraderService(t)
	ctx := context.Background()
	admin := seedAdmin(fx.state)
	owner, manufacturer := seedManufacturer(fx.state, admin, "Acme Labs", "acme")
	_, other := seedManufacturer(fx.state, admin, "Beta Chem", "beta")
	seedTrader(fx.state, "Linked", "linked@example.com", manufacturer)
	free, _ := seedTrader(fx.state, "Free", "free@example.com", other)

	available, err := fx.service.ListAvailable(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, free.ID, available[0].ID)
}

func TestTraderService_Dashboard_Lifecycle(t *testing.T) {
	fx := createTestTraderService(t)
	ctx := context.Background()
	admin := seedAdmin(fx.state)
	_, manufacturer := seedManufacturer(fx.state, admin, "Acme Labs", "acme")
	trader, paired := seedTrader(fx.state, "Globex", "buyer@globex.example", manufacturer)
	auth := authFor(paired)

	dashboard, err := fx.service.CreateDashboard(ctx, auth, &usecase.DashboardInput{Title: "Globex HQ"})
	require.NoError(t, err)
	assert.Equal(t, paired.ID, dashboard.UserID)
	assert.Equal(t, admin.ID, dashboard.AdminUserID)
	assert.True(t, dashboard.Manufacturers.Contains(manufacturer.ID), "creation snapshots the live links")

	_, err = fx.service.CreateDashboard(ctx, auth, &usecase.DashboardInput{})
	assert.ErrorIs(t, err, domainerrors.ErrTraderAlreadyExists)

	updated, err := fx.service.UpdateDashboard(ctx, auth, &usecase.DashboardInput{Address: "7 Harbor Way"})
	require.NoError(t, err)
	assert.Equal(t, "Globex HQ", updated.Title)
	assert.Equal(t, "7 Harbor Way", updated.Address)

	// The snapshot does not follow later link changes until refreshed.
	_, second := seedManufacturer(fx.state, admin, "Beta Chem", "beta")
	storedTrader := fx.state.traders[trader.ID]
	storedTrader.Manufacturers.Push(second.ID)

	got, err := fx.service.GetDashboard(ctx, paired.ID)
	require.NoError(t, err)
	assert.False(t, got.Manufacturers.Contains(second.ID))

	refreshed, err := fx.service.RefreshDashboardManufacturers(ctx, auth)
	require.NoError(t, err)
	assert.True(t, refreshed.Manufacturers.Contains(second.ID))
}

func TestTraderService_CreateDashboard_RequiresTraderRole(t *testing.T) {
	fx := createTestTraderService(t)
	admin := seedAdmin(fx.state)

	_, err := fx.service.CreateDashboard(context.Background(), authFor(admin), &usecase.DashboardInput{})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

package impl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"

	"tradeport/config"
	"tradeport/internal/domain/entity"
	"tradeport/internal/domain/repository"
	"tradeport/internal/domain/service"

	"github.com/google/uuid"
)

// memState backs the in-memory repositories the service tests run against.
// The fake transaction manager snapshots and restores it to mimic rollbacks.
type memState struct {
	users         map[uuid.UUID]*entity.User
	manufacturers map[uuid.UUID]*entity.Manufacturer
	traders       map[uuid.UUID]*entity.Trader
	products      map[uuid.UUID]*entity.Product
	dashboards    map[uuid.UUID]*entity.TraderDashboard
}

func newMemState() *memState {
	return &memState{
		users:         make(map[uuid.UUID]*entity.User),
		manufacturers: make(map[uuid.UUID]*entity.Manufacturer),
		traders:       make(map[uuid.UUID]*entity.Trader),
		products:      make(map[uuid.UUID]*entity.Product),
		dashboards:    make(map[uuid.UUID]*entity.TraderDashboard),
	}
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	c.Manufacturers = u.Manufacturers.Clone()

	return &c
}

func cloneManufacturer(m *entity.Manufacturer) *entity.Manufacturer {
	c := *m
	c.Traders = m.Traders.Clone()
	c.Products = m.Products.Clone()

	return &c
}

func cloneTrader(t *entity.Trader) *entity.Trader {
	c := *t
	c.Manufacturers = t.Manufacturers.Clone()
	c.Products = t.Products.Clone()

	return &c
}

func cloneProduct(p *entity.Product) *entity.Product {
	c := *p
	c.Traders = p.Traders.Clone()
	c.DMF = slices.Clone(p.DMF)
	c.Pharmacopoeias = slices.Clone(p.Pharmacopoeias)

	return &c
}

func cloneDashboard(d *entity.TraderDashboard) *entity.TraderDashboard {
	c := *d
	c.Manufacturers = d.Manufacturers.Clone()

	return &c
}

func (s *memState) snapshot() *memState {
	snap := newMemState()
	for id, u := range s.users {
		snap.users[id] = cloneUser(u)
	}
	for id, m := range s.manufacturers {
		snap.manufacturers[id] = cloneManufacturer(m)
	}
	for id, t := range s.traders {
		snap.traders[id] = cloneTrader(t)
	}
	for id, p := range s.products {
		snap.products[id] = cloneProduct(p)
	}
	for id, d := range s.dashboards {
		snap.dashboards[id] = cloneDashboard(d)
	}

	return snap
}

func (s *memState) restore(snap *memState) {
	s.users = snap.users
	s.manufacturers = snap.manufacturers
	s.traders = snap.traders
	s.products = snap.products
	s.dashboards = snap.dashboards
}

// --- Repositories ---

type fakeUserRepo struct{ state *memState }

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	u, ok := r.state.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return cloneUser(u), nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.state.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) List(_ context.Context) ([]*entity.User, error) {
	users := make([]*entity.User, 0, len(r.state.users))
	for _, u := range r.state.users {
		users = append(users, cloneUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })

	return users, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.state.users[user.ID] = cloneUser(user)

	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	if _, ok := r.state.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	r.state.users[user.ID] = cloneUser(user)

	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.state.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(r.state.users, id)

	return nil
}

type fakeManufacturerRepo struct{ state *memState }

func (r *fakeManufacturerRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Manufacturer, error) {
	m, ok := r.state.manufacturers[id]
	if !ok {
		return nil, repository.ErrManufacturerNotFound
	}

	return cloneManufacturer(m), nil
}

func (r *fakeManufacturerRepo) FindByOwner(_ context.Context, ownerUserID uuid.UUID) (*entity.Manufacturer, error) {
	for _, m := range r.state.manufacturers {
		if m.OwnerUserID == ownerUserID {
			return cloneManufacturer(m), nil
		}
	}

	return nil, repository.ErrManufacturerNotFound
}

func (r *fakeManufacturerRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*entity.Manufacturer, error) {
	var found []*entity.Manufacturer
	for _, id := range ids {
		if m, ok := r.state.manufacturers[id]; ok {
			found = append(found, cloneManufacturer(m))
		}
	}

	return found, nil
}

func (r *fakeManufacturerRepo) List(_ context.Context, page, size int) ([]*entity.Manufacturer, int64, error) {
	all := make([]*entity.Manufacturer, 0, len(r.state.manufacturers))
	for _, m := range r.state.manufacturers {
		all = append(all, cloneManufacturer(m))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Title < all[j].Title })

	return pageSlice(all, page, size), int64(len(all)), nil
}

func (r *fakeManufacturerRepo) Create(_ context.Context, m *entity.Manufacturer) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.state.manufacturers[m.ID] = cloneManufacturer(m)

	return nil
}

func (r *fakeManufacturerRepo) Update(_ context.Context, m *entity.Manufacturer) error {
	if _, ok := r.state.manufacturers[m.ID]; !ok {
		return repository.ErrManufacturerNotFound
	}
	r.state.manufacturers[m.ID] = cloneManufacturer(m)

	return nil
}

func (r *fakeManufacturerRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.state.manufacturers[id]; !ok {
		return repository.ErrManufacturerNotFound
	}
	delete(r.state.manufacturers, id)

	return nil
}

type fakeTraderRepo struct{ state *memState }

func (r *fakeTraderRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Trader, error) {
	t, ok := r.state.traders[id]
	if !ok {
		return nil, repository.ErrTraderNotFound
	}

	return cloneTrader(t), nil
}

func (r *fakeTraderRepo) FindByEmail(_ context.Context, email string) (*entity.Trader, error) {
	for _, t := range r.state.traders {
		if t.Email == email {
			return cloneTrader(t), nil
		}
	}

	return nil, repository.ErrTraderNotFound
}

func (r *fakeTraderRepo) FindByTitle(_ context.Context, title string) ([]*entity.Trader, error) {
	var found []*entity.Trader
	for _, t := range r.state.traders {
		if t.Title == title {
			found = append(found, cloneTrader(t))
		}
	}

	return found, nil
}

func (r *fakeTraderRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*entity.Trader, error) {
	var found []*entity.Trader
	for _, id := range ids {
		if t, ok := r.state.traders[id]; ok {
			found = append(found, cloneTrader(t))
		}
	}

	return found, nil
}

func (r *fakeTraderRepo) ListPageByIDs(_ context.Context, ids []uuid.UUID, page, size int) ([]*entity.Trader, error) {
	var found []*entity.Trader
	for _, id := range ids {
		if t, ok := r.state.traders[id]; ok {
			found = append(found, cloneTrader(t))
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Title < found[j].Title })

	return pageSlice(found, page, size), nil
}

func (r *fakeTraderRepo) ListNotLinkedTo(_ context.Context, manufacturerID uuid.UUID) ([]*entity.Trader, error) {
	var found []*entity.Trader
	for _, t := range r.state.traders {
		if !t.Manufacturers.Contains(manufacturerID) {
			found = append(found, cloneTrader(t))
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Title < found[j].Title })

	return found, nil
}

func (r *fakeTraderRepo) List(_ context.Context, page, size int) ([]*entity.Trader, int64, error) {
	all := make([]*entity.Trader, 0, len(r.state.traders))
	for _, t := range r.state.traders {
		all = append(all, cloneTrader(t))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Title < all[j].Title })

	return pageSlice(all, page, size), int64(len(all)), nil
}

func (r *fakeTraderRepo) Create(_ context.Context, t *entity.Trader) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.state.traders[t.ID] = cloneTrader(t)

	return nil
}

func (r *fakeTraderRepo) Update(_ context.Context, t *entity.Trader) error {
	if _, ok := r.state.traders[t.ID]; !ok {
		return repository.ErrTraderNotFound
	}
	r.state.traders[t.ID] = cloneTrader(t)

	return nil
}

func (r *fakeTraderRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.state.traders[id]; !ok {
		return repository.ErrTraderNotFound
	}
	delete(r.state.traders, id)

	return nil
}

type fakeProductRepo struct{ state *memState }

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	p, ok := r.state.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}

	return cloneProduct(p), nil
}

func (r *fakeProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*entity.Product, error) {
	var found []*entity.Product
	for _, id := range ids {
		if p, ok := r.state.products[id]; ok {
			found = append(found, cloneProduct(p))
		}
	}

	return found, nil
}

func (r *fakeProductRepo) FindByManufacturerAndTitle(_ context.Context, manufacturerID uuid.UUID, title string) (*entity.Product, error) {
	for _, p := range r.state.products {
		if p.ManufacturerID == manufacturerID && p.Title == title {
			return cloneProduct(p), nil
		}
	}

	return nil, repository.ErrProductNotFound
}

func (r *fakeProductRepo) FindByFileKey(_ context.Context, field entity.FileField, key string) (*entity.Product, error) {
	for _, p := range r.state.products {
		if p.Files.Get(field) == key {
			return cloneProduct(p), nil
		}
	}

	return nil, repository.ErrProductNotFound
}

func (r *fakeProductRepo) ListByManufacturer(_ context.Context, manufacturerID uuid.UUID, category string, page, size int) ([]*entity.Product, int64, error) {
	return r.listWhere(func(p *entity.Product) bool {
		return p.ManufacturerID == manufacturerID && matchCategory(p, category)
	}, page, size)
}

func (r *fakeProductRepo) ListByTrader(_ context.Context, traderID uuid.UUID, category string, page, size int) ([]*entity.Product, int64, error) {
	return r.listWhere(func(p *entity.Product) bool {
		return p.Traders.Contains(traderID) && matchCategory(p, category)
	}, page, size)
}

func (r *fakeProductRepo) ListByTraderAndManufacturer(_ context.Context, traderID, manufacturerID uuid.UUID, category string, page, size int) ([]*entity.Product, int64, error) {
	return r.listWhere(func(p *entity.Product) bool {
		return p.Traders.Contains(traderID) && p.ManufacturerID == manufacturerID && matchCategory(p, category)
	}, page, size)
}

func (r *fakeProductRepo) listWhere(match func(*entity.Product) bool, page, size int) ([]*entity.Product, int64, error) {
	var found []*entity.Product
	for _, p := range r.state.products {
		if match(p) {
			found = append(found, cloneProduct(p))
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Title < found[j].Title })

	return pageSlice(found, page, size), int64(len(found)), nil
}

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.state.products[p.ID] = cloneProduct(p)

	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	if _, ok := r.state.products[p.ID]; !ok {
		return repository.ErrProductNotFound
	}
	r.state.products[p.ID] = cloneProduct(p)

	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.state.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(r.state.products, id)

	return nil
}

type fakeDashboardRepo struct{ state *memState }

func (r *fakeDashboardRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.TraderDashboard, error) {
	d, ok := r.state.dashboards[id]
	if !ok {
		return nil, repository.ErrTraderDashboardNotFound
	}

	return cloneDashboard(d), nil
}

func (r *fakeDashboardRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.TraderDashboard, error) {
	for _, d := range r.state.dashboards {
		if d.UserID == userID {
			return cloneDashboard(d), nil
		}
	}

	return nil, repository.ErrTraderDashboardNotFound
}

func (r *fakeDashboardRepo) Create(_ context.Context, d *entity.TraderDashboard) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.state.dashboards[d.ID] = cloneDashboard(d)

	return nil
}

func (r *fakeDashboardRepo) Update(_ context.Context, d *entity.TraderDashboard) error {
	if _, ok := r.state.dashboards[d.ID]; !ok {
		return repository.ErrTraderDashboardNotFound
	}
	r.state.dashboards[d.ID] = cloneDashboard(d)

	return nil
}

func (r *fakeDashboardRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.state.dashboards[id]; !ok {
		return repository.ErrTraderDashboardNotFound
	}
	delete(r.state.dashboards, id)

	return nil
}

func pageSlice[T any](items []T, page, size int) []T {
	start := (page - 1) * size
	if start >= len(items) {
		return nil
	}
	end := min(start+size, len(items))

	return items[start:end]
}

func matchCategory(p *entity.Product, category string) bool {
	return category == "" || p.Category == category
}

// --- Transaction manager ---

type fakeFactory struct{ state *memState }

func (f *fakeFactory) Users() repository.UserRepository { return &fakeUserRepo{state: f.state} }
func (f *fakeFactory) Manufacturers() repository.ManufacturerRepository {
	return &fakeManufacturerRepo{state: f.state}
}
func (f *fakeFactory) Traders() repository.TraderRepository { return &fakeTraderRepo{state: f.state} }
func (f *fakeFactory) Products() repository.ProductRepository {
	return &fakeProductRepo{state: f.state}
}
func (f *fakeFactory) Dashboards() repository.TraderDashboardRepository {
	return &fakeDashboardRepo{state: f.state}
}

// fakeTxManager snapshots the state before fn and restores it when fn fails,
// mirroring the commit/rollback contract of the real implementation.
type fakeTxManager struct{ state *memState }

func (m *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	snap := m.state.snapshot()
	if err := fn(&fakeFactory{state: m.state}); err != nil {
		m.state.restore(snap)

		return err
	}

	return nil
}

// --- Services ---

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (fakeHasher) Check(password, hash string) bool     { return hash == "hashed:"+password }

type fakeTokenService struct{}

func (fakeTokenService) Generate(auth *service.AuthContext) (string, error) {
	return "token:" + auth.Email, nil
}

func (fakeTokenService) Validate(string) (*service.AuthContext, error) {
	return nil, errors.New("not implemented")
}

type fakeBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string][]byte)}
}

func (s *fakeBlobStore) Write(_ context.Context, key string, r io.Reader, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data

	return nil
}

func (s *fakeBlobStore) Read(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, service.ErrBlobNotFound
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeBlobStore) Exists(_ context.Context, prefix string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			return true, nil
		}
	}

	return false, nil
}

func (s *fakeBlobStore) CopyPrefix(_ context.Context, srcPrefix, dstPrefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, data := range s.objects {
		if strings.HasPrefix(key, srcPrefix) {
			s.objects[dstPrefix+strings.TrimPrefix(key, srcPrefix)] = data
		}
	}

	return nil
}

func (s *fakeBlobStore) RemovePrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			delete(s.objects, key)
		}
	}

	return nil
}

func (s *fakeBlobStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]

	return ok
}

type relocateCall struct{ src, dst string }

// recordingRelocator captures housekeeping dispatches synchronously.
type recordingRelocator struct {
	mu        sync.Mutex
	relocates []relocateCall
	removes   []string
}

func (r *recordingRelocator) Relocate(srcPrefix, dstPrefix string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.relocates = append(r.relocates, relocateCall{src: srcPrefix, dst: dstPrefix})
}

func (r *recordingRelocator) Remove(prefix string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removes = append(r.removes, prefix)
}

// --- Fixture helpers ---

const (
	testAdminEmail  = "admin@tradeport.example"
	testPasswordSfx = "1234"
)

func testConfig() *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{BcryptCost: 4},
		Platform: &config.PlatformConfig{
			AdminEmail:           testAdminEmail,
			TraderPasswordSuffix: testPasswordSfx,
		},
	}

	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedAdmin(state *memState) *entity.User {
	admin := &entity.User{
		ID:            uuid.New(),
		Name:          "Platform Admin",
		Email:         testAdminEmail,
		Role:          entity.RoleManufacturer,
		Manufacturers: entity.RefSet{},
	}
	state.users[admin.ID] = admin

	return admin
}

// seedManufacturer creates an owner account together with its listing.
func seedManufacturer(state *memState, admin *entity.User, title, folder string) (*entity.User, *entity.Manufacturer) {
	owner := &entity.User{
		ID:            uuid.New(),
		Name:          title + " Owner",
		Email:         strings.ToLower(strings.ReplaceAll(title, " ", "")) + "@example.com",
		Role:          entity.RoleManufacturer,
		Folder:        folder,
		Manufacturers: entity.RefSet{},
	}
	state.users[owner.ID] = owner

	manufacturer := &entity.Manufacturer{
		ID:          uuid.New(),
		Title:       title,
		OwnerUserID: owner.ID,
		AdminUserID: admin.ID,
		Traders:     entity.RefSet{},
		Products:    entity.RefSet{},
	}
	state.manufacturers[manufacturer.ID] = manufacturer
	admin.Manufacturers.Push(manufacturer.ID)

	return owner, manufacturer
}

func seedProduct(state *memState, manufacturer *entity.Manufacturer, title string) *entity.Product {
	product := &entity.Product{
		ID:             uuid.New(),
		Folder:         title,
		Title:          title,
		ManufacturerID: manufacturer.ID,
		Traders:        entity.RefSet{},
	}
	state.products[product.ID] = product
	manufacturer.Products.Push(product.ID)

	return product
}

func seedTrader(state *memState, title, email string, manufacturers ...*entity.Manufacturer) (*entity.Trader, *entity.User) {
	trader := &entity.Trader{
		ID:            uuid.New(),
		Title:         title,
		Email:         email,
		Manufacturers: entity.RefSet{},
		Products:      entity.RefSet{},
	}
	for _, m := range manufacturers {
		trader.Manufacturers.Push(m.ID)
		m.Traders.Push(trader.ID)
	}
	state.traders[trader.ID] = trader

	paired := &entity.User{
		ID:            uuid.New(),
		Name:          title,
		Email:         email,
		PasswordHash:  "hashed:" + title + testPasswordSfx,
		Role:          entity.RoleTrader,
		Manufacturers: entity.RefSet{},
	}
	state.users[paired.ID] = paired

	return trader, paired
}

func authFor(user *entity.User) *service.AuthContext {
	return &service.AuthContext{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	}
}

package impl

import (
	"context"
	"sort"
	"time"

	"catalog/internal/domain/entity"
	"catalog/internal/domain/repository"
	"catalog/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// memStore is an in-memory stand-in for the persistence layer. Its
// transaction manager snapshots the whole store before running a unit of
// work and restores the snapshot when the unit fails, so tests observe real
// rollback semantics, including the fault-injection atomicity cases.
type memStore struct {
	users      map[uuid.UUID]*entity.User
	categories map[uuid.UUID]*entity.Category
	products   map[uuid.UUID]*entity.Product
	selections map[uuid.UUID]*entity.Selection
	lineItems  map[uuid.UUID]*entity.LineItem
	orders     map[uuid.UUID]*entity.Order

	// faults maps operation names (e.g. "selection.update", "order.create")
	// to errors the corresponding repository method should fail with.
	faults map[string]error

	// beforeLock runs inside FindByIDForUpdate, before the selection is
	// returned. Lets tests emulate a concurrent commit winning the race.
	beforeLock func(*entity.Selection)

	now time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[uuid.UUID]*entity.User),
		categories: make(map[uuid.UUID]*entity.Category),
		products:   make(map[uuid.UUID]*entity.Product),
		selections: make(map[uuid.UUID]*entity.Selection),
		lineItems:  make(map[uuid.UUID]*entity.LineItem),
		orders:     make(map[uuid.UUID]*entity.Order),
		faults:     make(map[string]error),
		now:        time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) tick() time.Time {
	s.now = s.now.Add(time.Second)

	return s.now
}

func (s *memStore) fail(op string) error {
	if err, ok := s.faults[op]; ok {
		return err
	}

	return nil
}

// --- snapshot / restore ---

type memSnapshot struct {
	users      map[uuid.UUID]*entity.User
	categories map[uuid.UUID]*entity.Category
	products   map[uuid.UUID]*entity.Product
	selections map[uuid.UUID]*entity.Selection
	lineItems  map[uuid.UUID]*entity.LineItem
	orders     map[uuid.UUID]*entity.Order
}

func (s *memStore) snapshot() *memSnapshot {
	snap := &memSnapshot{
		users:      make(map[uuid.UUID]*entity.User, len(s.users)),
		categories: make(map[uuid.UUID]*entity.Category, len(s.categories)),
		products:   make(map[uuid.UUID]*entity.Product, len(s.products)),
		selections: make(map[uuid.UUID]*entity.Selection, len(s.selections)),
		lineItems:  make(map[uuid.UUID]*entity.LineItem, len(s.lineItems)),
		orders:     make(map[uuid.UUID]*entity.Order, len(s.orders)),
	}
	for id, u := range s.users {
		snap.users[id] = cloneUser(u)
	}
	for id, c := range s.categories {
		snap.categories[id] = cloneCategory(c)
	}
	for id, p := range s.products {
		snap.products[id] = cloneProduct(p)
	}
	for id, sel := range s.selections {
		snap.selections[id] = cloneSelection(sel)
	}
	for _, sel := range snap.selections {
		for _, item := range sel.Items {
			snap.lineItems[item.ID] = item
		}
	}
	for id, o := range s.orders {
		snap.orders[id] = cloneOrder(o)
	}

	return snap
}

func (s *memStore) restore(snap *memSnapshot) {
	s.users = snap.users
	s.categories = snap.categories
	s.products = snap.products
	s.selections = snap.selections
	s.lineItems = snap.lineItems
	s.orders = snap.orders
}

func cloneUser(u *entity.User) *entity.User {
	cloned := *u

	return &cloned
}

func cloneCategory(c *entity.Category) *entity.Category {
	cloned := *c

	return &cloned
}

func cloneProduct(p *entity.Product) *entity.Product {
	cloned := *p

	return &cloned
}

func cloneSelection(sel *entity.Selection) *entity.Selection {
	cloned := *sel
	if sel.OwnerID != nil {
		ownerID := *sel.OwnerID
		cloned.OwnerID = &ownerID
	}
	if sel.AnonymousToken != nil {
		token := *sel.AnonymousToken
		cloned.AnonymousToken = &token
	}
	cloned.Items = make([]*entity.LineItem, 0, len(sel.Items))
	for _, item := range sel.Items {
		clonedItem := *item
		if item.OwnerID != nil {
			ownerID := *item.OwnerID
			clonedItem.OwnerID = &ownerID
		}
		cloned.Items = append(cloned.Items, &clonedItem)
	}

	return &cloned
}

func cloneOrder(o *entity.Order) *entity.Order {
	cloned := *o
	if o.Selection != nil {
		cloned.Selection = cloneSelection(o.Selection)
	}

	return &cloned
}

// --- transaction manager ---

type fakeTxManager struct {
	store *memStore
}

func newFakeTxManager(store *memStore) repository.TransactionManager {
	return &fakeTxManager{store: store}
}

func (m *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	snap := m.store.snapshot()

	if err := fn(&fakeFactory{store: m.store}); err != nil {
		m.store.restore(snap)

		return err
	}

	return nil
}

type fakeFactory struct {
	store *memStore
}

func (f *fakeFactory) UserRepo() repository.UserRepository           { return &fakeUserRepo{f.store} }
func (f *fakeFactory) CategoryRepo() repository.CategoryRepository   { return &fakeCategoryRepo{f.store} }
func (f *fakeFactory) ProductRepo() repository.ProductRepository     { return &fakeProductRepo{f.store} }
func (f *fakeFactory) SelectionRepo() repository.SelectionRepository { return &fakeSelectionRepo{f.store} }
func (f *fakeFactory) OrderRepo() repository.OrderRepository         { return &fakeOrderRepo{f.store} }

// --- repositories ---

type fakeUserRepo struct{ store *memStore }

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	if user, ok := r.store.users[id]; ok {
		return user, nil
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range r.store.users {
		if user.Email == email {
			return user, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	if err := r.store.fail("user.create"); err != nil {
		return err
	}
	user.ID = uuid.New()
	user.CreatedAt = r.store.tick()
	r.store.users[user.ID] = user

	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	if _, ok := r.store.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	r.store.users[user.ID] = user

	return nil
}

type fakeCategoryRepo struct{ store *memStore }

func (r *fakeCategoryRepo) FindAll(_ context.Context) ([]*entity.Category, error) {
	categories := make([]*entity.Category, 0, len(r.store.categories))
	for _, c := range r.store.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })

	return categories, nil
}

func (r *fakeCategoryRepo) FindBySlug(_ context.Context, slug string) (*entity.Category, error) {
	for _, c := range r.store.categories {
		if c.Slug == slug {
			return c, nil
		}
	}

	return nil, repository.ErrCategoryNotFound
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *entity.Category) error {
	category.ID = uuid.New()
	r.store.categories[category.ID] = category

	return nil
}

type fakeProductRepo struct{ store *memStore }

func (r *fakeProductRepo) FindAll(_ context.Context) ([]*entity.Product, error) {
	products := make([]*entity.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })

	return products, nil
}

func (r *fakeProductRepo) FindByCategorySlug(_ context.Context, categorySlug string) ([]*entity.Product, error) {
	var category *entity.Category
	for _, c := range r.store.categories {
		if c.Slug == categorySlug {
			category = c

			break
		}
	}
	if category == nil {
		return nil, nil
	}

	var products []*entity.Product
	for _, p := range r.store.products {
		if p.CategoryID == category.ID {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })

	return products, nil
}

func (r *fakeProductRepo) FindBySlug(_ context.Context, slug string) (*entity.Product, error) {
	for _, p := range r.store.products {
		if p.Slug == slug {
			return p, nil
		}
	}

	return nil, repository.ErrProductNotFound
}

func (r *fakeProductRepo) Create(_ context.Context, product *entity.Product) error {
	product.ID = uuid.New()
	r.store.products[product.ID] = product

	return nil
}

type fakeSelectionRepo struct{ store *memStore }

func (r *fakeSelectionRepo) FindOpenByOwner(_ context.Context, ownerID uuid.UUID) (*entity.Selection, error) {
	if err := r.store.fail("selection.findOpenByOwner"); err != nil {
		return nil, err
	}
	for _, sel := range r.store.selections {
		if sel.OwnerID != nil && *sel.OwnerID == ownerID && !sel.InOrder {
			return sel, nil
		}
	}

	return nil, repository.ErrSelectionNotFound
}

func (r *fakeSelectionRepo) FindOpenByToken(_ context.Context, token string) (*entity.Selection, error) {
	for _, sel := range r.store.selections {
		if sel.AnonymousToken != nil && *sel.AnonymousToken == token && !sel.InOrder {
			return sel, nil
		}
	}

	return nil, repository.ErrSelectionNotFound
}

func (r *fakeSelectionRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*entity.Selection, error) {
	sel, ok := r.store.selections[id]
	if !ok {
		return nil, repository.ErrSelectionNotFound
	}
	if r.store.beforeLock != nil {
		r.store.beforeLock(sel)
	}

	return sel, nil
}

func (r *fakeSelectionRepo) Create(_ context.Context, selection *entity.Selection) error {
	if err := r.store.fail("selection.create"); err != nil {
		return err
	}
	selection.ID = uuid.New()
	selection.CreatedAt = r.store.tick()
	r.store.selections[selection.ID] = selection

	return nil
}

func (r *fakeSelectionRepo) Update(_ context.Context, selection *entity.Selection) error {
	if err := r.store.fail("selection.update"); err != nil {
		return err
	}
	if _, ok := r.store.selections[selection.ID]; !ok {
		return repository.ErrSelectionNotFound
	}
	r.store.selections[selection.ID] = selection

	return nil
}

func (r *fakeSelectionRepo) CreateLineItem(_ context.Context, item *entity.LineItem) error {
	if err := r.store.fail("lineItem.create"); err != nil {
		return err
	}
	item.ID = uuid.New()
	item.CreatedAt = r.store.tick()
	r.store.lineItems[item.ID] = item

	return nil
}

func (r *fakeSelectionRepo) UpdateLineItem(_ context.Context, item *entity.LineItem) error {
	if err := r.store.fail("lineItem.update"); err != nil {
		return err
	}
	if _, ok := r.store.lineItems[item.ID]; !ok {
		return repository.ErrLineItemNotFound
	}
	r.store.lineItems[item.ID] = item

	return nil
}

func (r *fakeSelectionRepo) DeleteLineItem(_ context.Context, item *entity.LineItem) error {
	if err := r.store.fail("lineItem.delete"); err != nil {
		return err
	}
	if _, ok := r.store.lineItems[item.ID]; !ok {
		return repository.ErrLineItemNotFound
	}
	delete(r.store.lineItems, item.ID)

	return nil
}

type fakeOrderRepo struct{ store *memStore }

func (r *fakeOrderRepo) Create(_ context.Context, order *entity.Order) error {
	if err := r.store.fail("order.create"); err != nil {
		return err
	}
	order.ID = uuid.New()
	order.CreatedAt = r.store.tick()
	r.store.orders[order.ID] = order

	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	if order, ok := r.store.orders[id]; ok {
		return order, nil
	}

	return nil, repository.ErrOrderNotFound
}

func (r *fakeOrderRepo) FindByUser(_ context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	var orders []*entity.Order
	for _, order := range r.store.orders {
		if order.UserID == userID {
			orders = append(orders, order)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })

	return orders, nil
}

// --- auth service fakes ---

type fakePasswordHasher struct{}

func (fakePasswordHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakePasswordHasher) Check(password, hash string) bool {
	return hash == "hashed:"+password
}

type fakeTokenService struct{}

func (fakeTokenService) GenerateTokens(userID uuid.UUID) (string, string, error) {
	return "access-" + userID.String(), "refresh-" + userID.String(), nil
}

func (fakeTokenService) ValidateAccessToken(string) (*service.Claims, error) {
	return nil, errors.New("not implemented in fake")
}

func (fakeTokenService) GetRefreshTokenDuration() time.Duration {
	return time.Hour
}

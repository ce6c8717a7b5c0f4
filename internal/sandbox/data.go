package sandbox

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/adarsh-naik-2004/bats-admin/internal/domain"
)

type userRecord struct {
	domain.User
	Password string
}

// database is the sandbox's in-memory state. Insertion order is preserved per
// collection so listings are stable across calls.
type database struct {
	clock clockwork.Clock

	mu         sync.Mutex
	users      map[string]*userRecord
	userOrder  []string
	stores     map[string]*domain.Store
	storeOrder []string
	categories map[string]*domain.Category
	catOrder   []string
	products   map[string]*domain.Product
	prodOrder  []string
	orders     map[string]*domain.Order
	coupons    map[string]*domain.Coupon
	coupOrder  []string
}

func newDatabase(clock clockwork.Clock) *database {
	return &database{
		clock:      clock,
		users:      make(map[string]*userRecord),
		stores:     make(map[string]*domain.Store),
		categories: make(map[string]*domain.Category),
		products:   make(map[string]*domain.Product),
		orders:     make(map[string]*domain.Order),
		coupons:    make(map[string]*domain.Coupon),
	}
}

func (db *database) insertUser(u domain.User, password string) *domain.User {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = db.clock.Now()

	db.mu.Lock()
	defer db.mu.Unlock()
	db.users[u.ID] = &userRecord{User: u, Password: password}
	db.userOrder = append(db.userOrder, u.ID)
	copied := u
	return &copied
}

func (db *database) userByEmail(email string) (*userRecord, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, id := range db.userOrder {
		if u := db.users[id]; u != nil && strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, true
		}
	}
	return nil, false
}

func (db *database) userByID(id string) (*domain.User, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	u, ok := db.users[id]
	if !ok {
		return nil, false
	}
	copied := u.User
	return &copied, true
}

func (db *database) listUsers(role domain.Role, q string, perPage, currentPage int) ([]domain.User, int) {
	db.mu.Lock()
	matched := make([]domain.User, 0, len(db.userOrder))
	for _, id := range db.userOrder {
		u := db.users[id]
		if role != "" && u.Role != role {
			continue
		}
		if q != "" && !matchesQuery(q, u.FirstName, u.LastName, u.Email) {
			continue
		}
		matched = append(matched, u.User)
	}
	db.mu.Unlock()
	return paginate(matched, perPage, currentPage)
}

func (db *database) updateUser(id string, payload domain.CreateUser, store *domain.Store) (*domain.User, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	u, ok := db.users[id]
	if !ok {
		return nil, false
	}
	u.Email = payload.Email
	u.FirstName = payload.FirstName
	u.LastName = payload.LastName
	u.Role = payload.Role
	u.Store = store
	if payload.Password != "" {
		u.Password = payload.Password
	}
	copied := u.User
	return &copied, true
}

func (db *database) deleteUser(id string) bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.users[id]; !ok {
		return false
	}
	delete(db.users, id)
	db.userOrder = removeID(db.userOrder, id)
	return true
}

func (db *database) insertStore(s domain.Store) *domain.Store {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	copied := s
	db.stores[s.ID] = &copied
	db.storeOrder = append(db.storeOrder, s.ID)
	result := s
	return &result
}

func (db *database) storeByID(id string) (*domain.Store, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	s, ok := db.stores[id]
	if !ok {
		return nil, false
	}
	copied := *s
	return &copied, true
}

func (db *database) listStores(q string, perPage, currentPage int) ([]domain.Store, int) {
	db.mu.Lock()
	matched := make([]domain.Store, 0, len(db.storeOrder))
	for _, id := range db.storeOrder {
		s := db.stores[id]
		if q != "" && !matchesQuery(q, s.Name, s.Address) {
			continue
		}
		matched = append(matched, *s)
	}
	db.mu.Unlock()
	return paginate(matched, perPage, currentPage)
}

func (db *database) updateStore(id string, payload domain.CreateStore) (*domain.Store, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	s, ok := db.stores[id]
	if !ok {
		return nil, false
	}
	s.Name = payload.Name
	s.Address = payload.Address
	copied := *s
	return &copied, true
}

func (db *database) deleteStore(id string) bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.stores[id]; !ok {
		return false
	}
	delete(db.stores, id)
	db.storeOrder = removeID(db.storeOrder, id)
	return true
}

func (db *database) insertCategory(cat domain.Category) *domain.Category {
	if cat.ID == "" {
		cat.ID = uuid.NewString()
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	copied := cat
	db.categories[cat.ID] = &copied
	db.catOrder = append(db.catOrder, cat.ID)
	result := cat
	return &result
}

func (db *database) categoryByID(id string) (*domain.Category, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	cat, ok := db.categories[id]
	if !ok {
		return nil, false
	}
	copied := *cat
	return &copied, true
}

func (db *database) listCategories() []domain.Category {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]domain.Category, 0, len(db.catOrder))
	for _, id := range db.catOrder {
		out = append(out, *db.categories[id])
	}
	return out
}

func (db *database) updateCategory(id string, payload domain.Category) (*domain.Category, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	cat, ok := db.categories[id]
	if !ok {
		return nil, false
	}
	cat.Name = payload.Name
	cat.PriceConfiguration = payload.PriceConfiguration
	cat.Attributes = payload.Attributes
	copied := *cat
	return &copied, true
}

func (db *database) deleteCategory(id string) bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.categories[id]; !ok {
		return false
	}
	delete(db.categories, id)
	db.catOrder = removeID(db.catOrder, id)
	return true
}

func (db *database) insertProduct(p domain.Product) *domain.Product {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = db.clock.Now()
	db.mu.Lock()
	defer db.mu.Unlock()
	copied := p
	db.products[p.ID] = &copied
	db.prodOrder = append(db.prodOrder, p.ID)
	result := p
	return &result
}

type productQuery struct {
	q          string
	categoryID string
	storeID    string
	isPublish  *bool
	page       int
	limit      int
}

func (db *database) listProducts(pq productQuery) ([]domain.Product, int) {
	db.mu.Lock()
	matched := make([]domain.Product, 0, len(db.prodOrder))
	for _, id := range db.prodOrder {
		p := db.products[id]
		if pq.q != "" && !matchesQuery(pq.q, p.Name, p.Description) {
			continue
		}
		if pq.categoryID != "" && p.CategoryID != pq.categoryID {
			continue
		}
		if pq.storeID != "" && p.StoreID != pq.storeID {
			continue
		}
		if pq.isPublish != nil && p.IsPublish != *pq.isPublish {
			continue
		}
		matched = append(matched, *p)
	}
	db.mu.Unlock()
	return paginate(matched, pq.limit, pq.page)
}

func (db *database) updateProduct(id string, p domain.Product) (*domain.Product, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	existing, ok := db.products[id]
	if !ok {
		return nil, false
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	if p.Image == "" {
		p.Image = existing.Image
	}
	*existing = p
	copied := *existing
	return &copied, true
}

func (db *database) insertOrder(o domain.Order) *domain.Order {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.CreatedAt = db.clock.Now()
	if o.OrderStatus == "" {
		o.OrderStatus = domain.OrderReceived
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	copied := o
	db.orders[o.ID] = &copied
	result := o
	return &result
}

func (db *database) orderByID(id string) (*domain.Order, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	o, ok := db.orders[id]
	if !ok {
		return nil, false
	}
	copied := *o
	return &copied, true
}

func (db *database) listOrders(storeID string, limit, page int) ([]domain.Order, int) {
	db.mu.Lock()
	matched := make([]domain.Order, 0, len(db.orders))
	for _, o := range db.orders {
		if storeID != "" && o.StoreID != storeID {
			continue
		}
		matched = append(matched, *o)
	}
	db.mu.Unlock()

	// Newest first, as the dashboard renders them.
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return paginate(matched, limit, page)
}

func (db *database) setOrderStatus(id string, status domain.OrderStatus) (*domain.Order, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	o, ok := db.orders[id]
	if !ok {
		return nil, false
	}
	o.OrderStatus = status
	copied := *o
	return &copied, true
}

func (db *database) insertCoupon(c domain.Coupon) *domain.Coupon {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	copied := c
	db.coupons[c.ID] = &copied
	db.coupOrder = append(db.coupOrder, c.ID)
	result := c
	return &result
}

func (db *database) listCoupons(storeID string, isActive *bool) []domain.Coupon {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]domain.Coupon, 0, len(db.coupOrder))
	for _, id := range db.coupOrder {
		c := db.coupons[id]
		if storeID != "" && c.StoreID != storeID {
			continue
		}
		if isActive != nil && c.IsActive != *isActive {
			continue
		}
		out = append(out, *c)
	}
	return out
}

func (db *database) updateCoupon(id string, payload domain.CreateCoupon) (*domain.Coupon, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	c, ok := db.coupons[id]
	if !ok {
		return nil, false
	}
	c.Title = payload.Title
	c.Code = payload.Code
	c.Discount = payload.Discount
	c.ValidUpto = payload.ValidUpto
	c.StoreID = payload.StoreID
	copied := *c
	return &copied, true
}

func (db *database) setCouponActive(id string, active bool) bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	c, ok := db.coupons[id]
	if !ok {
		return false
	}
	c.IsActive = active
	return true
}

func matchesQuery(q string, fields ...string) bool {
	q = strings.ToLower(q)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, perPage, page int) ([]T, int) {
	total := len(items)
	if perPage <= 0 {
		return items, total
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * perPage
	if start >= total {
		return []T{}, total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return items[start:end], total
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// seed loads a small demo data set. Credentials are intentionally trivial,
// this server never faces the internet.
func (db *database) seed() {
	downtown := db.insertStore(domain.Store{Name: "Downtown", Address: "12 Main Street"})
	uptown := db.insertStore(domain.Store{Name: "Uptown", Address: "87 Hill Road"})

	db.insertUser(domain.User{
		FirstName: "Ada",
		LastName:  "Admin",
		Email:     "admin@example.com",
		Role:      domain.RoleAdmin,
	}, "admin-secret")
	db.insertUser(domain.User{
		FirstName: "Manu",
		LastName:  "Manager",
		Email:     "manager@example.com",
		Role:      domain.RoleManager,
		Store:     downtown,
	}, "manager-secret")
	db.insertUser(domain.User{
		FirstName: "Carla",
		LastName:  "Customer",
		Email:     "customer@example.com",
		Role:      domain.RoleCustomer,
	}, "customer-secret")

	pizza := db.insertCategory(domain.Category{
		Name: "Pizza",
		PriceConfiguration: map[string]domain.CategoryPrice{
			"Size":  {PriceType: domain.PriceTypeBase, AvailableOptions: []string{"Small", "Medium", "Large"}},
			"Crust": {PriceType: domain.PriceTypeAdditional, AvailableOptions: []string{"Thin", "Thick"}},
		},
		Attributes: []domain.CategoryAttribute{
			{Name: "isHit", WidgetType: domain.WidgetSwitch, DefaultValue: "No", AvailableOptions: []string{"Yes", "No"}},
		},
	})

	db.insertProduct(domain.Product{
		Name:        "Margherita",
		Description: "Tomato, mozzarella, basil",
		Image:       "margherita.png",
		CategoryID:  pizza.ID,
		StoreID:     downtown.ID,
		IsPublish:   true,
		PriceConfiguration: map[string]domain.ProductPrice{
			"Size": {PriceType: domain.PriceTypeBase, AvailableOptions: map[string]float64{"Small": 400, "Medium": 600, "Large": 800}},
		},
	})
	db.insertProduct(domain.Product{
		Name:        "Pepperoni",
		Description: "Loaded with pepperoni",
		Image:       "pepperoni.png",
		CategoryID:  pizza.ID,
		StoreID:     uptown.ID,
		IsPublish:   true,
		PriceConfiguration: map[string]domain.ProductPrice{
			"Size": {PriceType: domain.PriceTypeBase, AvailableOptions: map[string]float64{"Small": 500, "Medium": 700, "Large": 900}},
		},
	})

	db.insertCoupon(domain.Coupon{
		Title:     "Launch week",
		Code:      "LAUNCH20",
		Discount:  20,
		ValidUpto: db.clock.Now().Add(30 * 24 * time.Hour),
		StoreID:   downtown.ID,
		IsActive:  true,
	})

	db.insertOrder(domain.Order{
		Cart: []domain.CartItem{{
			Name:  "Margherita",
			Image: "margherita.png",
			Qty:   2,
			ChosenConfiguration: domain.ChosenConfiguration{
				PriceConfiguration: map[string]string{"Size": "Medium"},
				SelectedToppings:   []domain.Topping{},
			},
		}},
		Customer:      &domain.Customer{ID: uuid.NewString(), FirstName: "Carla", LastName: "Customer"},
		Address:       "5 River Lane",
		PaymentMode:   domain.PaymentCash,
		PaymentStatus: domain.PaymentPaid,
		OrderStatus:   domain.OrderConfirmed,
		StoreID:       downtown.ID,
		Total:         1200,
	})
}

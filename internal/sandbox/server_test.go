package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adarsh-naik-2004/bats-admin/internal/api"
	"github.com/adarsh-naik-2004/bats-admin/internal/domain"
	"github.com/adarsh-naik-2004/bats-admin/internal/realtime"
	"github.com/adarsh-naik-2004/bats-admin/internal/session"
)

type testEnv struct {
	srv    *Server
	http   *httptest.Server
	clock  *clockwork.FakeClock
	client *api.Client
	wsURL  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clock := clockwork.NewFakeClockAt(time.Now())
	srv := NewServer(Options{AccessTTL: time.Minute, RefreshTTL: time.Hour, Clock: clock})
	srv.Seed()
	t.Cleanup(func() { srv.hub.stop() })

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	client, err := api.NewClient(ts.URL, api.WithReauth(api.ReauthHooks{
		HasSession: func() bool { return true },
	}))
	require.NoError(t, err)

	return &testEnv{
		srv:    srv,
		http:   ts,
		clock:  clock,
		client: client,
		wsURL:  "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/order/ws",
	}
}

func (e *testEnv) loginAdmin(t *testing.T) {
	t.Helper()
	err := e.client.Auth.Login(context.Background(), api.Credentials{Email: "admin@example.com", Password: "admin-secret"})
	require.NoError(t, err)
}

func (e *testEnv) loginManager(t *testing.T) {
	t.Helper()
	err := e.client.Auth.Login(context.Background(), api.Credentials{Email: "manager@example.com", Password: "manager-secret"})
	require.NoError(t, err)
}

// postOrder submits an order the way the customer-facing app would, using the
// current session cookies.
func (e *testEnv) postOrder(t *testing.T, storeID string) domain.Order {
	t.Helper()

	payload, err := json.Marshal(domain.Order{
		Cart:    []domain.CartItem{{Name: "Margherita", Qty: 1}},
		Address: "1 Test Street",
		StoreID: storeID,
		Total:   600,
	})
	require.NoError(t, err)

	httpClient := &http.Client{Jar: e.client.CookieJar()}
	resp, err := httpClient.Post(e.http.URL+"/api/order/orders", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var order domain.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&order))
	return order
}

func TestLoginSelfRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	env.loginAdmin(t)

	user, err := env.client.Auth.Self(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "admin@example.com", user.Email)
	assert.Equal(t, domain.RoleAdmin, user.Role)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	env := newTestEnv(t)

	err := env.client.Auth.Login(context.Background(), api.Credentials{Email: "admin@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestSelfWithoutSessionIs401(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.client.Auth.Self(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestExpiredAccessTokenIsSilentlyRefreshed(t *testing.T) {
	env := newTestEnv(t)
	env.loginAdmin(t)

	// Past the access TTL, inside the refresh TTL: the next call 401s, the
	// client refreshes and replays without the caller noticing.
	env.clock.Advance(2 * time.Minute)

	user, err := env.client.Auth.Self(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
}

func TestLogoutRevokesTheSession(t *testing.T) {
	env := newTestEnv(t)
	env.loginAdmin(t)

	require.NoError(t, env.client.Auth.Logout(context.Background()))

	_, err := env.client.Auth.Self(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestManagerSessionSurvivesAuthorization(t *testing.T) {
	env := newTestEnv(t)
	manager := session.NewManager(env.client.Auth)

	sess, err := manager.Authenticate(context.Background(), api.Credentials{Email: "manager@example.com", Password: "manager-secret"})
	require.NoError(t, err)

	require.NotNil(t, sess.User.Store)
	assert.Equal(t, "Downtown", sess.User.Store.Name)
}

func TestCustomerIsRejectedAndRevoked(t *testing.T) {
	env := newTestEnv(t)
	manager := session.NewManager(env.client.Auth)

	_, err := manager.Authenticate(context.Background(), api.Credentials{Email: "customer@example.com", Password: "customer-secret"})
	require.ErrorIs(t, err, domain.ErrAuthorizationDenied)

	// The remote session was signed out too.
	_, err = env.client.Auth.Self(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestUserAdministrationIsAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	env.loginManager(t)

	_, err := env.client.Users.List(context.Background(), api.UserFilter{})
	require.Error(t, err)
	assert.True(t, api.IsStatus(err, http.StatusForbidden))
}

func TestUserCRUD(t *testing.T) {
	env := newTestEnv(t)
	env.loginAdmin(t)
	ctx := context.Background()

	stores, err := env.client.Stores.List(ctx, api.PageQuery{})
	require.NoError(t, err)
	require.NotEmpty(t, stores.Data)

	created, err := env.client.Users.Create(ctx, domain.CreateUser{
		Email:     "new.manager@example.com",
		FirstName: "New",
		LastName:  "Manager",
		Password:  "pw-123456",
		Role:      domain.RoleManager,
		StoreID:   stores.Data[0].ID,
	})
	require.NoError(t, err)
	require.NotNil(t, created.Store)

	filtered, err := env.client.Users.List(ctx, api.UserFilter{Role: domain.RoleManager, PageQuery: api.PageQuery{Q: "new.manager"}})
	require.NoError(t, err)
	require.Len(t, filtered.Data, 1)
	assert.Equal(t, created.ID, filtered.Data[0].ID)

	updated, err := env.client.Users.Update(ctx, created.ID, domain.CreateUser{
		Email:     created.Email,
		FirstName: "Renamed",
		LastName:  "Manager",
		Role:      domain.RoleManager,
		StoreID:   stores.Data[0].ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.FirstName)

	require.NoError(t, env.client.Users.Delete(ctx, created.ID))
	gone, err := env.client.Users.List(ctx, api.UserFilter{PageQuery: api.PageQuery{Q: "new.manager"}})
	require.NoError(t, err)
	assert.Empty(t, gone.Data)
}

func TestUsersPagination(t *testing.T) {
	env := newTestEnv(t)
	env.loginAdmin(t)
	ctx := context.Background()

	page1, err := env.client.Users.List(ctx, api.UserFilter{PageQuery: api.PageQuery{PerPage: 2, CurrentPage: 1}})
	require.NoError(t, err)
	assert.Len(t, page1.Data, 2)
	assert.Equal(t, 3, page1.Total)

	page2, err := env.client.Users.List(ctx, api.UserFilter{PageQuery: api.PageQuery{PerPage: 2, CurrentPage: 2}})
	require.NoError(t, err)
	assert.Len(t, page2.Data, 1)
}

func TestCategoryCRUD(t *testing.T) {
	env := newTestEnv(t)
	env.loginAdmin(t)
	ctx := context.Background()

	created, err := env.client.Categories.Create(ctx, domain.Category{
		Name: "Drinks",
		PriceConfiguration: map[string]domain.CategoryPrice{
			"Size": {PriceType: domain.PriceTypeBase, AvailableOptions: []string{"Small", "Large"}},
		},
	})
	require.NoError(t, err)

	fetched, err := env.client.Categories.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Drinks", fetched.Name)

	created.Name = "Beverages"
	updated, err := env.client.Categories.Update(ctx, created.ID, *created)
	require.NoError(t, err)
	assert.Equal(t, "Beverages", updated.Name)

	require.NoError(t, env.client.Categories.Delete(ctx, created.ID))
	_, err = env.client.Categories.Get(ctx, created.ID)
	assert.True(t, api.IsStatus(err, http.StatusNotFound))
}

func TestProductMultipartCreate(t *testing.T) {
	env := newTestEnv(t)
	env.loginAdmin(t)
	ctx := context.Background()

	categories, err := env.client.Categories.List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, categories)

	stores, err := env.client.Stores.List(ctx, api.PageQuery{})
	require.NoError(t, err)

	created, err := env.client.Products.Create(ctx, domain.CreateProduct{
		Name:        "Quattro Formaggi",
		Description: "Four cheeses",
		CategoryID:  categories[0].ID,
		StoreID:     stores.Data[0].ID,
		IsPublish:   true,
		PriceConfiguration: map[string]domain.ProductPrice{
			"Size": {PriceType: domain.PriceTypeBase, AvailableOptions: map[string]float64{"Small": 550}},
		},
		ImageName: "quattro.png",
		Image:     []byte{0x89, 0x50, 0x4e, 0x47},
	})
	require.NoError(t, err)

	assert.Equal(t, "quattro.png", created.Image)
	require.Contains(t, created.PriceConfiguration, "Size")
	assert.Equal(t, 550.0, created.PriceConfiguration["Size"].AvailableOptions["Small"])

	listed, err := env.client.Products.List(ctx, api.ProductFilter{Q: "quattro"})
	require.NoError(t, err)
	require.Len(t, listed.Data, 1)
}

func TestOrdersListNewestFirstAndScoped(t *testing.T) {
	env := newTestEnv(t)
	env.loginAdmin(t)
	ctx := context.Background()

	stores, err := env.client.Stores.List(ctx, api.PageQuery{})
	require.NoError(t, err)
	require.Len(t, stores.Data, 2)
	downtown, uptown := stores.Data[0], stores.Data[1]

	env.clock.Advance(time.Second)
	latest := env.postOrder(t, uptown.ID)

	all, err := env.client.Orders.List(ctx, api.OrderFilter{})
	require.NoError(t, err)
	require.GreaterOrEqual(t, all.Total, 2)
	assert.Equal(t, latest.ID, all.Data[0].ID, "newest order first")

	scoped, err := env.client.Orders.List(ctx, api.OrderFilter{StoreID: downtown.ID})
	require.NoError(t, err)
	for _, o := range scoped.Data {
		assert.Equal(t, downtown.ID, o.StoreID)
	}
}

func TestOrderStatusChange(t *testing.T) {
	env := newTestEnv(t)
	env.loginAdmin(t)
	ctx := context.Background()

	orders, err := env.client.Orders.List(ctx, api.OrderFilter{})
	require.NoError(t, err)
	require.NotEmpty(t, orders.Data)
	id := orders.Data[0].ID

	order, err := env.client.Orders.ChangeStatus(ctx, id, domain.OrderPrepared)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPrepared, order.OrderStatus)

	_, err = env.client.Orders.ChangeStatus(ctx, id, domain.OrderStatus("teleported"))
	assert.True(t, api.IsStatus(err, http.StatusBadRequest))
}

func TestCouponLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.loginAdmin(t)
	ctx := context.Background()

	stores, err := env.client.Stores.List(ctx, api.PageQuery{})
	require.NoError(t, err)

	created, err := env.client.Coupons.Create(ctx, domain.CreateCoupon{
		Title:     "Weekend deal",
		Code:      "WEEKEND10",
		Discount:  10,
		ValidUpto: time.Now().Add(48 * time.Hour),
		StoreID:   stores.Data[0].ID,
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	require.NoError(t, env.client.Coupons.Deactivate(ctx, created.ID))

	active := true
	listed, err := env.client.Coupons.List(ctx, api.CouponFilter{StoreID: stores.Data[0].ID, IsActive: &active})
	require.NoError(t, err)
	for _, c := range listed {
		assert.NotEqual(t, created.ID, c.ID, "deactivated coupon must not list as active")
	}

	require.NoError(t, env.client.Coupons.Reactivate(ctx, created.ID))
	listed, err = env.client.Coupons.List(ctx, api.CouponFilter{StoreID: stores.Data[0].ID, IsActive: &active})
	require.NoError(t, err)

	found := false
	for _, c := range listed {
		found = found || c.ID == created.ID
	}
	assert.True(t, found)
}

func waitForEvent(t *testing.T, events <-chan domain.OrderEvent) domain.OrderEvent {
	t.Helper()
	select {
	case evt := <-events:
		return evt
	case <-time.After(3 * time.Second):
		t.Fatal("no order event arrived")
		return domain.OrderEvent{}
	}
}

func TestAdminReceivesOrderEventsForEveryStore(t *testing.T) {
	env := newTestEnv(t)
	env.loginAdmin(t)
	ctx := context.Background()

	events := make(chan domain.OrderEvent, 16)
	notifier := realtime.NewNotifier(env.wsURL, env.client.CookieJar())
	sub, err := notifier.Connect(ctx, domain.Scope{AllStores: true}, func(evt domain.OrderEvent) { events <- evt })
	require.NoError(t, err)
	t.Cleanup(sub.Dispose)

	stores, err := env.client.Stores.List(ctx, api.PageQuery{})
	require.NoError(t, err)

	created := env.postOrder(t, stores.Data[1].ID)
	evt := waitForEvent(t, events)

	assert.Equal(t, created.ID, evt.Order.ID)
	assert.Equal(t, domain.OrderReceived, evt.Order.OrderStatus)
}

func TestManagerReceivesOnlyOwnStoreEvents(t *testing.T) {
	env := newTestEnv(t)
	env.loginManager(t)
	ctx := context.Background()

	self, err := env.client.Auth.Self(ctx)
	require.NoError(t, err)
	require.NotNil(t, self.Store)

	events := make(chan domain.OrderEvent, 16)
	notifier := realtime.NewNotifier(env.wsURL, env.client.CookieJar())
	sub, err := notifier.Connect(ctx, domain.Scope{StoreID: self.Store.ID}, func(evt domain.OrderEvent) { events <- evt })
	require.NoError(t, err)
	t.Cleanup(sub.Dispose)

	// An order for the other store, then one for the manager's own.
	var otherStore string
	stores, _ := env.srv.db.listStores("", 0, 1)
	for _, s := range stores {
		if s.ID != self.Store.ID {
			otherStore = s.ID
		}
	}
	require.NotEmpty(t, otherStore)

	env.postOrder(t, otherStore)
	own := env.postOrder(t, self.Store.ID)

	evt := waitForEvent(t, events)
	assert.Equal(t, own.ID, evt.Order.ID, "the foreign store's order must never reach the manager")
}

func TestManagerCannotJoinForeignStoreRoom(t *testing.T) {
	env := newTestEnv(t)
	env.loginManager(t)
	ctx := context.Background()

	self, err := env.client.Auth.Self(ctx)
	require.NoError(t, err)

	stores, _ := env.srv.db.listStores("", 0, 1)
	var foreign string
	for _, s := range stores {
		if s.ID != self.Store.ID {
			foreign = s.ID
		}
	}
	require.NotEmpty(t, foreign)

	notifier := realtime.NewNotifier(env.wsURL, env.client.CookieJar())
	_, err = notifier.Connect(ctx, domain.Scope{StoreID: foreign}, func(domain.OrderEvent) {})
	require.Error(t, err, "the server must reject a manager joining another store's room")
}

func TestManagerCannotJoinAdminRoom(t *testing.T) {
	env := newTestEnv(t)
	env.loginManager(t)

	notifier := realtime.NewNotifier(env.wsURL, env.client.CookieJar())
	_, err := notifier.Connect(context.Background(), domain.Scope{AllStores: true}, func(domain.OrderEvent) {})
	require.Error(t, err)
}

func TestWebSocketRequiresAuthentication(t *testing.T) {
	env := newTestEnv(t)

	notifier := realtime.NewNotifier(env.wsURL, nil)
	_, err := notifier.Connect(context.Background(), domain.Scope{AllStores: true}, func(domain.OrderEvent) {})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

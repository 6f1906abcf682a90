package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/HarshwardhanZalte/NearBasket-backend/internal/model"
	"github.com/HarshwardhanZalte/NearBasket-backend/internal/store"
	"github.com/HarshwardhanZalte/NearBasket-backend/pkg/config"
	"github.com/HarshwardhanZalte/NearBasket-backend/pkg/jwtutil"
)

// fakeSender records outbound SMS messages for inspection.
type fakeSender struct {
	mu       sync.Mutex
	messages []string
	mobiles  []string
	err      error
}

func (f *fakeSender) Send(ctx context.Context, mobileNumber, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.mobiles = append(f.mobiles, mobileNumber)
	f.messages = append(f.messages, message)
	return nil
}

// lastCode extracts the OTP code from the most recent message.
func (f *fakeSender) lastCode(t *testing.T) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.messages, "no OTP message was sent")
	message := f.messages[len(f.messages)-1]
	idx := strings.LastIndex(message, ": ")
	require.GreaterOrEqual(t, idx, 0, "unexpected OTP message format: %s", message)
	return message[idx+2:]
}

// testEnv wires the services against the in-memory store with a controllable
// clock and a recording SMS sender.
type testEnv struct {
	store  *store.MemoryStore
	auth   *AuthService
	shops  *ShopService
	items  *ProductService
	orders *OrderService
	sender *fakeSender
	jwt    *jwtutil.JWTUtil

	mu  sync.Mutex
	now time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		store:  store.NewMemoryStore(),
		sender: &fakeSender{},
		now:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	env.store.Now = env.clock
	env.jwt = jwtutil.NewJWTUtil(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})

	env.auth = NewAuthService(AuthServiceConfig{
		Store:  env.store,
		Clock:  env.clock,
		Sender: env.sender,
		JWT:    env.jwt,
		OTPTTL: 10 * time.Minute,
	})
	env.shops = NewShopService(env.store, nil)
	env.items = NewProductService(env.store, nil)
	env.orders = NewOrderService(env.store, nil)
	return env
}

func (e *testEnv) clock() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.now
}

func (e *testEnv) advance(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = e.now.Add(d)
}

// registerUser creates a user and returns its principal.
func (e *testEnv) registerUser(t *testing.T, mobile, name, role string) (Principal, *model.User) {
	t.Helper()
	user, err := e.auth.Register(context.Background(), RegisterRequest{
		MobileNumber: mobile,
		Name:         name,
		Role:         role,
	})
	require.NoError(t, err)
	return Principal{UserID: user.ID, Role: user.Role}, user
}

// newShop registers a shopkeeper with a shop.
func (e *testEnv) newShop(t *testing.T, mobile, name string) (Principal, *model.Shop) {
	t.Helper()
	owner, _ := e.registerUser(t, mobile, name, model.RoleShopkeeper)
	shop, err := e.shops.CreateShop(context.Background(), owner, ShopRequest{
		Name:    name + " Store",
		Address: "12 Market Road",
	})
	require.NoError(t, err)
	return owner, shop
}

// newMember registers a customer and joins them to the shop.
func (e *testEnv) newMember(t *testing.T, mobile, name string, shop *model.Shop) Principal {
	t.Helper()
	customer, _ := e.registerUser(t, mobile, name, model.RoleCustomer)
	_, err := e.shops.JoinShop(context.Background(), customer, shop.ShopCode)
	require.NoError(t, err)
	return customer
}

// newProduct adds a product to the shop's catalog.
func (e *testEnv) newProduct(t *testing.T, owner Principal, shop *model.Shop, name string, price string, stock int) *model.Product {
	t.Helper()
	product, err := e.items.CreateProduct(context.Background(), owner, shop.ID, ProductRequest{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	})
	require.NoError(t, err)
	return product
}

// productStock reads the current stock for a product straight from the store.
func (e *testEnv) productStock(t *testing.T, productID uint) int {
	t.Helper()
	product, err := e.store.GetProductForUpdate(context.Background(), productID)
	require.NoError(t, err)
	require.NotNil(t, product)
	return product.Stock
}

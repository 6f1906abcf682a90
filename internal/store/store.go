// Package store defines the persistence contract for the marketplace and its
// GORM-backed implementation. Lookup methods return (nil, nil) when the row
// does not exist; services decide how absence surfaces to callers.
package store

import (
	"context"
	"time"

	"github.com/HarshwardhanZalte/NearBasket-backend/internal/model"
)

// Store is the persistence boundary used by the services. Transact runs fn
// against a store bound to a single atomic transaction; any error from fn
// rolls back every write made inside it.
type Store interface {
	Transact(ctx context.Context, fn func(Store) error) error

	// Users
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
	GetUserByMobile(ctx context.Context, mobile string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error

	// One-time codes
	CreateOTP(ctx context.Context, otp *model.OTP) error
	DeleteUnverifiedOTPs(ctx context.Context, userID uint) error
	GetActiveOTP(ctx context.Context, userID uint, code string, notBefore time.Time) (*model.OTP, error)
	UpdateOTP(ctx context.Context, otp *model.OTP) error

	// Shops
	CreateShop(ctx context.Context, shop *model.Shop) error
	GetShopByID(ctx context.Context, id uint) (*model.Shop, error)
	GetShopByCode(ctx context.Context, code string) (*model.Shop, error)
	GetShopByOwner(ctx context.Context, ownerID uint) (*model.Shop, error)
	ShopCodeExists(ctx context.Context, code string) (bool, error)
	UpdateShop(ctx context.Context, shop *model.Shop) error
	DeleteShop(ctx context.Context, id uint) error

	// Memberships
	CreateMembership(ctx context.Context, membership *model.ShopCustomer) error
	MembershipExists(ctx context.Context, shopID, customerID uint) (bool, error)
	ListShopCustomers(ctx context.Context, shopID uint) ([]model.ShopCustomer, error)
	ListJoinedShops(ctx context.Context, customerID uint) ([]model.Shop, error)
	DeleteMembership(ctx context.Context, shopID, customerID uint) (bool, error)
	DeleteShopMemberships(ctx context.Context, shopID uint) error

	// Products
	CreateProduct(ctx context.Context, product *model.Product) error
	GetShopProduct(ctx context.Context, shopID, productID uint) (*model.Product, error)
	// GetProductForUpdate loads a product under a row-level write lock so that
	// concurrent stock mutations on the same product serialize.
	GetProductForUpdate(ctx context.Context, productID uint) (*model.Product, error)
	ProductNameExists(ctx context.Context, shopID uint, name string, excludeID uint) (bool, error)
	ListProducts(ctx context.Context, shopID uint) ([]model.Product, error)
	UpdateProduct(ctx context.Context, product *model.Product) error
	DeleteProduct(ctx context.Context, productID uint) error
	DeleteShopProducts(ctx context.Context, shopID uint) error

	// Orders
	CreateOrder(ctx context.Context, order *model.Order) error
	CreateOrderItem(ctx context.Context, item *model.OrderItem) error
	GetOrder(ctx context.Context, id uint) (*model.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID uint) ([]model.Order, error)
	ListOrdersByShop(ctx context.Context, shopID uint) ([]model.Order, error)
	UpdateOrder(ctx context.Context, order *model.Order) error
	DeleteShopOrders(ctx context.Context, shopID uint) error
}

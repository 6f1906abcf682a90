package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/HarshwardhanZalte/NearBasket-backend/internal/model"
)

// gormStore implements Store on top of a *gorm.DB handle. The same type backs
// both the root connection and transaction-scoped stores handed to Transact
// callbacks.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a GORM database handle in a Store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Transact(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// Users

func (s *gormStore) CreateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *gormStore) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *gormStore) GetUserByMobile(ctx context.Context, mobile string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("mobile_number = ?", mobile).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *gormStore) UpdateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Save(user).Error
}

// One-time codes

func (s *gormStore) CreateOTP(ctx context.Context, otp *model.OTP) error {
	return s.db.WithContext(ctx).Create(otp).Error
}

func (s *gormStore) DeleteUnverifiedOTPs(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND is_verified = ?", userID, false).
		Delete(&model.OTP{}).Error
}

func (s *gormStore) GetActiveOTP(ctx context.Context, userID uint, code string, notBefore time.Time) (*model.OTP, error) {
	var otp model.OTP
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND code = ? AND is_verified = ? AND created_at >= ?",
			userID, code, false, notBefore).
		First(&otp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

func (s *gormStore) UpdateOTP(ctx context.Context, otp *model.OTP) error {
	return s.db.WithContext(ctx).Save(otp).Error
}

// Shops

func (s *gormStore) CreateShop(ctx context.Context, shop *model.Shop) error {
	return s.db.WithContext(ctx).Create(shop).Error
}

func (s *gormStore) GetShopByID(ctx context.Context, id uint) (*model.Shop, error) {
	var shop model.Shop
	err := s.db.WithContext(ctx).Preload("Owner").First(&shop, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

func (s *gormStore) GetShopByCode(ctx context.Context, code string) (*model.Shop, error) {
	var shop model.Shop
	err := s.db.WithContext(ctx).Preload("Owner").Where("shop_code = ?", code).First(&shop).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

func (s *gormStore) GetShopByOwner(ctx context.Context, ownerID uint) (*model.Shop, error) {
	var shop model.Shop
	err := s.db.WithContext(ctx).Preload("Owner").Where("owner_id = ?", ownerID).First(&shop).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

func (s *gormStore) ShopCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Shop{}).Where("shop_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (s *gormStore) UpdateShop(ctx context.Context, shop *model.Shop) error {
	return s.db.WithContext(ctx).Save(shop).Error
}

func (s *gormStore) DeleteShop(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&model.Shop{}, id).Error
}

// Memberships

func (s *gormStore) CreateMembership(ctx context.Context, membership *model.ShopCustomer) error {
	return s.db.WithContext(ctx).Create(membership).Error
}

func (s *gormStore) MembershipExists(ctx context.Context, shopID, customerID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.ShopCustomer{}).
		Where("shop_id = ? AND customer_id = ?", shopID, customerID).
		Count(&count).Error
	return count > 0, err
}

func (s *gormStore) ListShopCustomers(ctx context.Context, shopID uint) ([]model.ShopCustomer, error) {
	var memberships []model.ShopCustomer
	err := s.db.WithContext(ctx).Preload("Customer").
		Where("shop_id = ?", shopID).
		Find(&memberships).Error
	return memberships, err
}

func (s *gormStore) ListJoinedShops(ctx context.Context, customerID uint) ([]model.Shop, error) {
	var shops []model.Shop
	err := s.db.WithContext(ctx).Preload("Owner").
		Joins("JOIN shop_customers ON shop_customers.shop_id = shops.id").
		Where("shop_customers.customer_id = ?", customerID).
		Find(&shops).Error
	return shops, err
}

func (s *gormStore) DeleteMembership(ctx context.Context, shopID, customerID uint) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("shop_id = ? AND customer_id = ?", shopID, customerID).
		Delete(&model.ShopCustomer{})
	return result.RowsAffected > 0, result.Error
}

func (s *gormStore) DeleteShopMemberships(ctx context.Context, shopID uint) error {
	return s.db.WithContext(ctx).Where("shop_id = ?", shopID).Delete(&model.ShopCustomer{}).Error
}

// Products

func (s *gormStore) CreateProduct(ctx context.Context, product *model.Product) error {
	return s.db.WithContext(ctx).Create(product).Error
}

func (s *gormStore) GetShopProduct(ctx context.Context, shopID, productID uint) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).
		Where("id = ? AND shop_id = ?", productID, shopID).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *gormStore) GetProductForUpdate(ctx context.Context, productID uint) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *gormStore) ProductNameExists(ctx context.Context, shopID uint, name string, excludeID uint) (bool, error) {
	var count int64
	query := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("shop_id = ? AND name = ?", shopID, name)
	if excludeID != 0 {
		query = query.Where("id != ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (s *gormStore) ListProducts(ctx context.Context, shopID uint) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).Where("shop_id = ?", shopID).Find(&products).Error
	return products, err
}

func (s *gormStore) UpdateProduct(ctx context.Context, product *model.Product) error {
	return s.db.WithContext(ctx).Save(product).Error
}

func (s *gormStore) DeleteProduct(ctx context.Context, productID uint) error {
	return s.db.WithContext(ctx).Delete(&model.Product{}, productID).Error
}

func (s *gormStore) DeleteShopProducts(ctx context.Context, shopID uint) error {
	return s.db.WithContext(ctx).Where("shop_id = ?", shopID).Delete(&model.Product{}).Error
}

// Orders

func (s *gormStore) CreateOrder(ctx context.Context, order *model.Order) error {
	return s.db.WithContext(ctx).Omit("Items", "Customer", "Shop").Create(order).Error
}

func (s *gormStore) CreateOrderItem(ctx context.Context, item *model.OrderItem) error {
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *gormStore) GetOrder(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Customer").
		Preload("Shop").
		Preload("Shop.Owner").
		First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *gormStore) ListOrdersByCustomer(ctx context.Context, customerID uint) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Shop").
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

func (s *gormStore) ListOrdersByShop(ctx context.Context, shopID uint) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Customer").
		Where("shop_id = ?", shopID).
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

func (s *gormStore) UpdateOrder(ctx context.Context, order *model.Order) error {
	return s.db.WithContext(ctx).Omit("Items", "Customer", "Shop").Save(order).Error
}

func (s *gormStore) DeleteShopOrders(ctx context.Context, shopID uint) error {
	err := s.db.WithContext(ctx).
		Where("order_id IN (?)", s.db.Model(&model.Order{}).Select("id").Where("shop_id = ?", shopID)).
		Delete(&model.OrderItem{}).Error
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Where("shop_id = ?", shopID).Delete(&model.Order{}).Error
}

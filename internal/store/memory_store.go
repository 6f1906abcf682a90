package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/HarshwardhanZalte/NearBasket-backend/internal/model"
)

// MemoryStore is an in-memory Store used by the service test suites. A
// transaction takes the store-wide lock for its whole duration and restores a
// snapshot on failure, so transactions are serializable and all-or-nothing,
// mirroring the guarantees the SQL implementation gets from the database.
type MemoryStore struct {
	mu sync.Mutex
	// Now supplies timestamps; tests may replace it.
	Now func() time.Time

	data *memoryData
	inTx bool
}

type memoryData struct {
	seq         uint
	users       map[uint]model.User
	otps        map[uint]model.OTP
	shops       map[uint]model.Shop
	memberships map[uint]model.ShopCustomer
	products    map[uint]model.Product
	orders      map[uint]model.Order
	orderItems  map[uint]model.OrderItem
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Now: time.Now,
		data: &memoryData{
			users:       make(map[uint]model.User),
			otps:        make(map[uint]model.OTP),
			shops:       make(map[uint]model.Shop),
			memberships: make(map[uint]model.ShopCustomer),
			products:    make(map[uint]model.Product),
			orders:      make(map[uint]model.Order),
			orderItems:  make(map[uint]model.OrderItem),
		},
	}
}

func (d *memoryData) clone() *memoryData {
	out := &memoryData{
		seq:         d.seq,
		users:       make(map[uint]model.User, len(d.users)),
		otps:        make(map[uint]model.OTP, len(d.otps)),
		shops:       make(map[uint]model.Shop, len(d.shops)),
		memberships: make(map[uint]model.ShopCustomer, len(d.memberships)),
		products:    make(map[uint]model.Product, len(d.products)),
		orders:      make(map[uint]model.Order, len(d.orders)),
		orderItems:  make(map[uint]model.OrderItem, len(d.orderItems)),
	}
	for k, v := range d.users {
		out.users[k] = v
	}
	for k, v := range d.otps {
		out.otps[k] = v
	}
	for k, v := range d.shops {
		v.Owner = nil
		out.shops[k] = v
	}
	for k, v := range d.memberships {
		v.Customer = nil
		out.memberships[k] = v
	}
	for k, v := range d.products {
		out.products[k] = v
	}
	for k, v := range d.orders {
		v.Items = nil
		v.Customer = nil
		v.Shop = nil
		out.orders[k] = v
	}
	for k, v := range d.orderItems {
		out.orderItems[k] = v
	}
	return out
}

func (s *MemoryStore) unlock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *MemoryStore) nextID() uint {
	s.data.seq++
	return s.data.seq
}

func (s *MemoryStore) Transact(ctx context.Context, fn func(Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	tx := &MemoryStore{Now: s.Now, data: s.data, inTx: true}
	if err := fn(tx); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// Users

func (s *MemoryStore) CreateUser(ctx context.Context, user *model.User) error {
	defer s.unlock()()
	user.ID = s.nextID()
	user.CreatedAt = s.Now()
	user.UpdatedAt = user.CreatedAt
	s.data.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	defer s.unlock()()
	if user, ok := s.data.users[id]; ok {
		return &user, nil
	}
	return nil, nil
}

func (s *MemoryStore) GetUserByMobile(ctx context.Context, mobile string) (*model.User, error) {
	defer s.unlock()()
	for _, user := range s.data.users {
		if user.MobileNumber == mobile {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) UpdateUser(ctx context.Context, user *model.User) error {
	defer s.unlock()()
	user.UpdatedAt = s.Now()
	s.data.users[user.ID] = *user
	return nil
}

// One-time codes

func (s *MemoryStore) CreateOTP(ctx context.Context, otp *model.OTP) error {
	defer s.unlock()()
	otp.ID = s.nextID()
	if otp.CreatedAt.IsZero() {
		otp.CreatedAt = s.Now()
	}
	s.data.otps[otp.ID] = *otp
	return nil
}

func (s *MemoryStore) DeleteUnverifiedOTPs(ctx context.Context, userID uint) error {
	defer s.unlock()()
	for id, otp := range s.data.otps {
		if otp.UserID == userID && !otp.IsVerified {
			delete(s.data.otps, id)
		}
	}
	return nil
}

func (s *MemoryStore) GetActiveOTP(ctx context.Context, userID uint, code string, notBefore time.Time) (*model.OTP, error) {
	defer s.unlock()()
	for _, otp := range s.data.otps {
		if otp.UserID == userID && otp.Code == code && !otp.IsVerified && !otp.CreatedAt.Before(notBefore) {
			o := otp
			return &o, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) UpdateOTP(ctx context.Context, otp *model.OTP) error {
	defer s.unlock()()
	s.data.otps[otp.ID] = *otp
	return nil
}

// Shops

func (s *MemoryStore) CreateShop(ctx context.Context, shop *model.Shop) error {
	defer s.unlock()()
	shop.ID = s.nextID()
	shop.CreatedAt = s.Now()
	shop.UpdatedAt = shop.CreatedAt
	stored := *shop
	stored.Owner = nil
	s.data.shops[shop.ID] = stored
	return nil
}

func (s *MemoryStore) getShop(id uint) *model.Shop {
	shop, ok := s.data.shops[id]
	if !ok {
		return nil
	}
	if owner, ok := s.data.users[shop.OwnerID]; ok {
		shop.Owner = &owner
	}
	return &shop
}

func (s *MemoryStore) GetShopByID(ctx context.Context, id uint) (*model.Shop, error) {
	defer s.unlock()()
	return s.getShop(id), nil
}

func (s *MemoryStore) GetShopByCode(ctx context.Context, code string) (*model.Shop, error) {
	defer s.unlock()()
	for id, shop := range s.data.shops {
		if shop.ShopCode == code {
			return s.getShop(id), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) GetShopByOwner(ctx context.Context, ownerID uint) (*model.Shop, error) {
	defer s.unlock()()
	for id, shop := range s.data.shops {
		if shop.OwnerID == ownerID {
			return s.getShop(id), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) ShopCodeExists(ctx context.Context, code string) (bool, error) {
	defer s.unlock()()
	for _, shop := range s.data.shops {
		if shop.ShopCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) UpdateShop(ctx context.Context, shop *model.Shop) error {
	defer s.unlock()()
	shop.UpdatedAt = s.Now()
	stored := *shop
	stored.Owner = nil
	s.data.shops[shop.ID] = stored
	return nil
}

func (s *MemoryStore) DeleteShop(ctx context.Context, id uint) error {
	defer s.unlock()()
	delete(s.data.shops, id)
	return nil
}

// Memberships

func (s *MemoryStore) CreateMembership(ctx context.Context, membership *model.ShopCustomer) error {
	defer s.unlock()()
	membership.ID = s.nextID()
	membership.JoinedAt = s.Now()
	stored := *membership
	stored.Customer = nil
	s.data.memberships[membership.ID] = stored
	return nil
}

func (s *MemoryStore) MembershipExists(ctx context.Context, shopID, customerID uint) (bool, error) {
	defer s.unlock()()
	for _, m := range s.data.memberships {
		if m.ShopID == shopID && m.CustomerID == customerID {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) ListShopCustomers(ctx context.Context, shopID uint) ([]model.ShopCustomer, error) {
	defer s.unlock()()
	var out []model.ShopCustomer
	for _, m := range s.data.memberships {
		if m.ShopID == shopID {
			if customer, ok := s.data.users[m.CustomerID]; ok {
				m.Customer = &customer
			}
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) ListJoinedShops(ctx context.Context, customerID uint) ([]model.Shop, error) {
	defer s.unlock()()
	var out []model.Shop
	for _, m := range s.data.memberships {
		if m.CustomerID == customerID {
			if shop := s.getShop(m.ShopID); shop != nil {
				out = append(out, *shop)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) DeleteMembership(ctx context.Context, shopID, customerID uint) (bool, error) {
	defer s.unlock()()
	for id, m := range s.data.memberships {
		if m.ShopID == shopID && m.CustomerID == customerID {
			delete(s.data.memberships, id)
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) DeleteShopMemberships(ctx context.Context, shopID uint) error {
	defer s.unlock()()
	for id, m := range s.data.memberships {
		if m.ShopID == shopID {
			delete(s.data.memberships, id)
		}
	}
	return nil
}

// Products

func (s *MemoryStore) CreateProduct(ctx context.Context, product *model.Product) error {
	defer s.unlock()()
	product.ID = s.nextID()
	product.CreatedAt = s.Now()
	product.UpdatedAt = product.CreatedAt
	s.data.products[product.ID] = *product
	return nil
}

func (s *MemoryStore) GetShopProduct(ctx context.Context, shopID, productID uint) (*model.Product, error) {
	defer s.unlock()()
	if product, ok := s.data.products[productID]; ok && product.ShopID == shopID {
		return &product, nil
	}
	return nil, nil
}

func (s *MemoryStore) GetProductForUpdate(ctx context.Context, productID uint) (*model.Product, error) {
	defer s.unlock()()
	if product, ok := s.data.products[productID]; ok {
		return &product, nil
	}
	return nil, nil
}

func (s *MemoryStore) ProductNameExists(ctx context.Context, shopID uint, name string, excludeID uint) (bool, error) {
	defer s.unlock()()
	for _, product := range s.data.products {
		if product.ShopID == shopID && product.Name == name && product.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) ListProducts(ctx context.Context, shopID uint) ([]model.Product, error) {
	defer s.unlock()()
	var out []model.Product
	for _, product := range s.data.products {
		if product.ShopID == shopID {
			out = append(out, product)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) UpdateProduct(ctx context.Context, product *model.Product) error {
	defer s.unlock()()
	product.UpdatedAt = s.Now()
	s.data.products[product.ID] = *product
	return nil
}

func (s *MemoryStore) DeleteProduct(ctx context.Context, productID uint) error {
	defer s.unlock()()
	delete(s.data.products, productID)
	return nil
}

func (s *MemoryStore) DeleteShopProducts(ctx context.Context, shopID uint) error {
	defer s.unlock()()
	for id, product := range s.data.products {
		if product.ShopID == shopID {
			delete(s.data.products, id)
		}
	}
	return nil
}

// Orders

func (s *MemoryStore) CreateOrder(ctx context.Context, order *model.Order) error {
	defer s.unlock()()
	order.ID = s.nextID()
	order.CreatedAt = s.Now()
	order.UpdatedAt = order.CreatedAt
	stored := *order
	stored.Items = nil
	stored.Customer = nil
	stored.Shop = nil
	s.data.orders[order.ID] = stored
	return nil
}

func (s *MemoryStore) CreateOrderItem(ctx context.Context, item *model.OrderItem) error {
	defer s.unlock()()
	item.ID = s.nextID()
	s.data.orderItems[item.ID] = *item
	return nil
}

func (s *MemoryStore) getOrder(id uint) *model.Order {
	order, ok := s.data.orders[id]
	if !ok {
		return nil
	}
	for _, item := range s.data.orderItems {
		if item.OrderID == order.ID {
			order.Items = append(order.Items, item)
		}
	}
	sort.Slice(order.Items, func(i, j int) bool { return order.Items[i].ID < order.Items[j].ID })
	if customer, ok := s.data.users[order.CustomerID]; ok {
		order.Customer = &customer
	}
	order.Shop = s.getShop(order.ShopID)
	return &order
}

func (s *MemoryStore) GetOrder(ctx context.Context, id uint) (*model.Order, error) {
	defer s.unlock()()
	return s.getOrder(id), nil
}

func (s *MemoryStore) ListOrdersByCustomer(ctx context.Context, customerID uint) ([]model.Order, error) {
	defer s.unlock()()
	var out []model.Order
	for id, order := range s.data.orders {
		if order.CustomerID == customerID {
			out = append(out, *s.getOrder(id))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *MemoryStore) ListOrdersByShop(ctx context.Context, shopID uint) ([]model.Order, error) {
	defer s.unlock()()
	var out []model.Order
	for id, order := range s.data.orders {
		if order.ShopID == shopID {
			out = append(out, *s.getOrder(id))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *MemoryStore) UpdateOrder(ctx context.Context, order *model.Order) error {
	defer s.unlock()()
	order.UpdatedAt = s.Now()
	stored := *order
	stored.Items = nil
	stored.Customer = nil
	stored.Shop = nil
	s.data.orders[order.ID] = stored
	return nil
}

func (s *MemoryStore) DeleteShopOrders(ctx context.Context, shopID uint) error {
	defer s.unlock()()
	for id, order := range s.data.orders {
		if order.ShopID != shopID {
			continue
		}
		for itemID, item := range s.data.orderItems {
			if item.OrderID == id {
				delete(s.data.orderItems, itemID)
			}
		}
		delete(s.data.orders, id)
	}
	return nil
}

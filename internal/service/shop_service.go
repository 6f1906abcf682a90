package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/HarshwardhanZalte/NearBasket-backend/internal/apperr"
	"github.com/HarshwardhanZalte/NearBasket-backend/internal/model"
	"github.com/HarshwardhanZalte/NearBasket-backend/internal/store"
)

// ShopService handles shop management and the shop/customer membership graph.
type ShopService struct {
	store  store.Store
	logger *zap.Logger
}

// NewShopService creates a ShopService.
func NewShopService(st store.Store, logger *zap.Logger) *ShopService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShopService{store: st, logger: logger}
}

// ShopRequest carries the shop fields accepted on creation.
type ShopRequest struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`
	ShopLogoURL string `json:"shop_logo_url"`
}

// CreateShop registers the shopkeeper's shop. Each shopkeeper owns exactly one.
func (s *ShopService) CreateShop(ctx context.Context, actor Principal, req ShopRequest) (*model.Shop, error) {
	if !actor.IsShopkeeper() {
		return nil, apperr.Forbidden("only shopkeepers can create shops")
	}
	if req.Name == "" {
		return nil, apperr.Validation("shop name cannot be empty")
	}
	if req.Address == "" {
		return nil, apperr.Validation("shop address is required")
	}

	existing, err := s.store.GetShopByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("shopkeeper already owns a shop")
	}

	code, err := s.uniqueShopCode(ctx)
	if err != nil {
		return nil, err
	}

	shop := &model.Shop{
		OwnerID:     actor.UserID,
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
		ShopLogoURL: req.ShopLogoURL,
		ShopCode:    code,
	}
	if err := s.store.CreateShop(ctx, shop); err != nil {
		return nil, err
	}

	s.logger.Info("shop created",
		zap.Uint("shop_id", shop.ID),
		zap.Uint("owner_id", actor.UserID),
		zap.String("shop_code", shop.ShopCode))
	return s.store.GetShopByID(ctx, shop.ID)
}

// uniqueShopCode generates a shop code, regenerating on collision.
func (s *ShopService) uniqueShopCode(ctx context.Context) (string, error) {
	for {
		code := model.NewShopCode()
		exists, err := s.store.ShopCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
}

// GetShop returns a shop to its owner or one of its members.
func (s *ShopService) GetShop(ctx context.Context, actor Principal, shopID uint) (*model.Shop, error) {
	return getVisibleShop(ctx, s.store, actor, shopID)
}

// UpdateShopRequest carries the editable shop fields.
type UpdateShopRequest struct {
	Name        *string `json:"name"`
	Address     *string `json:"address"`
	Description *string `json:"description"`
	ShopLogoURL *string `json:"shop_logo_url"`
}

// UpdateShop applies a partial update. Owner only.
func (s *ShopService) UpdateShop(ctx context.Context, actor Principal, shopID uint, req UpdateShopRequest) (*model.Shop, error) {
	shop, err := getOwnedShop(ctx, s.store, actor, shopID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, apperr.Validation("shop name cannot be empty")
		}
		shop.Name = *req.Name
	}
	if req.Address != nil {
		shop.Address = *req.Address
	}
	if req.Description != nil {
		shop.Description = *req.Description
	}
	if req.ShopLogoURL != nil {
		shop.ShopLogoURL = *req.ShopLogoURL
	}

	if err := s.store.UpdateShop(ctx, shop); err != nil {
		return nil, err
	}
	return shop, nil
}

// DeleteShop removes the shop and everything it owns: order items, orders,
// products and memberships, in one transaction. Owner only.
func (s *ShopService) DeleteShop(ctx context.Context, actor Principal, shopID uint) error {
	shop, err := getOwnedShop(ctx, s.store, actor, shopID)
	if err != nil {
		return err
	}

	err = s.store.Transact(ctx, func(tx store.Store) error {
		if err := tx.DeleteShopOrders(ctx, shop.ID); err != nil {
			return err
		}
		if err := tx.DeleteShopProducts(ctx, shop.ID); err != nil {
			return err
		}
		if err := tx.DeleteShopMemberships(ctx, shop.ID); err != nil {
			return err
		}
		return tx.DeleteShop(ctx, shop.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("shop deleted", zap.Uint("shop_id", shop.ID), zap.Uint("owner_id", actor.UserID))
	return nil
}

// ListShops returns the shopkeeper's own shop, or the shops a customer has
// joined.
func (s *ShopService) ListShops(ctx context.Context, actor Principal) ([]model.Shop, error) {
	if actor.IsShopkeeper() {
		shop, err := s.store.GetShopByOwner(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		if shop == nil {
			return []model.Shop{}, nil
		}
		return []model.Shop{*shop}, nil
	}
	return s.store.ListJoinedShops(ctx, actor.UserID)
}

// JoinShop adds the customer to the shop identified by its public code.
func (s *ShopService) JoinShop(ctx context.Context, actor Principal, shopCode string) (*model.Shop, error) {
	if !actor.IsCustomer() {
		return nil, apperr.Forbidden("only customers can join shops")
	}

	shop, err := s.store.GetShopByCode(ctx, shopCode)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, apperr.NotFound("shop not found")
	}

	member, err := s.store.MembershipExists(ctx, shop.ID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if member {
		return nil, apperr.Conflict("you are already a customer of this shop")
	}

	membership := &model.ShopCustomer{ShopID: shop.ID, CustomerID: actor.UserID}
	if err := s.store.CreateMembership(ctx, membership); err != nil {
		return nil, err
	}

	s.logger.Info("customer joined shop",
		zap.Uint("shop_id", shop.ID),
		zap.Uint("customer_id", actor.UserID))
	return shop, nil
}

// AddCustomerByMobile links an existing customer to the shop. Owner only.
func (s *ShopService) AddCustomerByMobile(ctx context.Context, actor Principal, shopID uint, mobileNumber string) (*model.User, error) {
	shop, err := getOwnedShop(ctx, s.store, actor, shopID)
	if err != nil {
		return nil, err
	}
	if err := model.ValidateMobileNumber(mobileNumber); err != nil {
		return nil, err
	}

	customer, err := s.store.GetUserByMobile(ctx, mobileNumber)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.Role != model.RoleCustomer {
		return nil, apperr.NotFound("customer with this mobile number does not exist")
	}

	member, err := s.store.MembershipExists(ctx, shop.ID, customer.ID)
	if err != nil {
		return nil, err
	}
	if member {
		return nil, apperr.Conflict("customer is already linked to this shop")
	}

	membership := &model.ShopCustomer{ShopID: shop.ID, CustomerID: customer.ID}
	if err := s.store.CreateMembership(ctx, membership); err != nil {
		return nil, err
	}

	s.logger.Info("customer added to shop",
		zap.Uint("shop_id", shop.ID),
		zap.Uint("customer_id", customer.ID))
	return customer, nil
}

// ListCustomers returns the shop's members. Owner only.
func (s *ShopService) ListCustomers(ctx context.Context, actor Principal, shopID uint) ([]model.ShopCustomer, error) {
	shop, err := getOwnedShop(ctx, s.store, actor, shopID)
	if err != nil {
		return nil, err
	}
	return s.store.ListShopCustomers(ctx, shop.ID)
}

// RemoveCustomer deletes a membership. Owner only. Orders placed while the
// membership existed are left untouched.
func (s *ShopService) RemoveCustomer(ctx context.Context, actor Principal, shopID, customerID uint) error {
	shop, err := getOwnedShop(ctx, s.store, actor, shopID)
	if err != nil {
		return err
	}

	removed, err := s.store.DeleteMembership(ctx, shop.ID, customerID)
	if err != nil {
		return err
	}
	if !removed {
		return apperr.NotFound("customer not found in this shop")
	}

	s.logger.Info("customer removed from shop",
		zap.Uint("shop_id", shop.ID),
		zap.Uint("customer_id", customerID))
	return nil
}

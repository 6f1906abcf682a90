// Package service implements the marketplace operations: identity and OTP
// login, shops and memberships, the product catalog, and the order workflow
// engine. Every operation checks its role/ownership predicate before touching
// any state.
package service

import (
	"context"

	"github.com/HarshwardhanZalte/NearBasket-backend/internal/apperr"
	"github.com/HarshwardhanZalte/NearBasket-backend/internal/model"
	"github.com/HarshwardhanZalte/NearBasket-backend/internal/store"
)

// Principal is the authenticated actor resolved by the auth layer. The core
// never verifies credentials itself.
type Principal struct {
	UserID uint
	Role   string
}

// IsCustomer reports whether the principal carries the customer role.
func (p Principal) IsCustomer() bool {
	return p.Role == model.RoleCustomer
}

// IsShopkeeper reports whether the principal carries the shopkeeper role.
func (p Principal) IsShopkeeper() bool {
	return p.Role == model.RoleShopkeeper
}

// getOwnedShop loads a shop and verifies the principal owns it. Runs before
// any mutation on the shop or its products, customers and orders.
func getOwnedShop(ctx context.Context, s store.Store, actor Principal, shopID uint) (*model.Shop, error) {
	shop, err := s.GetShopByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, apperr.NotFound("shop not found")
	}
	if shop.OwnerID != actor.UserID {
		return nil, apperr.Forbidden("only the shop owner can perform this action")
	}
	return shop, nil
}

// getVisibleShop loads a shop and verifies the principal may read it: the
// owner, or a customer who is a current member.
func getVisibleShop(ctx context.Context, s store.Store, actor Principal, shopID uint) (*model.Shop, error) {
	shop, err := s.GetShopByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, apperr.NotFound("shop not found")
	}
	if shop.OwnerID == actor.UserID {
		return shop, nil
	}
	member, err := s.MembershipExists(ctx, shop.ID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, apperr.Forbidden("you are not a customer of this shop")
	}
	return shop, nil
}

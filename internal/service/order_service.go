package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/HarshwardhanZalte/NearBasket-backend/internal/apperr"
	"github.com/HarshwardhanZalte/NearBasket-backend/internal/model"
	"github.com/HarshwardhanZalte/NearBasket-backend/internal/store"
)

// OrderService is the order workflow engine: atomic order creation against
// live stock, the status state machine, and the stock reservation it drives.
//
// Stock is reserved at acceptance, not at creation. Two pending orders may
// together ask for more than is available; the second Accept fails.
type OrderService struct {
	store  store.Store
	logger *zap.Logger
}

// NewOrderService creates an OrderService.
func NewOrderService(st store.Store, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{store: st, logger: logger}
}

// OrderItemRequest is one requested order line.
type OrderItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// CreateOrder places an order for the customer against the shop. The whole
// order materializes in one transaction: if any line fails, nothing persists.
// Product prices are captured as of now; stock is left untouched.
func (s *OrderService) CreateOrder(ctx context.Context, actor Principal, shopID uint, items []OrderItemRequest) (*model.Order, error) {
	if !actor.IsCustomer() {
		return nil, apperr.Forbidden("only customers can place orders")
	}

	shop, err := s.store.GetShopByID(ctx, shopID)
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
	if !member {
		return nil, apperr.Forbidden("you must be a customer of this shop to place orders")
	}

	if len(items) == 0 {
		return nil, apperr.Validation("order must contain at least one item")
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, apperr.Validation("quantity must be greater than 0")
		}
	}

	order := &model.Order{
		CustomerID: actor.UserID,
		ShopID:     shop.ID,
		Status:     model.OrderStatusPending,
	}

	err = s.store.Transact(ctx, func(tx store.Store) error {
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}

		var orderItems []model.OrderItem
		for _, req := range items {
			// Scoped to the shop so products cannot be injected across shops.
			product, err := tx.GetShopProduct(ctx, shop.ID, req.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return apperr.NotFound("product %d not found in this shop", req.ProductID)
			}
			if req.Quantity > product.Stock {
				return &apperr.InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Requested:   req.Quantity,
					Available:   product.Stock,
				}
			}

			item := model.OrderItem{
				OrderID:     order.ID,
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    req.Quantity,
				Price:       product.Price,
			}
			if err := tx.CreateOrderItem(ctx, &item); err != nil {
				return err
			}
			orderItems = append(orderItems, item)
		}

		order.TotalAmount = model.ComputeTotal(orderItems)
		return tx.UpdateOrder(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.Uint("order_id", order.ID),
		zap.Uint("shop_id", shop.ID),
		zap.Uint("customer_id", actor.UserID),
		zap.String("total_amount", order.TotalAmount.String()))
	return s.store.GetOrder(ctx, order.ID)
}

// UpdateOrderStatus moves an order through its state machine. Only the owning
// shop's owner may act. Re-posting the current status is a no-op; every other
// pair not in the transition table fails with Conflict. Stock side effects for
// all items of the order commit or roll back together.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, actor Principal, orderID uint, newStatus model.OrderStatus) (*model.Order, error) {
	if err := model.ValidateOrderStatus(newStatus); err != nil {
		return nil, err
	}

	var updated *model.Order
	err := s.store.Transact(ctx, func(tx store.Store) error {
		order, err := tx.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperr.NotFound("order not found")
		}
		if !actor.IsShopkeeper() || order.Shop == nil || order.Shop.OwnerID != actor.UserID {
			return apperr.Forbidden("only the shop owner can update order status")
		}
		if actor.UserID == order.CustomerID {
			return apperr.Forbidden("the customer of an order cannot update its status")
		}

		// Idempotent re-post of the current status.
		if newStatus == order.Status {
			updated = order
			return nil
		}

		if order.Status.IsFinal() {
			return apperr.Conflict("order is already %s", order.Status)
		}
		if !order.Status.CanTransition(newStatus) {
			return apperr.Conflict("cannot change order status from %s to %s", order.Status, newStatus)
		}

		switch {
		case order.Status == model.OrderStatusPending && newStatus == model.OrderStatusAccepted:
			if err := s.reserveStock(ctx, tx, order); err != nil {
				return err
			}
		case order.Status == model.OrderStatusAccepted && newStatus == model.OrderStatusRejected:
			if err := s.releaseStock(ctx, tx, order); err != nil {
				return err
			}
		}
		// PENDING -> REJECTED and ACCEPTED -> DELIVERED move without side
		// effects: nothing was reserved yet, or stock is already committed.

		order.Status = newStatus
		if err := tx.UpdateOrder(ctx, order); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order status updated",
		zap.Uint("order_id", updated.ID),
		zap.String("status", string(updated.Status)))
	return updated, nil
}

// reserveStock decrements stock for every item of the order, failing the whole
// transition if any product cannot cover its quantity. Products are loaded
// under row locks so concurrent transitions on the same product serialize.
func (s *OrderService) reserveStock(ctx context.Context, tx store.Store, order *model.Order) error {
	for _, item := range order.Items {
		product, err := tx.GetProductForUpdate(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return apperr.NotFound("product %s is no longer available", item.ProductName)
		}
		if product.Stock < item.Quantity {
			return &apperr.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   item.Quantity,
				Available:   product.Stock,
			}
		}
		product.Stock -= item.Quantity
		if err := tx.UpdateProduct(ctx, product); err != nil {
			return err
		}
	}
	return nil
}

// releaseStock returns reserved quantities to stock. Products deleted since
// acceptance are skipped; there is no row left to restore to.
func (s *OrderService) releaseStock(ctx context.Context, tx store.Store, order *model.Order) error {
	for _, item := range order.Items {
		product, err := tx.GetProductForUpdate(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			continue
		}
		product.Stock += item.Quantity
		if err := tx.UpdateProduct(ctx, product); err != nil {
			return err
		}
	}
	return nil
}

// GetOrder returns an order to its customer or the owning shop's owner.
func (s *OrderService) GetOrder(ctx context.Context, actor Principal, orderID uint) (*model.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperr.NotFound("order not found")
	}
	if order.CustomerID != actor.UserID && (order.Shop == nil || order.Shop.OwnerID != actor.UserID) {
		return nil, apperr.Forbidden("access denied")
	}
	return order, nil
}

// ListMyOrders returns the customer's own orders, newest first.
func (s *OrderService) ListMyOrders(ctx context.Context, actor Principal) ([]model.Order, error) {
	if !actor.IsCustomer() {
		return nil, apperr.Forbidden("only customers can view their orders")
	}
	return s.store.ListOrdersByCustomer(ctx, actor.UserID)
}

// ListShopOrders returns a shop's orders to its owner, newest first.
func (s *OrderService) ListShopOrders(ctx context.Context, actor Principal, shopID uint) ([]model.Order, error) {
	shop, err := getOwnedShop(ctx, s.store, actor, shopID)
	if err != nil {
		return nil, err
	}
	return s.store.ListOrdersByShop(ctx, shop.ID)
}

package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/HarshwardhanZalte/NearBasket-backend/internal/apperr"
)

// OrderStatus is the order lifecycle state.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusAccepted  OrderStatus = "ACCEPTED"
	OrderStatusRejected  OrderStatus = "REJECTED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
)

// Order is a customer's order against a shop. TotalAmount is always derived
// from its items and never edited independently.
type Order struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	CustomerID  uint            `json:"customer_id" gorm:"index;not null"`
	Customer    *User           `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	ShopID      uint            `json:"shop_id" gorm:"index;not null"`
	Shop        *Shop           `json:"shop,omitempty" gorm:"foreignKey:ShopID"`
	Status      OrderStatus     `json:"status" gorm:"type:varchar(20);not null;default:'PENDING'"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:decimal(10,2);not null;default:0"`
	Items       []OrderItem     `json:"order_items" gorm:"foreignKey:OrderID"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// OrderItem captures one order line. Price is the product price at order
// creation time and is immune to later catalog changes; the item stays valid
// even if the product is deleted later.
type OrderItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	OrderID     uint            `json:"order_id" gorm:"index;not null"`
	ProductID   uint            `json:"product_id" gorm:"index;not null"`
	ProductName string          `json:"product_name" gorm:"type:varchar(100);not null"`
	Quantity    int             `json:"quantity" gorm:"not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
}

// ValidateOrderStatus checks the status is one of the known values.
func ValidateOrderStatus(status OrderStatus) error {
	switch status {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusRejected, OrderStatusDelivered:
		return nil
	}
	return apperr.Validation("invalid order status: %s", status)
}

// IsFinal reports whether the status has no outgoing transitions.
func (s OrderStatus) IsFinal() bool {
	return s == OrderStatusRejected || s == OrderStatusDelivered
}

// CanTransition reports whether the status may move to target. Re-posting the
// current status is handled by the caller as an idempotent no-op and is not a
// transition.
func (s OrderStatus) CanTransition(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusAccepted || target == OrderStatusRejected
	case OrderStatusAccepted:
		return target == OrderStatusRejected || target == OrderStatusDelivered
	}
	return false
}

// ComputeTotal returns the sum of quantity x captured price over items.
func ComputeTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

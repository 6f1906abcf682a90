package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/HarshwardhanZalte/NearBasket-backend/internal/apperr"
)

// Product is a shop-scoped catalog entry. Name is unique within a shop.
// Stock is mutated only by the shop owner and by order status transitions.
type Product struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	ShopID          uint            `json:"shop_id" gorm:"uniqueIndex:idx_shop_product_name;index;not null"`
	Name            string          `json:"name" gorm:"type:varchar(100);uniqueIndex:idx_shop_product_name;not null"`
	Price           decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock           int             `json:"stock" gorm:"not null;default:0"`
	ProductImageURL string          `json:"product_image_url,omitempty" gorm:"type:varchar(255)"`
	Description     string          `json:"description,omitempty" gorm:"type:text"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ValidateProductName checks the product name is present.
func ValidateProductName(name string) error {
	if name == "" {
		return apperr.Validation("product name is required")
	}
	return nil
}

// ValidatePrice checks the price is strictly positive.
func ValidatePrice(price decimal.Decimal) error {
	if price.LessThanOrEqual(decimal.Zero) {
		return apperr.Validation("price must be greater than 0")
	}
	return nil
}

// ValidateStock checks the stock is non-negative.
func ValidateStock(stock int) error {
	if stock < 0 {
		return apperr.Validation("stock cannot be negative")
	}
	return nil
}

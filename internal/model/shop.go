package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Shop is a shopkeeper's storefront. Each shopkeeper owns exactly one shop.
// ShopCode is the public 8-character discovery key, distinct from the row id.
type Shop struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	OwnerID     uint      `json:"owner_id" gorm:"uniqueIndex;not null"`
	Owner       *User     `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null"`
	Address     string    `json:"address" gorm:"type:text;not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	ShopLogoURL string    `json:"shop_logo_url,omitempty" gorm:"type:varchar(255)"`
	ShopCode    string    `json:"shop_code" gorm:"type:varchar(8);uniqueIndex;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ShopCustomer links a customer to a shop. The (shop, customer) pair is unique.
type ShopCustomer struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ShopID     uint      `json:"shop_id" gorm:"uniqueIndex:idx_shop_customer;not null"`
	CustomerID uint      `json:"customer_id" gorm:"uniqueIndex:idx_shop_customer;not null"`
	Customer   *User     `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	JoinedAt   time.Time `json:"joined_at" gorm:"autoCreateTime"`
}

// NewShopCode generates a public shop code: 8 uppercase characters of a UUID.
func NewShopCode() string {
	return strings.ToUpper(uuid.New().String()[:8])
}

package model

import (
	"regexp"
	"time"

	"github.com/HarshwardhanZalte/NearBasket-backend/internal/apperr"
)

// User roles. A user's role is fixed at registration.
const (
	RoleCustomer   = "CUSTOMER"
	RoleShopkeeper = "SHOPKEEPER"
)

var mobileNumberPattern = regexp.MustCompile(`^\d{10}$`)

// User represents an account holder. The mobile number is the login identifier.
type User struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	MobileNumber    string    `json:"mobile_number" gorm:"type:varchar(10);uniqueIndex;not null"`
	Name            string    `json:"name" gorm:"type:varchar(100);not null"`
	Email           string    `json:"email,omitempty" gorm:"type:varchar(100)"`
	Address         string    `json:"address,omitempty" gorm:"type:varchar(255)"`
	ProfileImageURL string    `json:"profile_image_url,omitempty" gorm:"type:varchar(255)"`
	Role            string    `json:"role" gorm:"type:varchar(20);not null;default:'CUSTOMER'"`
	IsActive        bool      `json:"is_active" gorm:"default:true"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// OTP is a one-time login code delivered to a user's mobile number.
type OTP struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"index;not null"`
	Code       string    `json:"-" gorm:"type:varchar(6);not null"`
	IsVerified bool      `json:"is_verified" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at"`
}

// ValidateMobileNumber checks the 10-digit mobile number format.
func ValidateMobileNumber(mobile string) error {
	if !mobileNumberPattern.MatchString(mobile) {
		return apperr.Validation("mobile number must be 10 digits")
	}
	return nil
}

// ValidateUserName checks the minimum name length.
func ValidateUserName(name string) error {
	if len(name) < 2 {
		return apperr.Validation("name must be at least 2 characters long")
	}
	return nil
}

// ValidateRole checks the role is one of the known values.
func ValidateRole(role string) error {
	if role != RoleCustomer && role != RoleShopkeeper {
		return apperr.Validation("role must be CUSTOMER or SHOPKEEPER")
	}
	return nil
}

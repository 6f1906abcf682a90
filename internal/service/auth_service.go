package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/HarshwardhanZalte/NearBasket-backend/internal/apperr"
	"github.com/HarshwardhanZalte/NearBasket-backend/internal/model"
	"github.com/HarshwardhanZalte/NearBasket-backend/internal/notify"
	"github.com/HarshwardhanZalte/NearBasket-backend/internal/store"
	"github.com/HarshwardhanZalte/NearBasket-backend/pkg/jwtutil"
)

// AuthService handles registration, OTP login and profiles.
type AuthService struct {
	store  store.Store
	clock  func() time.Time
	sender notify.Sender
	jwt    *jwtutil.JWTUtil
	otpTTL time.Duration
	logger *zap.Logger
}

// AuthServiceConfig collects the dependencies of AuthService.
type AuthServiceConfig struct {
	Store  store.Store
	Clock  func() time.Time
	Sender notify.Sender
	JWT    *jwtutil.JWTUtil
	OTPTTL time.Duration
	Logger *zap.Logger
}

// NewAuthService creates an AuthService from its configuration.
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	ttl := cfg.OTPTTL
	if ttl == 0 {
		ttl = 10 * time.Minute
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		store:  cfg.Store,
		clock:  clock,
		sender: cfg.Sender,
		jwt:    cfg.JWT,
		otpTTL: ttl,
		logger: logger,
	}
}

// RegisterRequest carries the fields accepted at registration.
type RegisterRequest struct {
	MobileNumber    string `json:"mobile_number"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Address         string `json:"address"`
	ProfileImageURL string `json:"profile_image_url"`
	Role            string `json:"role"`
}

// Register creates a new user. The role is fixed from this point on.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	if err := model.ValidateMobileNumber(req.MobileNumber); err != nil {
		return nil, err
	}
	if err := model.ValidateUserName(req.Name); err != nil {
		return nil, err
	}
	if req.Role == "" {
		req.Role = model.RoleCustomer
	}
	if err := model.ValidateRole(req.Role); err != nil {
		return nil, err
	}

	existing, err := s.store.GetUserByMobile(ctx, req.MobileNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("mobile number already registered")
	}

	user := &model.User{
		MobileNumber:    req.MobileNumber,
		Name:            req.Name,
		Email:           req.Email,
		Address:         req.Address,
		ProfileImageURL: req.ProfileImageURL,
		Role:            req.Role,
		IsActive:        true,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.Uint("user_id", user.ID),
		zap.String("role", user.Role))
	return user, nil
}

// SendOTP generates a fresh login code for the user with the given mobile
// number, invalidating any unverified codes, and dispatches it through the
// notification sender.
func (s *AuthService) SendOTP(ctx context.Context, mobileNumber string) error {
	if err := model.ValidateMobileNumber(mobileNumber); err != nil {
		return err
	}

	user, err := s.store.GetUserByMobile(ctx, mobileNumber)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound("user with this mobile number does not exist")
	}

	code := generateOTPCode()
	err = s.store.Transact(ctx, func(tx store.Store) error {
		if err := tx.DeleteUnverifiedOTPs(ctx, user.ID); err != nil {
			return err
		}
		return tx.CreateOTP(ctx, &model.OTP{
			UserID:    user.ID,
			Code:      code,
			CreatedAt: s.clock(),
		})
	})
	if err != nil {
		return err
	}

	message := fmt.Sprintf("Your NearBasket OTP is: %s", code)
	if err := s.sender.Send(ctx, mobileNumber, message); err != nil {
		s.logger.Error("failed to send OTP", zap.Uint("user_id", user.ID), zap.Error(err))
		return err
	}

	s.logger.Info("OTP sent", zap.Uint("user_id", user.ID))
	return nil
}

// VerifyOTP checks the code for the mobile number and, on success, marks it
// verified and issues a token for the user.
func (s *AuthService) VerifyOTP(ctx context.Context, mobileNumber, code string) (string, *model.User, error) {
	if err := model.ValidateMobileNumber(mobileNumber); err != nil {
		return "", nil, err
	}
	if code == "" {
		return "", nil, apperr.Validation("otp code is required")
	}

	user, err := s.store.GetUserByMobile(ctx, mobileNumber)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, apperr.NotFound("invalid OTP or mobile number")
	}

	notBefore := s.clock().Add(-s.otpTTL)
	otp, err := s.store.GetActiveOTP(ctx, user.ID, code, notBefore)
	if err != nil {
		return "", nil, err
	}
	if otp == nil {
		return "", nil, apperr.NotFound("invalid OTP or mobile number")
	}

	otp.IsVerified = true
	if err := s.store.UpdateOTP(ctx, otp); err != nil {
		return "", nil, err
	}

	token, err := s.jwt.GenerateToken(user.ID, user.MobileNumber, user.Role)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info("user logged in", zap.Uint("user_id", user.ID))
	return token, user, nil
}

// GetProfile returns the principal's own user record.
func (s *AuthService) GetProfile(ctx context.Context, actor Principal) (*model.User, error) {
	user, err := s.store.GetUserByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

// UpdateProfileRequest carries the editable profile fields. Mobile number and
// role cannot be changed.
type UpdateProfileRequest struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	Address         *string `json:"address"`
	ProfileImageURL *string `json:"profile_image_url"`
}

// UpdateProfile applies a partial update to the principal's own record.
func (s *AuthService) UpdateProfile(ctx context.Context, actor Principal, req UpdateProfileRequest) (*model.User, error) {
	user, err := s.store.GetUserByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}

	if req.Name != nil {
		if err := model.ValidateUserName(*req.Name); err != nil {
			return nil, err
		}
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.ProfileImageURL != nil {
		user.ProfileImageURL = *req.ProfileImageURL
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// generateOTPCode returns a 6-digit numeric code.
func generateOTPCode() string {
	return fmt.Sprintf("%06d", rand.Intn(900000)+100000)
}

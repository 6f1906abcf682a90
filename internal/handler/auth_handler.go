package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/HarshwardhanZalte/NearBasket-backend/internal/service"
	"github.com/HarshwardhanZalte/NearBasket-backend/pkg/logger"
	"github.com/HarshwardhanZalte/NearBasket-backend/prometheus"
)

// AuthHandler exposes registration, OTP login and profile endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register handles new user registration
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromContext(c)

	var req service.RegisterRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid registration request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	user, err := h.auth.Register(c.Request().Context(), req)
	if err != nil {
		log.Warn("Registration failed", zap.Error(err))
		prometheus.AuthErrorsCounter.Inc()
		return writeError(c, err)
	}

	log.Info("User registered",
		zap.Uint("user_id", user.ID),
		zap.String("role", user.Role))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// SendOTP generates and dispatches a login code
func (h *AuthHandler) SendOTP(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		MobileNumber string `json:"mobile_number"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid send-otp request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	if err := h.auth.SendOTP(c.Request().Context(), req.MobileNumber); err != nil {
		log.Warn("Failed to send OTP", zap.Error(err))
		prometheus.AuthErrorsCounter.Inc()
		return writeError(c, err)
	}

	prometheus.OTPSentCounter.Inc()
	return c.JSON(http.StatusOK, echo.Map{"message": "OTP sent successfully"})
}

// VerifyOTP checks a login code and returns a token
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		MobileNumber string `json:"mobile_number"`
		OTPCode      string `json:"otp_code"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid verify-otp request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	token, user, err := h.auth.VerifyOTP(c.Request().Context(), req.MobileNumber, req.OTPCode)
	if err != nil {
		log.Warn("OTP verification failed", zap.Error(err))
		prometheus.AuthErrorsCounter.Inc()
		return writeError(c, err)
	}

	prometheus.OTPVerifiedCounter.Inc()
	log.Info("User logged in", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"access":  token,
		"user":    user,
	})
}

// GetProfile returns the authenticated user's profile
func (h *AuthHandler) GetProfile(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	user, err := h.auth.GetProfile(c.Request().Context(), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile applies a partial profile update
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	log := logger.FromContext(c)

	p, err := principal(c)
	if err != nil {
		return err
	}

	var req service.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid profile update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	user, err := h.auth.UpdateProfile(c.Request().Context(), p, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

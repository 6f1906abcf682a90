package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/HarshwardhanZalte/NearBasket-backend/internal/service"
	"github.com/HarshwardhanZalte/NearBasket-backend/pkg/logger"
)

// ShopHandler exposes shop management and membership endpoints.
type ShopHandler struct {
	shops *service.ShopService
}

// NewShopHandler creates a ShopHandler.
func NewShopHandler(shops *service.ShopService) *ShopHandler {
	return &ShopHandler{shops: shops}
}

// ListShops returns the caller's shops: the owned shop for shopkeepers, joined
// shops for customers
func (h *ShopHandler) ListShops(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	shops, err := h.shops.ListShops(c.Request().Context(), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, shops)
}

// CreateShop registers the shopkeeper's shop
func (h *ShopHandler) CreateShop(c echo.Context) error {
	log := logger.FromContext(c)

	p, err := principal(c)
	if err != nil {
		return err
	}

	var req service.ShopRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid shop request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	shop, err := h.shops.CreateShop(c.Request().Context(), p, req)
	if err != nil {
		log.Warn("Shop creation failed", zap.Error(err))
		return writeError(c, err)
	}

	log.Info("Shop created",
		zap.Uint("shop_id", shop.ID),
		zap.String("shop_code", shop.ShopCode))
	return c.JSON(http.StatusCreated, shop)
}

// GetShop returns shop details to its owner or members
func (h *ShopHandler) GetShop(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	shopID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	shop, err := h.shops.GetShop(c.Request().Context(), p, shopID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, shop)
}

// UpdateShop applies a partial update to the owned shop
func (h *ShopHandler) UpdateShop(c echo.Context) error {
	log := logger.FromContext(c)

	p, err := principal(c)
	if err != nil {
		return err
	}
	shopID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req service.UpdateShopRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid shop update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	shop, err := h.shops.UpdateShop(c.Request().Context(), p, shopID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, shop)
}

// DeleteShop removes the owned shop and everything it owns
func (h *ShopHandler) DeleteShop(c echo.Context) error {
	log := logger.FromContext(c)

	p, err := principal(c)
	if err != nil {
		return err
	}
	shopID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.shops.DeleteShop(c.Request().Context(), p, shopID); err != nil {
		return writeError(c, err)
	}

	log.Info("Shop deleted", zap.Uint("shop_id", shopID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Shop deleted successfully"})
}

// JoinShop adds the customer to a shop by its public code
func (h *ShopHandler) JoinShop(c echo.Context) error {
	log := logger.FromContext(c)

	p, err := principal(c)
	if err != nil {
		return err
	}

	shop, err := h.shops.JoinShop(c.Request().Context(), p, c.Param("code"))
	if err != nil {
		log.Warn("Join shop failed", zap.Error(err))
		return writeError(c, err)
	}

	log.Info("Customer joined shop", zap.Uint("shop_id", shop.ID))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Successfully joined shop",
		"shop":    shop,
	})
}

// AddCustomer links an existing customer to the owned shop by mobile number
func (h *ShopHandler) AddCustomer(c echo.Context) error {
	log := logger.FromContext(c)

	p, err := principal(c)
	if err != nil {
		return err
	}
	shopID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req struct {
		MobileNumber string `json:"mobile_number"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid add-customer request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	customer, err := h.shops.AddCustomerByMobile(c.Request().Context(), p, shopID, req.MobileNumber)
	if err != nil {
		return writeError(c, err)
	}

	log.Info("Customer added to shop",
		zap.Uint("shop_id", shopID),
		zap.Uint("customer_id", customer.ID))
	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "Customer added successfully",
		"customer": customer,
	})
}

// ListCustomers returns the owned shop's members
func (h *ShopHandler) ListCustomers(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	shopID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	customers, err := h.shops.ListCustomers(c.Request().Context(), p, shopID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, customers)
}

// RemoveCustomer deletes a membership from the owned shop
func (h *ShopHandler) RemoveCustomer(c echo.Context) error {
	log := logger.FromContext(c)

	p, err := principal(c)
	if err != nil {
		return err
	}
	shopID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	customerID, err := paramID(c, "userID")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.shops.RemoveCustomer(c.Request().Context(), p, shopID, customerID); err != nil {
		return writeError(c, err)
	}

	log.Info("Customer removed from shop",
		zap.Uint("shop_id", shopID),
		zap.Uint("customer_id", customerID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Customer removed successfully"})
}

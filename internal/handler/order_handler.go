package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/HarshwardhanZalte/NearBasket-backend/internal/model"
	"github.com/HarshwardhanZalte/NearBasket-backend/internal/service"
	"github.com/HarshwardhanZalte/NearBasket-backend/pkg/logger"
	"github.com/HarshwardhanZalte/NearBasket-backend/prometheus"
)

// OrderHandler exposes the order workflow endpoints.
type OrderHandler struct {
	orders *service.OrderService
}

// NewOrderHandler creates an OrderHandler.
func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// CreateOrder places an order against a shop
func (h *OrderHandler) CreateOrder(c echo.Context) error {
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
		Items []service.OrderItemRequest `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid order request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	order, err := h.orders.CreateOrder(c.Request().Context(), p, shopID, req.Items)
	if err != nil {
		log.Warn("Order creation failed", zap.Uint("shop_id", shopID), zap.Error(err))
		prometheus.RecordOrderOperation("create", "failure")
		return writeError(c, err)
	}

	prometheus.RecordOrderOperation("create", "success")
	log.Info("Order created",
		zap.Uint("order_id", order.ID),
		zap.Uint("shop_id", shopID),
		zap.String("total_amount", order.TotalAmount.String()))
	return c.JSON(http.StatusCreated, order)
}

// MyOrders returns the customer's own orders
func (h *OrderHandler) MyOrders(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	orders, err := h.orders.ListMyOrders(c.Request().Context(), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// GetOrder returns an order to its customer or the shop owner
func (h *OrderHandler) GetOrder(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	orderID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	order, err := h.orders.GetOrder(c.Request().Context(), p, orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// ShopOrders returns the owned shop's orders
func (h *OrderHandler) ShopOrders(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	shopID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	orders, err := h.orders.ListShopOrders(c.Request().Context(), p, shopID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus moves an order through its state machine
func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	log := logger.FromContext(c)

	p, err := principal(c)
	if err != nil {
		return err
	}
	orderID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req struct {
		Status model.OrderStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid status update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	order, err := h.orders.UpdateOrderStatus(c.Request().Context(), p, orderID, req.Status)
	if err != nil {
		log.Warn("Order status update failed",
			zap.Uint("order_id", orderID),
			zap.String("status", string(req.Status)),
			zap.Error(err))
		prometheus.RecordOrderOperation("status_update", "failure")
		return writeError(c, err)
	}

	prometheus.RecordOrderOperation("status_update", "success")
	log.Info("Order status updated",
		zap.Uint("order_id", order.ID),
		zap.String("status", string(order.Status)))
	return c.JSON(http.StatusOK, order)
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/HarshwardhanZalte/NearBasket-backend/internal/service"
	"github.com/HarshwardhanZalte/NearBasket-backend/pkg/logger"
	"github.com/HarshwardhanZalte/NearBasket-backend/prometheus"
)

// ProductHandler exposes the shop-scoped catalog endpoints.
type ProductHandler struct {
	products *service.ProductService
}

// NewProductHandler creates a ProductHandler.
func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// ListProducts returns the shop's catalog
func (h *ProductHandler) ListProducts(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	shopID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	products, err := h.products.ListProducts(c.Request().Context(), p, shopID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

// GetProduct returns a single product
func (h *ProductHandler) GetProduct(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	shopID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	productID, err := paramID(c, "productID")
	if err != nil {
		return writeError(c, err)
	}

	product, err := h.products.GetProduct(c.Request().Context(), p, shopID, productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// CreateProduct adds a product to the owned shop's catalog
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)

	p, err := principal(c)
	if err != nil {
		return err
	}
	shopID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req service.ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid product request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	product, err := h.products.CreateProduct(c.Request().Context(), p, shopID, req)
	if err != nil {
		log.Warn("Product creation failed", zap.Error(err))
		return writeError(c, err)
	}

	prometheus.RecordProductOperation("create")
	log.Info("Product created",
		zap.Uint("shop_id", shopID),
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name))
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct applies a partial update to a product
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	log := logger.FromContext(c)

	p, err := principal(c)
	if err != nil {
		return err
	}
	shopID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	productID, err := paramID(c, "productID")
	if err != nil {
		return writeError(c, err)
	}

	var req service.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid product update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	product, err := h.products.UpdateProduct(c.Request().Context(), p, shopID, productID, req)
	if err != nil {
		return writeError(c, err)
	}

	prometheus.RecordProductOperation("update")
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product from the owned shop's catalog
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	log := logger.FromContext(c)

	p, err := principal(c)
	if err != nil {
		return err
	}
	shopID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	productID, err := paramID(c, "productID")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.products.DeleteProduct(c.Request().Context(), p, shopID, productID); err != nil {
		return writeError(c, err)
	}

	prometheus.RecordProductOperation("delete")
	log.Info("Product deleted",
		zap.Uint("shop_id", shopID),
		zap.Uint("product_id", productID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}

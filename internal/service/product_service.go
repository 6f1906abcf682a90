package service

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/HarshwardhanZalte/NearBasket-backend/internal/apperr"
	"github.com/HarshwardhanZalte/NearBasket-backend/internal/model"
	"github.com/HarshwardhanZalte/NearBasket-backend/internal/store"
)

// ProductService handles the shop-scoped product catalog.
type ProductService struct {
	store  store.Store
	logger *zap.Logger
}

// NewProductService creates a ProductService.
func NewProductService(st store.Store, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{store: st, logger: logger}
}

// ProductRequest carries the product fields accepted on creation.
type ProductRequest struct {
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	Stock           int             `json:"stock"`
	ProductImageURL string          `json:"product_image_url"`
	Description     string          `json:"description"`
}

// CreateProduct adds a product to the shop's catalog. Owner only.
func (s *ProductService) CreateProduct(ctx context.Context, actor Principal, shopID uint, req ProductRequest) (*model.Product, error) {
	shop, err := getOwnedShop(ctx, s.store, actor, shopID)
	if err != nil {
		return nil, err
	}
	if err := model.ValidateProductName(req.Name); err != nil {
		return nil, err
	}
	if err := model.ValidatePrice(req.Price); err != nil {
		return nil, err
	}
	if err := model.ValidateStock(req.Stock); err != nil {
		return nil, err
	}

	exists, err := s.store.ProductNameExists(ctx, shop.ID, req.Name, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("product with this name already exists in the shop")
	}

	product := &model.Product{
		ShopID:          shop.ID,
		Name:            req.Name,
		Price:           req.Price,
		Stock:           req.Stock,
		ProductImageURL: req.ProductImageURL,
		Description:     req.Description,
	}
	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.Uint("shop_id", shop.ID),
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name))
	return product, nil
}

// UpdateProductRequest carries the editable product fields. Changed fields are
// re-validated; untouched fields keep their invariants by construction.
type UpdateProductRequest struct {
	Name            *string          `json:"name"`
	Price           *decimal.Decimal `json:"price"`
	Stock           *int             `json:"stock"`
	ProductImageURL *string          `json:"product_image_url"`
	Description     *string          `json:"description"`
}

// UpdateProduct applies a partial update to a product. Owner only.
func (s *ProductService) UpdateProduct(ctx context.Context, actor Principal, shopID, productID uint, req UpdateProductRequest) (*model.Product, error) {
	shop, err := getOwnedShop(ctx, s.store, actor, shopID)
	if err != nil {
		return nil, err
	}

	product, err := s.store.GetShopProduct(ctx, shop.ID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.NotFound("product not found")
	}

	if req.Name != nil {
		if err := model.ValidateProductName(*req.Name); err != nil {
			return nil, err
		}
		if *req.Name != product.Name {
			exists, err := s.store.ProductNameExists(ctx, shop.ID, *req.Name, product.ID)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, apperr.Conflict("product with this name already exists in the shop")
			}
		}
		product.Name = *req.Name
	}
	if req.Price != nil {
		if err := model.ValidatePrice(*req.Price); err != nil {
			return nil, err
		}
		product.Price = *req.Price
	}
	if req.Stock != nil {
		if err := model.ValidateStock(*req.Stock); err != nil {
			return nil, err
		}
		product.Stock = *req.Stock
	}
	if req.ProductImageURL != nil {
		product.ProductImageURL = *req.ProductImageURL
	}
	if req.Description != nil {
		product.Description = *req.Description
	}

	if err := s.store.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct hard-deletes a product. Historic order items keep their
// captured name, price and quantity. Owner only.
func (s *ProductService) DeleteProduct(ctx context.Context, actor Principal, shopID, productID uint) error {
	shop, err := getOwnedShop(ctx, s.store, actor, shopID)
	if err != nil {
		return err
	}

	product, err := s.store.GetShopProduct(ctx, shop.ID, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return apperr.NotFound("product not found")
	}

	if err := s.store.DeleteProduct(ctx, product.ID); err != nil {
		return err
	}

	s.logger.Info("product deleted",
		zap.Uint("shop_id", shop.ID),
		zap.Uint("product_id", product.ID))
	return nil
}

// ListProducts returns the shop's catalog to its owner or members.
func (s *ProductService) ListProducts(ctx context.Context, actor Principal, shopID uint) ([]model.Product, error) {
	shop, err := getVisibleShop(ctx, s.store, actor, shopID)
	if err != nil {
		return nil, err
	}
	return s.store.ListProducts(ctx, shop.ID)
}

// GetProduct returns a single product to the shop's owner or members.
func (s *ProductService) GetProduct(ctx context.Context, actor Principal, shopID, productID uint) (*model.Product, error) {
	shop, err := getVisibleShop(ctx, s.store, actor, shopID)
	if err != nil {
		return nil, err
	}
	product, err := s.store.GetShopProduct(ctx, shop.ID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.NotFound("product not found")
	}
	return product, nil
}

package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HarshwardhanZalte/NearBasket-backend/internal/apperr"
	"github.com/HarshwardhanZalte/NearBasket-backend/internal/model"
)

func TestCreateProduct_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner, shop := env.newShop(t, "9000000001", "Asha")

	tests := []struct {
		name string
		req  ProductRequest
	}{
		{name: "empty name", req: ProductRequest{Name: "", Price: decimal.RequireFromString("10.00"), Stock: 1}},
		{name: "zero price", req: ProductRequest{Name: "Apples", Price: decimal.Zero, Stock: 1}},
		{name: "negative price", req: ProductRequest{Name: "Apples", Price: decimal.RequireFromString("-5.00"), Stock: 1}},
		{name: "negative stock", req: ProductRequest{Name: "Apples", Price: decimal.RequireFromString("10.00"), Stock: -1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.items.CreateProduct(ctx, owner, shop.ID, tc.req)
			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		})
	}
}

func TestCreateProduct_ZeroStockAllowed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner, shop := env.newShop(t, "9000000001", "Asha")

	product, err := env.items.CreateProduct(ctx, owner, shop.ID, ProductRequest{
		Name:  "Seasonal Mangoes",
		Price: decimal.RequireFromString("90.00"),
		Stock: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, product.Stock)
}

func TestCreateProduct_DuplicateName_Conflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner, shop := env.newShop(t, "9000000001", "Asha")
	env.newProduct(t, owner, shop, "Apples", "40.00", 5)

	_, err := env.items.CreateProduct(ctx, owner, shop.ID, ProductRequest{
		Name:  "Apples",
		Price: decimal.RequireFromString("42.00"),
		Stock: 3,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestCreateProduct_SameNameInDifferentShops(t *testing.T) {
	env := newTestEnv(t)

	ownerA, shopA := env.newShop(t, "9000000001", "Asha")
	ownerB, shopB := env.newShop(t, "9000000004", "Bina")

	env.newProduct(t, ownerA, shopA, "Apples", "40.00", 5)
	// The uniqueness constraint is per shop.
	env.newProduct(t, ownerB, shopB, "Apples", "38.00", 7)
}

func TestCreateProduct_NonOwner_Forbidden(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, shop := env.newShop(t, "9000000001", "Asha")
	otherOwner, _ := env.newShop(t, "9000000004", "Bina")
	customer := env.newMember(t, "9000000002", "Ravi", shop)

	req := ProductRequest{Name: "Apples", Price: decimal.RequireFromString("40.00"), Stock: 5}

	_, err := env.items.CreateProduct(ctx, otherOwner, shop.ID, req)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	_, err = env.items.CreateProduct(ctx, customer, shop.ID, req)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestUpdateProduct_PartialUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner, shop := env.newShop(t, "9000000001", "Asha")
	product := env.newProduct(t, owner, shop, "Apples", "40.00", 5)

	stock := 12
	updated, err := env.items.UpdateProduct(ctx, owner, shop.ID, product.ID, UpdateProductRequest{Stock: &stock})
	require.NoError(t, err)

	assert.Equal(t, 12, updated.Stock)
	assert.Equal(t, "Apples", updated.Name)
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("40.00")))
}

func TestUpdateProduct_RevalidatesChangedFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner, shop := env.newShop(t, "9000000001", "Asha")
	product := env.newProduct(t, owner, shop, "Apples", "40.00", 5)

	badPrice := decimal.Zero
	_, err := env.items.UpdateProduct(ctx, owner, shop.ID, product.ID, UpdateProductRequest{Price: &badPrice})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	badStock := -3
	_, err = env.items.UpdateProduct(ctx, owner, shop.ID, product.ID, UpdateProductRequest{Stock: &badStock})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestUpdateProduct_RenameToExistingName_Conflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner, shop := env.newShop(t, "9000000001", "Asha")
	env.newProduct(t, owner, shop, "Apples", "40.00", 5)
	bread := env.newProduct(t, owner, shop, "Bread", "25.00", 10)

	taken := "Apples"
	_, err := env.items.UpdateProduct(ctx, owner, shop.ID, bread.ID, UpdateProductRequest{Name: &taken})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	// Re-posting the product's own name is not a conflict.
	same := "Bread"
	_, err = env.items.UpdateProduct(ctx, owner, shop.ID, bread.ID, UpdateProductRequest{Name: &same})
	assert.NoError(t, err)
}

func TestDeleteProduct_KeepsOrderItems(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner, shop := env.newShop(t, "9000000001", "Asha")
	customer := env.newMember(t, "9000000002", "Ravi", shop)
	apples := env.newProduct(t, owner, shop, "Apples", "40.00", 5)

	order, err := env.orders.CreateOrder(ctx, customer, shop.ID, []OrderItemRequest{
		{ProductID: apples.ID, Quantity: 2},
	})
	require.NoError(t, err)

	require.NoError(t, env.items.DeleteProduct(ctx, owner, shop.ID, apples.ID))

	// The order item survives with its captured snapshot.
	reloaded, err := env.orders.GetOrder(ctx, customer, order.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.Equal(t, "Apples", reloaded.Items[0].ProductName)
	assert.True(t, reloaded.Items[0].Price.Equal(decimal.RequireFromString("40.00")))
	assert.Equal(t, 2, reloaded.Items[0].Quantity)

	_, err = env.items.GetProduct(ctx, customer, shop.ID, apples.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestDeleteProduct_NotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner, shop := env.newShop(t, "9000000001", "Asha")

	err := env.items.DeleteProduct(ctx, owner, shop.ID, 999)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestListProducts_Visibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner, shop := env.newShop(t, "9000000001", "Asha")
	member := env.newMember(t, "9000000002", "Ravi", shop)
	stranger, _ := env.registerUser(t, "9000000003", "Kiran", model.RoleCustomer)

	env.newProduct(t, owner, shop, "Apples", "40.00", 5)
	env.newProduct(t, owner, shop, "Bread", "25.00", 10)

	products, err := env.items.ListProducts(ctx, owner, shop.ID)
	require.NoError(t, err)
	assert.Len(t, products, 2)

	products, err = env.items.ListProducts(ctx, member, shop.ID)
	require.NoError(t, err)
	assert.Len(t, products, 2)

	_, err = env.items.ListProducts(ctx, stranger, shop.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

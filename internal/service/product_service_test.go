package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductLifecycle(t *testing.T) {
	f := newFixture(t)
	svc := NewProductService(f.products)

	price := decimal.RequireFromString("35.00")
	stock := 40
	product, err := svc.CreateProduct(context.Background(), &CreateProductRequest{
		Name: "5-Gallon Refill", Price: &price, Quantity: &stock,
	})
	require.NoError(t, err)
	assert.True(t, product.IsActive)
	assert.Equal(t, 40, product.Quantity)

	newPrice := decimal.RequireFromString("37.50")
	updated, err := svc.UpdateProduct(context.Background(), product.ID, &UpdateProductRequest{Price: &newPrice})
	require.NoError(t, err)
	assertMoney(t, "37.50", updated.Price)

	require.NoError(t, svc.DeleteProduct(context.Background(), product.ID))
	_, err = svc.GetProduct(context.Background(), product.ID)
	requireKind(t, err, KindNotFound)

	listed, err := svc.ListProducts(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.False(t, listed[0].IsActive)
}

func TestCreateProductValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewProductService(f.products)

	negative := decimal.RequireFromString("-1")
	_, err := svc.CreateProduct(context.Background(), &CreateProductRequest{Name: "Jug", Price: &negative})
	appErr := requireKind(t, err, KindValidation)
	assert.Contains(t, appErr.Errors, "Price cannot be negative")

	fine := decimal.RequireFromString("1.999")
	_, err = svc.CreateProduct(context.Background(), &CreateProductRequest{Name: "Jug", Price: &fine})
	appErr = requireKind(t, err, KindValidation)
	assert.Contains(t, appErr.Errors, "Price must have at most 2 decimal places")

	_, err = svc.CreateProduct(context.Background(), &CreateProductRequest{Name: "Jug"})
	appErr = requireKind(t, err, KindValidation)
	assert.Contains(t, appErr.Errors, "Price is required")

	_, err = svc.UpdateProduct(context.Background(), 1, &UpdateProductRequest{})
	requireKind(t, err, KindValidation)
}

package service

import (
	"context"
	"testing"

	"github.com/Lagare24/cris-bel-water/internal/model"
	"github.com/Lagare24/cris-bel-water/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePrice(t *testing.T) {
	f := newFixture(t)
	testutil.CreateWalkIn(t, f.db)
	regular := testutil.CreateClient(t, f.db, "ABC Corporation", "contact@abc.com", true)
	dormant := testutil.CreateClient(t, f.db, "Wellness Spa", "booking@wellnessspa.com", false)
	refill := testutil.CreateProduct(t, f.db, "5-Gallon Refill", "35.00", true)
	bottle := testutil.CreateProduct(t, f.db, "500ml Bottle", "10.00", true)
	testutil.CreateOverride(t, f.db, regular.ID, refill.ID, "30.00", true)
	testutil.CreateOverride(t, f.db, regular.ID, bottle.ID, "8.00", false)
	testutil.CreateOverride(t, f.db, dormant.ID, refill.ID, "20.00", true)

	tests := []struct {
		name      string
		clientID  uint
		productID uint
		price     string
		source    PriceSource
	}{
		{"active override", regular.ID, refill.ID, "30.00", PriceSourceOverride},
		{"inactive override", regular.ID, bottle.ID, "10.00", PriceSourceBase},
		{"inactive client", dormant.ID, refill.ID, "35.00", PriceSourceBase},
		{"walk-in", 0, refill.ID, "35.00", PriceSourceBase},
		{"no override", model.WalkInClientID, bottle.ID, "10.00", PriceSourceBase},
	}

	svc := f.pricingService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, err := svc.Resolve(context.Background(), tt.clientID, tt.productID)
			require.NoError(t, err)
			assertMoney(t, tt.price, resolved.UnitPrice)
			assert.Equal(t, tt.source, resolved.Source)
		})
	}
}

func TestResolvePriceErrors(t *testing.T) {
	f := newFixture(t)
	testutil.CreateWalkIn(t, f.db)
	refill := testutil.CreateProduct(t, f.db, "5-Gallon Refill", "35.00", true)
	retired := testutil.CreateProduct(t, f.db, "Vintage 5-Gallon", "30.00", false)
	svc := f.pricingService()

	_, err := svc.ResolveUnitPrice(context.Background(), 0, 404)
	appErr := requireKind(t, err, KindNotFound)
	assert.Equal(t, "Product with ID 404 not found", appErr.Message)

	_, err = svc.ResolveUnitPrice(context.Background(), 0, retired.ID)
	requireKind(t, err, KindConflict)

	_, err = svc.ResolveUnitPrice(context.Background(), 42, refill.ID)
	appErr = requireKind(t, err, KindNotFound)
	assert.Equal(t, "Client with ID 42 not found", appErr.Message)
}

func TestSetOverrideUpsertsAndReactivates(t *testing.T) {
	f := newFixture(t)
	testutil.CreateWalkIn(t, f.db)
	client := testutil.CreateClient(t, f.db, "ABC Corporation", "contact@abc.com", true)
	refill := testutil.CreateProduct(t, f.db, "5-Gallon Refill", "35.00", true)
	removed := testutil.CreateOverride(t, f.db, client.ID, refill.ID, "28.00", false)
	svc := f.pricingService()

	price := decimal.RequireFromString("31.50")
	saved, err := svc.SetOverride(context.Background(), client.ID, &SetOverrideRequest{ProductID: refill.ID, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, removed.ID, saved.ID)
	assert.True(t, saved.IsActive)
	assertMoney(t, "31.50", saved.Price)
	assert.Equal(t, "5-Gallon Refill", saved.ToResponse().ProductName)

	var rows int64
	require.NoError(t, f.db.Model(&model.ClientProductPrice{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	overrides, err := svc.ListOverrides(context.Background(), client.ID)
	require.NoError(t, err)
	require.Len(t, overrides, 1)

	unit, err := svc.ResolveUnitPrice(context.Background(), client.ID, refill.ID)
	require.NoError(t, err)
	assertMoney(t, "31.50", unit)
	assert.Equal(t, []string{ActionOverrideUpdated}, f.pub.actions())
}

func TestSetOverrideValidation(t *testing.T) {
	f := newFixture(t)
	testutil.CreateWalkIn(t, f.db)
	client := testutil.CreateClient(t, f.db, "ABC Corporation", "contact@abc.com", true)
	dormant := testutil.CreateClient(t, f.db, "Wellness Spa", "booking@wellnessspa.com", false)
	refill := testutil.CreateProduct(t, f.db, "5-Gallon Refill", "35.00", true)
	retired := testutil.CreateProduct(t, f.db, "Vintage 5-Gallon", "30.00", false)
	svc := f.pricingService()

	zero := decimal.Zero
	_, err := svc.SetOverride(context.Background(), client.ID, &SetOverrideRequest{ProductID: refill.ID, Price: &zero})
	requireKind(t, err, KindValidation)

	fine := decimal.RequireFromString("30.125")
	_, err = svc.SetOverride(context.Background(), client.ID, &SetOverrideRequest{ProductID: refill.ID, Price: &fine})
	requireKind(t, err, KindValidation)

	ok := decimal.RequireFromString("30.00")
	_, err = svc.SetOverride(context.Background(), 99, &SetOverrideRequest{ProductID: refill.ID, Price: &ok})
	requireKind(t, err, KindNotFound)

	_, err = svc.SetOverride(context.Background(), dormant.ID, &SetOverrideRequest{ProductID: refill.ID, Price: &ok})
	appErr := requireKind(t, err, KindConflict)
	assert.Equal(t, "Client is inactive", appErr.Message)

	_, err = svc.SetOverride(context.Background(), client.ID, &SetOverrideRequest{ProductID: retired.ID, Price: &ok})
	appErr = requireKind(t, err, KindConflict)
	assert.Equal(t, "Product is inactive", appErr.Message)
}

func TestRemoveOverride(t *testing.T) {
	f := newFixture(t)
	testutil.CreateWalkIn(t, f.db)
	client := testutil.CreateClient(t, f.db, "ABC Corporation", "contact@abc.com", true)
	refill := testutil.CreateProduct(t, f.db, "5-Gallon Refill", "35.00", true)
	testutil.CreateOverride(t, f.db, client.ID, refill.ID, "30.00", true)
	svc := f.pricingService()

	require.NoError(t, svc.RemoveOverride(context.Background(), client.ID, refill.ID))

	resolved, err := svc.Resolve(context.Background(), client.ID, refill.ID)
	require.NoError(t, err)
	assert.Equal(t, PriceSourceBase, resolved.Source)

	err = svc.RemoveOverride(context.Background(), client.ID, refill.ID)
	appErr := requireKind(t, err, KindNotFound)
	assert.Equal(t, "Override price not found", appErr.Message)
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/Lagare24/cris-bel-water/internal/model"
	"github.com/Lagare24/cris-bel-water/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	f := newFixture(t)
	testutil.CreateWalkIn(t, f.db)
	testutil.CreateClient(t, f.db, "ABC Corporation", "contact@abc.com", true)
	testutil.CreateClient(t, f.db, "Wellness Spa", "booking@wellnessspa.com", false)
	refill := testutil.CreateProduct(t, f.db, "5-Gallon Refill", "35.00", true)
	low := testutil.CreateProduct(t, f.db, "Dispenser Pump", "150.00", true)
	testutil.CreateProduct(t, f.db, "Vintage 5-Gallon", "30.00", false)
	require.NoError(t, f.db.Model(&model.Product{}).Where("id = ?", low.ID).Update("quantity", 3).Error)

	today := date(2025, time.March, 10, 14)
	f.mustSell(t, today.Add(-2*time.Hour), nil, item(refill.ID, 2))
	f.mustSell(t, today.Add(-48*time.Hour), nil, item(refill.ID, 1))

	svc := NewDashboardService(f.reports, f.clients).(*dashboardService)
	svc.now = func() time.Time { return today }

	stats, err := svc.GetDashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalClients)
	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.LowStockCount)
	// 100 * 35.00 + 3 * 150.00
	assertMoney(t, "3950.00", stats.InventoryValuation)
	assert.Equal(t, int64(1), stats.TodaySalesCount)
	assertMoney(t, "70.00", stats.TodayRevenue)
}

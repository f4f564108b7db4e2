package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Lagare24/cris-bel-water/internal/model"
	"github.com/Lagare24/cris-bel-water/internal/testutil"
	"github.com/Lagare24/cris-bel-water/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSale(t *testing.T, db *gorm.DB, at time.Time, clientID *uint) *model.Sale {
	t.Helper()
	sale := &model.Sale{ClientID: clientID, SaleDate: at, TotalAmount: testutil.Money("35.00")}
	require.NoError(t, NewSaleRepo(db).Create(context.Background(), sale))
	return sale
}

func TestClientDeactivateNeverTouchesWalkIn(t *testing.T) {
	db := testutil.NewDB(t)
	walkIn := testutil.CreateWalkIn(t, db)
	abc := testutil.CreateClient(t, db, "ABC Corporation", "contact@abc.com", true)
	repo := NewClientRepo(db)

	n, err := repo.Deactivate(context.Background(), []uint{walkIn.ID, abc.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestClientEmailTaken(t *testing.T) {
	db := testutil.NewDB(t)
	abc := testutil.CreateClient(t, db, "ABC Corporation", "contact@abc.com", true)
	repo := NewClientRepo(db)

	taken, err := repo.EmailTaken(context.Background(), "contact@abc.com", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.EmailTaken(context.Background(), "contact@abc.com", abc.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = repo.EmailTaken(context.Background(), "Contact@abc.com", 0)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestInvoiceNumberUniqueness(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewInvoiceRepo(db)
	issued := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	first := newSale(t, db, issued, nil)
	second := newSale(t, db, issued, nil)

	require.NoError(t, repo.Create(context.Background(), &model.Invoice{
		InvoiceNumber: "INV-2025-000001", SaleID: first.ID, IssueDate: issued, Status: model.InvoiceUnpaid,
	}))

	err := repo.Create(context.Background(), &model.Invoice{
		InvoiceNumber: "INV-2025-000001", SaleID: second.ID, IssueDate: issued, Status: model.InvoiceUnpaid,
	})
	assert.True(t, database.IsUniqueViolation(err))

	err = repo.Create(context.Background(), &model.Invoice{
		InvoiceNumber: "INV-2025-000002", SaleID: first.ID, IssueDate: issued, Status: model.InvoiceUnpaid,
	})
	assert.True(t, database.IsUniqueViolation(err))

	exists, err := repo.NumberExists(context.Background(), "INV-2025-000001")
	require.NoError(t, err)
	assert.True(t, exists)

	yearStart := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	n, err := repo.CountIssuedBetween(context.Background(), yearStart, yearStart.AddDate(1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.CountIssuedBetween(context.Background(), yearStart.AddDate(1, 0, 0), yearStart.AddDate(2, 0, 0))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSaleFindAllHalfOpenRange(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSaleRepo(db)
	midnight := time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC)
	before := newSale(t, db, midnight.Add(-time.Second), nil)
	newSale(t, db, midnight, nil)

	from := midnight.AddDate(0, 0, -1)
	sales, err := repo.FindAll(context.Background(), SaleFilter{From: &from, To: &midnight})
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, before.ID, sales[0].ID)
}

func TestPeriodTotalsEmpty(t *testing.T) {
	db := testutil.NewDB(t)
	from := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	totals, err := NewReportRepo(db).PeriodTotals(context.Background(), from, from.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Zero(t, totals.SalesCount)
	assert.True(t, totals.TotalSalesAmount.IsZero())
	assert.Zero(t, totals.TotalItemsSold)
}

package repository

import (
	"context"
	"time"

	"github.com/Lagare24/cris-bel-water/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportRepository runs the read-only aggregate queries behind reports and the dashboard.
type ReportRepository interface {
	PeriodTotals(ctx context.Context, from, to time.Time) (*model.PeriodTotals, error)
	TopClients(ctx context.Context, limit int) ([]ClientRevenueRow, error)
	TopProducts(ctx context.Context, limit int) ([]ProductRevenueRow, error)
	InventoryStats(ctx context.Context) (*InventoryStats, error)
}

// ClientRevenueRow groups sales by client; ClientID is nil for walk-in sales.
type ClientRevenueRow struct {
	ClientID   *uint
	SalesCount int64
	Revenue    decimal.Decimal
}

type ProductRevenueRow struct {
	ProductID     uint
	TotalQuantity int64
	Revenue       decimal.Decimal
}

type InventoryStats struct {
	TotalProducts int64
	LowStockCount int64
	Valuation     decimal.Decimal
}

type countSum struct {
	Total  int64
	Amount decimal.Decimal
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db}
}

// PeriodTotals aggregates sales, invoices and sold quantities over [from, to).
func (r *reportRepo) PeriodTotals(ctx context.Context, from, to time.Time) (*model.PeriodTotals, error) {
	db := r.db.WithContext(ctx)

	var sales countSum
	err := db.Model(&model.Sale{}).
		Select("COUNT(*) AS total, COALESCE(SUM(total_amount), 0) AS amount").
		Where("sale_date >= ? AND sale_date < ?", from, to).
		Scan(&sales).Error
	if err != nil {
		return nil, err
	}

	var invoices countSum
	err = db.Model(&model.Invoice{}).
		Select("COUNT(*) AS total, COALESCE(SUM(total_amount), 0) AS amount").
		Where("issue_date >= ? AND issue_date < ?", from, to).
		Scan(&invoices).Error
	if err != nil {
		return nil, err
	}

	var items int64
	err = db.Model(&model.SaleItem{}).
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.sale_date >= ? AND sales.sale_date < ?", from, to).
		Select("COALESCE(SUM(sale_items.quantity), 0)").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}

	return &model.PeriodTotals{
		SalesCount:         sales.Total,
		TotalSalesAmount:   model.RoundMoney(sales.Amount),
		InvoiceCount:       invoices.Total,
		TotalInvoiceAmount: model.RoundMoney(invoices.Amount),
		TotalItemsSold:     items,
	}, nil
}

// TopClients orders by revenue, then sale count, both descending.
func (r *reportRepo) TopClients(ctx context.Context, limit int) ([]ClientRevenueRow, error) {
	var rows []ClientRevenueRow
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("client_id, COUNT(*) AS sales_count, COALESCE(SUM(total_amount), 0) AS revenue").
		Group("client_id").
		Order("revenue DESC").
		Order("sales_count DESC").
		Order("client_id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// TopProducts orders by quantity * unit price revenue, then quantity, both descending.
func (r *reportRepo) TopProducts(ctx context.Context, limit int) ([]ProductRevenueRow, error) {
	var rows []ProductRevenueRow
	err := r.db.WithContext(ctx).Model(&model.SaleItem{}).
		Select("product_id, COALESCE(SUM(quantity), 0) AS total_quantity, COALESCE(SUM(quantity * unit_price), 0) AS revenue").
		Group("product_id").
		Order("revenue DESC").
		Order("total_quantity DESC").
		Order("product_id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) InventoryStats(ctx context.Context) (*InventoryStats, error) {
	db := r.db.WithContext(ctx)
	var stats InventoryStats

	active := db.Model(&model.Product{}).Where("is_active = ?", true)
	if err := active.Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}

	err := db.Model(&model.Product{}).
		Where("is_active = ? AND quantity < ?", true, model.LowStockThreshold).
		Count(&stats.LowStockCount).Error
	if err != nil {
		return nil, err
	}

	var valuation struct{ Amount decimal.Decimal }
	err = db.Model(&model.Product{}).
		Select("COALESCE(SUM(quantity * price), 0) AS amount").
		Where("is_active = ?", true).
		Scan(&valuation).Error
	if err != nil {
		return nil, err
	}
	stats.Valuation = model.RoundMoney(valuation.Amount)

	return &stats, nil
}

package repository

import (
	"context"
	"time"

	"github.com/Lagare24/cris-bel-water/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InvoiceRepository interface {
	WithTx(tx *gorm.DB) InvoiceRepository
	Create(ctx context.Context, invoice *model.Invoice) error
	CreateItems(ctx context.Context, items []model.InvoiceItem) error
	UpdateTotal(ctx context.Context, id uint, total decimal.Decimal) error
	FindByID(ctx context.Context, id uint) (*model.Invoice, error)
	FindAll(ctx context.Context) ([]model.Invoice, error)
	FindBySaleID(ctx context.Context, saleID uint) (*model.Invoice, error)
	NumberExists(ctx context.Context, number string) (bool, error)
	CountIssuedBetween(ctx context.Context, from, to time.Time) (int64, error)
}

type invoiceRepo struct {
	db *gorm.DB
}

func NewInvoiceRepo(db *gorm.DB) InvoiceRepository {
	return &invoiceRepo{db}
}

func (r *invoiceRepo) WithTx(tx *gorm.DB) InvoiceRepository {
	return &invoiceRepo{tx}
}

func (r *invoiceRepo) Create(ctx context.Context, invoice *model.Invoice) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(invoice).Error
}

func (r *invoiceRepo) CreateItems(ctx context.Context, items []model.InvoiceItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *invoiceRepo) UpdateTotal(ctx context.Context, id uint, total decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.Invoice{}).
		Where("id = ?", id).
		Update("total_amount", total).Error
}

func (r *invoiceRepo) FindByID(ctx context.Context, id uint) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.withDetails(ctx).First(&invoice, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepo) FindAll(ctx context.Context) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := r.withDetails(ctx).Order("issue_date DESC").Order("id DESC").Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepo) FindBySaleID(ctx context.Context, saleID uint) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.db.WithContext(ctx).First(&invoice, "sale_id = ?", saleID).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepo) NumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Invoice{}).Where("invoice_number = ?", number).Count(&count).Error
	return count > 0, err
}

// CountIssuedBetween counts invoices with from <= issue_date < to.
func (r *invoiceRepo) CountIssuedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Invoice{}).
		Where("issue_date >= ? AND issue_date < ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *invoiceRepo) withDetails(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Client").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("invoice_items.id ASC")
		})
}

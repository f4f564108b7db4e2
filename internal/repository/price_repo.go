package repository

import (
	"context"

	"github.com/Lagare24/cris-bel-water/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PriceRepository persists client price overrides.
type PriceRepository interface {
	WithTx(tx *gorm.DB) PriceRepository
	FindActive(ctx context.Context, clientID, productID uint) (*model.ClientProductPrice, error)
	FindActiveByProducts(ctx context.Context, clientID uint, productIDs []uint) ([]model.ClientProductPrice, error)
	FindByPair(ctx context.Context, clientID, productID uint) (*model.ClientProductPrice, error)
	FindByClient(ctx context.Context, clientID uint) ([]model.ClientProductPrice, error)
	Save(ctx context.Context, override *model.ClientProductPrice) error
	Deactivate(ctx context.Context, clientID, productID uint) (int64, error)
}

type priceRepo struct {
	db *gorm.DB
}

func NewPriceRepo(db *gorm.DB) PriceRepository {
	return &priceRepo{db}
}

func (r *priceRepo) WithTx(tx *gorm.DB) PriceRepository {
	return &priceRepo{tx}
}

func (r *priceRepo) FindActive(ctx context.Context, clientID, productID uint) (*model.ClientProductPrice, error) {
	var override model.ClientProductPrice
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND product_id = ? AND is_active = ?", clientID, productID, true).
		Order("updated_at DESC").
		First(&override).Error
	if err != nil {
		return nil, err
	}
	return &override, nil
}

func (r *priceRepo) FindActiveByProducts(ctx context.Context, clientID uint, productIDs []uint) ([]model.ClientProductPrice, error) {
	var overrides []model.ClientProductPrice
	if len(productIDs) == 0 {
		return overrides, nil
	}
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND product_id IN ? AND is_active = ?", clientID, productIDs, true).
		Find(&overrides).Error
	return overrides, err
}

// FindByPair returns the override row regardless of its active flag.
func (r *priceRepo) FindByPair(ctx context.Context, clientID, productID uint) (*model.ClientProductPrice, error) {
	var override model.ClientProductPrice
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND product_id = ?", clientID, productID).
		First(&override).Error
	if err != nil {
		return nil, err
	}
	return &override, nil
}

func (r *priceRepo) FindByClient(ctx context.Context, clientID uint) ([]model.ClientProductPrice, error) {
	var overrides []model.ClientProductPrice
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("client_id = ? AND is_active = ?", clientID, true).
		Order("product_id ASC").
		Find(&overrides).Error
	return overrides, err
}

func (r *priceRepo) Save(ctx context.Context, override *model.ClientProductPrice) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(override).Error
}

func (r *priceRepo) Deactivate(ctx context.Context, clientID, productID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.ClientProductPrice{}).
		Where("client_id = ? AND product_id = ? AND is_active = ?", clientID, productID, true).
		Updates(map[string]interface{}{"is_active": false})
	return res.RowsAffected, res.Error
}

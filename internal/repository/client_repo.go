package repository

import (
	"context"

	"github.com/Lagare24/cris-bel-water/internal/model"

	"gorm.io/gorm"
)

type ClientRepository interface {
	WithTx(tx *gorm.DB) ClientRepository
	Create(ctx context.Context, client *model.Client) error
	Update(ctx context.Context, client *model.Client) error
	FindByID(ctx context.Context, id uint) (*model.Client, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.Client, error)
	FindAll(ctx context.Context, includeInactive bool) ([]model.Client, error)
	EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
	Deactivate(ctx context.Context, ids []uint) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type clientRepo struct {
	db *gorm.DB
}

func NewClientRepo(db *gorm.DB) ClientRepository {
	return &clientRepo{db}
}

func (r *clientRepo) WithTx(tx *gorm.DB) ClientRepository {
	return &clientRepo{tx}
}

func (r *clientRepo) Create(ctx context.Context, client *model.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *clientRepo) Update(ctx context.Context, client *model.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

func (r *clientRepo) FindByID(ctx context.Context, id uint) (*model.Client, error) {
	var client model.Client
	err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepo) FindByIDs(ctx context.Context, ids []uint) ([]model.Client, error) {
	var clients []model.Client
	if len(ids) == 0 {
		return clients, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&clients).Error
	return clients, err
}

func (r *clientRepo) FindAll(ctx context.Context, includeInactive bool) ([]model.Client, error) {
	var clients []model.Client
	q := r.db.WithContext(ctx).Order("name ASC")
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&clients).Error
	return clients, err
}

// EmailTaken compares the trimmed email exactly; excludeID skips the record being updated.
func (r *clientRepo) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Client{}).Where("email = ?", email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *clientRepo) Deactivate(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&model.Client{}).
		Where("id IN ? AND id <> ?", ids, model.WalkInClientID).
		Updates(map[string]interface{}{"is_active": false})
	return res.RowsAffected, res.Error
}

func (r *clientRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Client{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

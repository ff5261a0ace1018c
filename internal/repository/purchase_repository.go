package repository

import (
	"context"
	"time"

	"github.com/lshigami/examprep/internal/model"
	"gorm.io/gorm"
)

type PurchaseRepository interface {
	Create(ctx context.Context, purchase *model.Purchase) error
	FindByID(ctx context.Context, id string) (*model.Purchase, error)
	FindByUser(ctx context.Context, userID string) ([]model.Purchase, error)
	// Settle moves a pending purchase to its final status. It reports false when the
	// purchase was no longer pending.
	Settle(ctx context.Context, id, status, paymentID, reason string, at time.Time) (bool, error)
	// WithTx returns a repository bound to tx.
	WithTx(tx *gorm.DB) PurchaseRepository
}

type purchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) WithTx(tx *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: tx}
}

func (r *purchaseRepository) Create(ctx context.Context, purchase *model.Purchase) error {
	return r.db.WithContext(ctx).Create(purchase).Error
}

func (r *purchaseRepository) FindByID(ctx context.Context, id string) (*model.Purchase, error) {
	var purchase model.Purchase
	if err := r.db.WithContext(ctx).Preload("Plan").Where("id = ?", id).First(&purchase).Error; err != nil {
		return nil, translate(err)
	}
	return &purchase, nil
}

func (r *purchaseRepository) FindByUser(ctx context.Context, userID string) ([]model.Purchase, error) {
	var purchases []model.Purchase
	err := r.db.WithContext(ctx).Preload("Plan").Where("user_id = ?", userID).Order("created_at DESC").Find(&purchases).Error
	return purchases, err
}

func (r *purchaseRepository) Settle(ctx context.Context, id, status, paymentID, reason string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Where("id = ? AND status = ?", id, model.PurchasePending).
		Updates(map[string]any{
			"status":         status,
			"payment_id":     paymentID,
			"failure_reason": reason,
			"settled_at":     at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

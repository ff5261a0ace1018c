package repository

import (
	"context"

	"github.com/lshigami/examprep/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoriteRepository interface {
	Add(ctx context.Context, subject string, testID uint) error
	Remove(ctx context.Context, subject string, testID uint) error
	ListTestIDs(ctx context.Context, subject string) ([]uint, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Add(ctx context.Context, subject string, testID uint) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.Favorite{Subject: subject, TestID: testID}).Error
}

func (r *favoriteRepository) Remove(ctx context.Context, subject string, testID uint) error {
	return r.db.WithContext(ctx).Where("subject = ? AND test_id = ?", subject, testID).Delete(&model.Favorite{}).Error
}

func (r *favoriteRepository) ListTestIDs(ctx context.Context, subject string) ([]uint, error) {
	ids := []uint{}
	err := r.db.WithContext(ctx).Model(&model.Favorite{}).
		Where("subject = ?", subject).
		Order("created_at DESC").Order("id DESC").
		Pluck("test_id", &ids).Error
	return ids, err
}

type BannerRepository interface {
	Create(ctx context.Context, banner *model.Banner) error
	Update(ctx context.Context, banner *model.Banner) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Banner, error)
	FindAll(ctx context.Context, activeOnly bool) ([]model.Banner, error)
}

type bannerRepository struct {
	db *gorm.DB
}

func NewBannerRepository(db *gorm.DB) BannerRepository {
	return &bannerRepository{db: db}
}

func (r *bannerRepository) Create(ctx context.Context, banner *model.Banner) error {
	return r.db.WithContext(ctx).Create(banner).Error
}

func (r *bannerRepository) Update(ctx context.Context, banner *model.Banner) error {
	return r.db.WithContext(ctx).Save(banner).Error
}

func (r *bannerRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Banner{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *bannerRepository) FindByID(ctx context.Context, id uint) (*model.Banner, error) {
	var banner model.Banner
	if err := r.db.WithContext(ctx).First(&banner, id).Error; err != nil {
		return nil, translate(err)
	}
	return &banner, nil
}

func (r *bannerRepository) FindAll(ctx context.Context, activeOnly bool) ([]model.Banner, error) {
	var banners []model.Banner
	q := r.db.WithContext(ctx)
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	err := q.Order("position ASC").Order("id ASC").Find(&banners).Error
	return banners, err
}

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	// FindForUser returns the user's own and broadcast notifications, newest first.
	FindForUser(ctx context.Context, userID string, limit int) ([]model.Notification, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepository) FindForUser(ctx context.Context, userID string, limit int) ([]model.Notification, error) {
	var out []model.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ? OR user_id = '' OR user_id IS NULL", userID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

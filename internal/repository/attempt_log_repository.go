package repository

import (
	"context"

	"github.com/lshigami/examprep/internal/model"
	"gorm.io/gorm"
)

type AttemptLogRepository interface {
	Create(ctx context.Context, entry *model.AttemptLog) error
	CountBySubjectAndTest(ctx context.Context, subject string, testID uint) (int, error)
	CountByTest(ctx context.Context, testID uint) (int, error)
}

type attemptLogRepository struct {
	db *gorm.DB
}

func NewAttemptLogRepository(db *gorm.DB) AttemptLogRepository {
	return &attemptLogRepository{db: db}
}

func (r *attemptLogRepository) Create(ctx context.Context, entry *model.AttemptLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *attemptLogRepository) CountBySubjectAndTest(ctx context.Context, subject string, testID uint) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.AttemptLog{}).
		Where("subject = ? AND test_id = ?", subject, testID).
		Count(&n).Error
	return int(n), err
}

func (r *attemptLogRepository) CountByTest(ctx context.Context, testID uint) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.AttemptLog{}).
		Where("test_id = ?", testID).
		Count(&n).Error
	return int(n), err
}

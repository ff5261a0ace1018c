package repository

import (
	"context"

	"github.com/lshigami/examprep/internal/model"
	"gorm.io/gorm"
)

type TestResultRepository interface {
	Create(ctx context.Context, result *model.TestResult) error
	FindBySubject(ctx context.Context, subject string, limit int) ([]model.TestResult, error)
}

type testResultRepository struct {
	db *gorm.DB
}

func NewTestResultRepository(db *gorm.DB) TestResultRepository {
	return &testResultRepository{db: db}
}

func (r *testResultRepository) Create(ctx context.Context, result *model.TestResult) error {
	return r.db.WithContext(ctx).Create(result).Error
}

func (r *testResultRepository) FindBySubject(ctx context.Context, subject string, limit int) ([]model.TestResult, error) {
	var results []model.TestResult
	err := r.db.WithContext(ctx).
		Preload("Test").
		Where("subject = ?", subject).
		Order("submitted_at DESC").Order("id DESC").
		Limit(limit).
		Find(&results).Error
	return results, err
}

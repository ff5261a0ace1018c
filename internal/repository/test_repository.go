package repository

import (
	"context"

	"github.com/lshigami/examprep/internal/model"
	"gorm.io/gorm"
)

type TestRepository interface {
	Create(ctx context.Context, test *model.Test) error
	Update(ctx context.Context, test *model.Test) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Test, error)
	FindByIDWithQuestions(ctx context.Context, id uint) (*model.Test, error)
	// FindByCategory returns the category listing in presentation order.
	FindByCategory(ctx context.Context, categoryID uint) ([]model.Test, error)
	// FindPremiumInCatalogOrder lists premium tests ordered by category, then test position.
	FindPremiumInCatalogOrder(ctx context.Context) ([]model.Test, error)
}

type testRepository struct {
	db *gorm.DB
}

func NewTestRepository(db *gorm.DB) TestRepository {
	return &testRepository{db: db}
}

func (r *testRepository) Create(ctx context.Context, test *model.Test) error {
	// Questions attached to test are created in the same statement.
	return r.db.WithContext(ctx).Create(test).Error
}

func (r *testRepository) Update(ctx context.Context, test *model.Test) error {
	return r.db.WithContext(ctx).Omit("Questions", "Category").Save(test).Error
}

func (r *testRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Test{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("test_id = ?", id).Delete(&model.Question{}).Error
	})
}

func (r *testRepository) FindByID(ctx context.Context, id uint) (*model.Test, error) {
	var test model.Test
	if err := r.db.WithContext(ctx).First(&test, id).Error; err != nil {
		return nil, translate(err)
	}
	return &test, nil
}

func (r *testRepository) FindByIDWithQuestions(ctx context.Context, id uint) (*model.Test, error) {
	var test model.Test
	err := r.db.WithContext(ctx).Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.order_in_test ASC").Order("questions.id ASC")
	}).First(&test, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &test, nil
}

func (r *testRepository) FindByCategory(ctx context.Context, categoryID uint) ([]model.Test, error) {
	var tests []model.Test
	err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("position ASC").Order("id ASC").
		Find(&tests).Error
	return tests, err
}

func (r *testRepository) FindPremiumInCatalogOrder(ctx context.Context) ([]model.Test, error) {
	var tests []model.Test
	err := r.db.WithContext(ctx).
		Select("tests.*").
		Joins("JOIN categories ON categories.id = tests.category_id AND categories.deleted_at IS NULL").
		Where("tests.is_premium = ?", true).
		Order("categories.position ASC").Order("categories.id ASC").
		Order("tests.position ASC").Order("tests.id ASC").
		Find(&tests).Error
	return tests, err
}

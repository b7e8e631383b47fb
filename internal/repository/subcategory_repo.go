package repository

import (
	"context"

	"github.com/sajjadaliuos1/Pharmasys/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubcategoryRepository defines CRUD operations for Subcategory.
type SubcategoryRepository interface {
	Create(ctx context.Context, s *model.Subcategory) error
	List(ctx context.Context) ([]model.Subcategory, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]model.Subcategory, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Subcategory, error)
	Update(ctx context.Context, s *model.Subcategory) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type subcategoryRepository struct{ db *gorm.DB }

func NewSubcategoryRepository(db *gorm.DB) SubcategoryRepository {
	return &subcategoryRepository{db: db}
}

func (r *subcategoryRepository) Create(ctx context.Context, s *model.Subcategory) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *subcategoryRepository) List(ctx context.Context) ([]model.Subcategory, error) {
	var list []model.Subcategory
	err := r.db.WithContext(ctx).Where("active").Order("name asc").Find(&list).Error
	return list, err
}

func (r *subcategoryRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]model.Subcategory, error) {
	var list []model.Subcategory
	err := r.db.WithContext(ctx).Where("category_id = ?", categoryID).Order("name asc").Find(&list).Error
	return list, err
}

func (r *subcategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Subcategory, error) {
	var s model.Subcategory
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *subcategoryRepository) Update(ctx context.Context, s *model.Subcategory) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *subcategoryRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Subcategory{}).Where("id = ?", id).Update("active", false).Error
}

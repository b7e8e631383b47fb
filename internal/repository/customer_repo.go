package repository

import (
	"context"

	"github.com/sajjadaliuos1/Pharmasys/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomerRepository defines CRUD operations for Customer.
type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	List(ctx context.Context) ([]model.Customer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	Update(ctx context.Context, c *model.Customer) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	CountActive(ctx context.Context) (int64, error)
}

type customerRepository struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerRepository) List(ctx context.Context) ([]model.Customer, error) {
	var list []model.Customer
	err := r.db.WithContext(ctx).Where("active").Order("name asc").Find(&list).Error
	return list, err
}

func (r *customerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepository) Update(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *customerRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Customer{}).Where("id = ?", id).Update("active", false).Error
}

func (r *customerRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Customer{}).Where("active").Count(&n).Error
	return n, err
}

package repository

import (
	"context"
	"errors"

	"github.com/sajjadaliuos1/Pharmasys/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductRepository defines persistence operations for products and their stock.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	List(ctx context.Context, includeInactive bool) ([]model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	UpdateRatesTx(tx *gorm.DB, id uuid.UUID, purchaseRate, saleRate, minSaleRate decimal.Decimal) error
	AdjustStockTx(tx *gorm.DB, id uuid.UUID, delta int) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
	CountActive(ctx context.Context) (int64, error)
	CountLowStock(ctx context.Context) (int64, error)
	DB() *gorm.DB
}

type productRepository struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) DB() *gorm.DB { return r.db }

func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepository) List(ctx context.Context, includeInactive bool) ([]model.Product, error) {
	var list []model.Product
	q := r.db.WithContext(ctx).Preload("Category").Preload("Supplier").Order("name asc")
	if !includeInactive {
		q = q.Where("active")
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).Preload("Category").Preload("Supplier").First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByIDTx reads inside an open transaction so stock numbers recorded in
// movement rows match what the transaction sees.
func (r *productRepository) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	if err := tx.First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) FindByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).Preload("Category").Where("barcode = ? AND active", barcode).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// UpdateRatesTx refreshes the product's rate columns from a received purchase
// line, inside the purchase transaction.
func (r *productRepository) UpdateRatesTx(tx *gorm.DB, id uuid.UUID, purchaseRate, saleRate, minSaleRate decimal.Decimal) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
		"purchase_rate": purchaseRate,
		"sale_rate":     saleRate,
		"min_sale_rate": minSaleRate,
	}).Error
}

// AdjustStockTx applies a signed delta atomically. A negative delta that
// would drive stock below zero fails the enclosing transaction.
func (r *productRepository) AdjustStockTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND stock_units + ? >= 0", id, delta).
		Update("stock_units", gorm.Expr("stock_units + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("insufficient stock")
	}
	return nil
}

func (r *productRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Update("active", false).Error
}

func (r *productRepository) Reactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Update("active", true).Error
}

func (r *productRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("active").Count(&n).Error
	return n, err
}

func (r *productRepository) CountLowStock(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("active AND stock_units <= reorder_level").Count(&n).Error
	return n, err
}

package repository

import (
	"context"
	"time"

	"github.com/sajjadaliuos1/Pharmasys/internal/dto"
	"github.com/sajjadaliuos1/Pharmasys/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleRepository defines persistence operations for sales.
type SaleRepository interface {
	NextInvoiceNumber(ctx context.Context, tx *gorm.DB) (int64, error)
	Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error)
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error
	CountToday(ctx context.Context, now time.Time) (int64, decimal.Decimal, error)
	DB() *gorm.DB
}

type saleRepository struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) DB() *gorm.DB { return r.db }

func (r *saleRepository) NextInvoiceNumber(_ context.Context, tx *gorm.DB) (int64, error) {
	var n int64
	err := tx.Raw("SELECT nextval('sale_invoice_seq')").Scan(&n).Error
	return n, err
}

func (r *saleRepository) Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error {
	db := tx
	if db == nil {
		db = r.db.WithContext(ctx)
	}
	return db.Create(s).Error
}

func (r *saleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Preload("Customer").
		First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *saleRepository) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Sale{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.From != "" {
		if t, err := time.Parse("2006-01-02", filter.From); err == nil {
			q = q.Where("created_at >= ?", t)
		}
	}
	if filter.To != "" {
		if t, err := time.Parse("2006-01-02", filter.To); err == nil {
			q = q.Where("created_at < ?", t.AddDate(0, 0, 1))
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []model.Sale
	err := q.Preload("Items").Preload("Items.Product").Preload("Customer").
		Order("created_at desc").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&list).Error
	return list, total, err
}

func (r *saleRepository) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.Sale{}).Where("id = ?", id).Update("status", status).Error
}

// CountToday returns today's completed sale count and revenue.
func (r *saleRepository) CountToday(ctx context.Context, now time.Time) (int64, decimal.Decimal, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var result struct {
		N     int64
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("COUNT(*) AS n, COALESCE(SUM(total), 0) AS total").
		Where("status = 'completed' AND created_at >= ?", dayStart).
		Scan(&result).Error
	return result.N, result.Total, err
}

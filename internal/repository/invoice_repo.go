package repository

import (
	"context"
	"time"

	"github.com/sajjadaliuos1/Pharmasys/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceRepository tracks the async PDF/email pipeline per sale.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *model.Invoice) error
	FindBySaleID(ctx context.Context, saleID uuid.UUID) (*model.Invoice, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	Update(ctx context.Context, inv *model.Invoice) error
	ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.Invoice, error)
}

type invoiceRepository struct{ db *gorm.DB }

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, inv *model.Invoice) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *invoiceRepository) FindBySaleID(ctx context.Context, saleID uuid.UUID) (*model.Invoice, error) {
	var inv model.Invoice
	if err := r.db.WithContext(ctx).First(&inv, "sale_id = ?", saleID).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var inv model.Invoice
	if err := r.db.WithContext(ctx).First(&inv, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *model.Invoice) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

// ListPendingRetries returns invoices due for another generation attempt.
func (r *invoiceRepository) ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.Invoice, error) {
	var list []model.Invoice
	err := r.db.WithContext(ctx).
		Where("status = 'pending' AND next_retry_at IS NOT NULL AND next_retry_at <= ?", now).
		Order("next_retry_at asc").
		Limit(limit).
		Find(&list).Error
	return list, err
}

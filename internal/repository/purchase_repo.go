package repository

import (
	"context"
	"time"

	"github.com/sajjadaliuos1/Pharmasys/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PurchaseFilter narrows the purchase list query.
type PurchaseFilter struct {
	SupplierID *uuid.UUID
	From       *time.Time
	To         *time.Time
	Page       int
	Limit      int
}

// PurchaseRepository defines persistence operations for purchases and lines.
type PurchaseRepository interface {
	NextInvoiceNumber(ctx context.Context, tx *gorm.DB) (int64, error)
	Create(ctx context.Context, tx *gorm.DB, p *model.Purchase) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	List(ctx context.Context, filter PurchaseFilter) ([]model.Purchase, int64, error)
	FindItem(ctx context.Context, purchaseID, itemID uuid.UUID) (*model.PurchaseItem, error)
	SaveItemTx(tx *gorm.DB, item *model.PurchaseItem) error
	DeleteItemTx(tx *gorm.DB, itemID uuid.UUID) error
	UpdateTotalTx(tx *gorm.DB, purchaseID uuid.UUID) error
	ListStockedItems(ctx context.Context) ([]model.PurchaseItem, error)
	CountExpiringBatches(ctx context.Context, from, to time.Time) (int64, error)
	DB() *gorm.DB
}

type purchaseRepository struct{ db *gorm.DB }

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) DB() *gorm.DB { return r.db }

// NextInvoiceNumber allocates a gapless-enough sequential invoice number from
// a Postgres sequence, inside the caller's transaction.
func (r *purchaseRepository) NextInvoiceNumber(_ context.Context, tx *gorm.DB) (int64, error) {
	var n int64
	err := tx.Raw("SELECT nextval('purchase_invoice_seq')").Scan(&n).Error
	return n, err
}

func (r *purchaseRepository) Create(ctx context.Context, tx *gorm.DB, p *model.Purchase) error {
	db := tx
	if db == nil {
		db = r.db.WithContext(ctx)
	}
	return db.Create(p).Error
}

func (r *purchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	var p model.Purchase
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Preload("Supplier").
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *purchaseRepository) List(ctx context.Context, filter PurchaseFilter) ([]model.Purchase, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Purchase{})
	if filter.SupplierID != nil {
		q = q.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at < ?", *filter.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []model.Purchase
	err := q.Preload("Items").Preload("Items.Product").Preload("Supplier").
		Order("created_at desc").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&list).Error
	return list, total, err
}

func (r *purchaseRepository) FindItem(ctx context.Context, purchaseID, itemID uuid.UUID) (*model.PurchaseItem, error) {
	var item model.PurchaseItem
	err := r.db.WithContext(ctx).Preload("Product").
		First(&item, "id = ? AND purchase_id = ?", itemID, purchaseID).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *purchaseRepository) SaveItemTx(tx *gorm.DB, item *model.PurchaseItem) error {
	return tx.Save(item).Error
}

func (r *purchaseRepository) DeleteItemTx(tx *gorm.DB, itemID uuid.UUID) error {
	return tx.Delete(&model.PurchaseItem{}, "id = ?", itemID).Error
}

// UpdateTotalTx recomputes the purchase header total from its lines.
func (r *purchaseRepository) UpdateTotalTx(tx *gorm.DB, purchaseID uuid.UUID) error {
	return tx.Exec(`
		UPDATE purchases
		SET total_amount = COALESCE(
			(SELECT SUM(total_amount) FROM purchase_items WHERE purchase_id = ?), 0)
		WHERE id = ?`, purchaseID, purchaseID).Error
}

// ListStockedItems returns every purchase line whose product still has stock,
// for the expiry report.
func (r *purchaseRepository) ListStockedItems(ctx context.Context) ([]model.PurchaseItem, error) {
	var items []model.PurchaseItem
	err := r.db.WithContext(ctx).
		Joins("JOIN products ON products.id = purchase_items.product_id AND products.stock_units > 0 AND products.active").
		Preload("Product").
		Order("purchase_items.expire_date asc").
		Find(&items).Error
	return items, err
}

// CountExpiringBatches counts stocked batches expiring in [from, to).
func (r *purchaseRepository) CountExpiringBatches(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.PurchaseItem{}).
		Joins("JOIN products ON products.id = purchase_items.product_id AND products.stock_units > 0 AND products.active").
		Where("purchase_items.expire_date >= ? AND purchase_items.expire_date < ?", from, to).
		Count(&n).Error
	return n, err
}

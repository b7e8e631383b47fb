package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/sajjadaliuos1/Pharmasys/internal/dto"
	"github.com/sajjadaliuos1/Pharmasys/internal/model"
	"github.com/sajjadaliuos1/Pharmasys/internal/pricing"
	"github.com/sajjadaliuos1/Pharmasys/internal/repository"
	"github.com/sajjadaliuos1/Pharmasys/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubSupplierRepo is an in-memory SupplierRepository for testing.
type stubSupplierRepo struct {
	suppliers map[uuid.UUID]*model.Supplier
}

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{suppliers: make(map[uuid.UUID]*model.Supplier)}
}

func (r *stubSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) List(_ context.Context) ([]model.Supplier, error) { return nil, nil }

func (r *stubSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSupplierRepo) Update(_ context.Context, s *model.Supplier) error {
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) Deactivate(_ context.Context, _ uuid.UUID) error { return nil }
func (r *stubSupplierRepo) CountActive(_ context.Context) (int64, error)    { return 0, nil }

var _ repository.SupplierRepository = (*stubSupplierRepo)(nil)

// stubPurchaseRepo is an in-memory PurchaseRepository for testing.
type stubPurchaseRepo struct {
	purchases  map[uuid.UUID]*model.Purchase
	invoiceSeq int64
}

func newStubPurchaseRepo() *stubPurchaseRepo {
	return &stubPurchaseRepo{purchases: make(map[uuid.UUID]*model.Purchase), invoiceSeq: 1000}
}

func (r *stubPurchaseRepo) NextInvoiceNumber(_ context.Context, _ *gorm.DB) (int64, error) {
	r.invoiceSeq++
	return r.invoiceSeq, nil
}

func (r *stubPurchaseRepo) Create(_ context.Context, _ *gorm.DB, p *model.Purchase) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Items {
		if p.Items[i].ID == uuid.Nil {
			p.Items[i].ID = uuid.New()
		}
		p.Items[i].PurchaseID = p.ID
	}
	r.purchases[p.ID] = p
	return nil
}

func (r *stubPurchaseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Purchase, error) {
	p, ok := r.purchases[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPurchaseRepo) List(_ context.Context, _ repository.PurchaseFilter) ([]model.Purchase, int64, error) {
	var list []model.Purchase
	for _, p := range r.purchases {
		list = append(list, *p)
	}
	return list, int64(len(list)), nil
}

func (r *stubPurchaseRepo) FindItem(_ context.Context, purchaseID, itemID uuid.UUID) (*model.PurchaseItem, error) {
	p, ok := r.purchases[purchaseID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for i := range p.Items {
		if p.Items[i].ID == itemID {
			item := p.Items[i]
			return &item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPurchaseRepo) SaveItemTx(_ *gorm.DB, item *model.PurchaseItem) error {
	p, ok := r.purchases[item.PurchaseID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range p.Items {
		if p.Items[i].ID == item.ID {
			p.Items[i] = *item
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubPurchaseRepo) DeleteItemTx(_ *gorm.DB, itemID uuid.UUID) error {
	for _, p := range r.purchases {
		for i := range p.Items {
			if p.Items[i].ID == itemID {
				p.Items = append(p.Items[:i], p.Items[i+1:]...)
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubPurchaseRepo) UpdateTotalTx(_ *gorm.DB, purchaseID uuid.UUID) error {
	p, ok := r.purchases[purchaseID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	total := decimal.Zero
	for _, item := range p.Items {
		total = total.Add(item.TotalAmount)
	}
	p.TotalAmount = total
	return nil
}

func (r *stubPurchaseRepo) ListStockedItems(_ context.Context) ([]model.PurchaseItem, error) {
	var items []model.PurchaseItem
	for _, p := range r.purchases {
		for _, item := range p.Items {
			if item.Quantity > 0 {
				items = append(items, item)
			}
		}
	}
	return items, nil
}

func (r *stubPurchaseRepo) CountExpiringBatches(_ context.Context, _, _ time.Time) (int64, error) {
	return 0, nil
}

func (r *stubPurchaseRepo) DB() *gorm.DB { return nil }

var _ repository.PurchaseRepository = (*stubPurchaseRepo)(nil)

// ── Helpers ───────────────────────────────────────────────────────────────────

func buildPurchaseSvc() (service.PurchaseService, *stubPurchaseRepo, *stubProductRepo, *stubSupplierRepo, *stubMovementRepo) {
	purchaseRepo := newStubPurchaseRepo()
	productRepo := newStubProductRepo()
	supplierRepo := newStubSupplierRepo()
	movementRepo := &stubMovementRepo{}

	svc := service.NewPurchaseService(purchaseRepo, productRepo, supplierRepo, movementRepo, nil)
	return svc, purchaseRepo, productRepo, supplierRepo, movementRepo
}

func seedSupplier(repo *stubSupplierRepo, name string) *model.Supplier {
	s := &model.Supplier{ID: uuid.New(), Name: name, Active: true}
	repo.suppliers[s.ID] = s
	return s
}

func purchaseLine(productID uuid.UUID, qty int, expireDate string) dto.PurchaseLineRequest {
	return dto.PurchaseLineRequest{
		ProductID:           productID.String(),
		BatchNo:             "B-001",
		Quantity:            qty,
		PurchaseRate:        decimal.NewFromFloat(100),
		PurchaseDiscountPct: decimal.NewFromFloat(10),
		SaleRate:            decimal.NewFromFloat(120),
		SaleDiscountPct:     decimal.NewFromFloat(5),
		MinSaleRate:         decimal.NewFromFloat(115),
		ManufactureDate:     "2026-01-01",
		ExpireDate:          expireDate,
	}
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestCreatePurchase_DerivesAndReceivesStock(t *testing.T) {
	svc, _, productRepo, supplierRepo, movementRepo := buildPurchaseSvc()
	supplier := seedSupplier(supplierRepo, "MediSupply Ltd")
	p := seedProduct(productRepo, "Paracetamol 500mg", "1111111111111", 5, 50, 40)

	resp, err := svc.Create(context.Background(), uuid.New(), dto.CreatePurchaseRequest{
		SupplierID: supplier.ID.String(),
		Items:      []dto.PurchaseLineRequest{purchaseLine(p.ID, 10, "2028-01-01")},
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)

	line := resp.Items[0]
	// 100 − 10% = 90; 120 − 5% = 114; strips of 10
	assert.Equal(t, "90", line.FinalPurchaseRate.String())
	assert.Equal(t, "114", line.FinalSaleRate.String())
	assert.Equal(t, "1140", line.PerStripRate.String())
	assert.Equal(t, "1150", line.MinStripSaleRate.String())
	assert.Equal(t, "900", line.TotalAmount.String())
	assert.Equal(t, "normal", line.ExpiryStatus)
	assert.Equal(t, "900", resp.TotalAmount.String())
	assert.Equal(t, int64(1001), resp.InvoiceNo)

	// stock received and audited
	assert.Equal(t, 15, p.StockUnits)
	require.Len(t, movementRepo.movements, 1)
	assert.Equal(t, "purchase", movementRepo.movements[0].Type)
	assert.Equal(t, 10, movementRepo.movements[0].Quantity)
	assert.Equal(t, 5, movementRepo.movements[0].StockBefore)
	assert.Equal(t, 15, movementRepo.movements[0].StockAfter)

	// product rates refreshed from the received batch
	assert.Equal(t, "90", p.PurchaseRate.String())
	assert.Equal(t, "114", p.SaleRate.String())
	assert.Equal(t, "115", p.MinSaleRate.String())
}

func TestCreatePurchase_RejectsMinRateBelowFinal(t *testing.T) {
	svc, _, productRepo, supplierRepo, movementRepo := buildPurchaseSvc()
	supplier := seedSupplier(supplierRepo, "MediSupply Ltd")
	p := seedProduct(productRepo, "Amoxicillin 250mg", "2222222222222", 5, 50, 40)

	line := purchaseLine(p.ID, 10, "2028-01-01")
	line.MinSaleRate = decimal.NewFromFloat(100) // below the discounted sale rate of 114

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreatePurchaseRequest{
		SupplierID: supplier.ID.String(),
		Items:      []dto.PurchaseLineRequest{line},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, pricing.ErrMinRateBelowFinal)
	assert.ErrorContains(t, err, "line 1")

	// a single rejected line fails the whole request
	assert.Equal(t, 5, p.StockUnits)
	assert.Empty(t, movementRepo.movements)
}

func TestCreatePurchase_RejectsInvalidDateRange(t *testing.T) {
	svc, _, productRepo, supplierRepo, _ := buildPurchaseSvc()
	supplier := seedSupplier(supplierRepo, "MediSupply Ltd")
	p := seedProduct(productRepo, "Ibuprofen 400mg", "3333333333333", 0, 25, 20)

	line := purchaseLine(p.ID, 10, "2025-01-01") // expires before manufacture
	_, err := svc.Create(context.Background(), uuid.New(), dto.CreatePurchaseRequest{
		SupplierID: supplier.ID.String(),
		Items:      []dto.PurchaseLineRequest{line},
	})
	assert.ErrorIs(t, err, pricing.ErrInvalidDateRange)
}

func TestCreatePurchase_UnknownSupplier(t *testing.T) {
	svc, _, productRepo, _, _ := buildPurchaseSvc()
	p := seedProduct(productRepo, "Cetirizine 10mg", "4444444444444", 0, 10, 5)

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreatePurchaseRequest{
		SupplierID: uuid.New().String(),
		Items:      []dto.PurchaseLineRequest{purchaseLine(p.ID, 1, "2028-01-01")},
	})
	assert.ErrorContains(t, err, "supplier not found")
}

func TestUpdatePurchaseItem_AppliesStockDelta(t *testing.T) {
	svc, _, productRepo, supplierRepo, movementRepo := buildPurchaseSvc()
	supplier := seedSupplier(supplierRepo, "MediSupply Ltd")
	p := seedProduct(productRepo, "Omeprazole 20mg", "5555555555555", 0, 80, 70)

	resp, err := svc.Create(context.Background(), uuid.New(), dto.CreatePurchaseRequest{
		SupplierID: supplier.ID.String(),
		Items:      []dto.PurchaseLineRequest{purchaseLine(p.ID, 10, "2028-01-01")},
	})
	require.NoError(t, err)
	assert.Equal(t, 10, p.StockUnits)

	purchaseID := uuid.MustParse(resp.ID)
	itemID := uuid.MustParse(resp.Items[0].ID)

	edited := purchaseLine(p.ID, 6, "2028-01-01")
	updated, err := svc.UpdateItem(context.Background(), purchaseID, itemID, edited)
	require.NoError(t, err)

	// quantity 10 → 6: stock drops by 4, total rebuilt from the lines
	assert.Equal(t, 6, p.StockUnits)
	assert.Equal(t, "540", updated.TotalAmount.String())

	require.Len(t, movementRepo.movements, 2)
	adj := movementRepo.movements[1]
	assert.Equal(t, "adjustment", adj.Type)
	assert.Equal(t, -4, adj.Quantity)
}

func TestUpdatePurchaseItem_ProductCannotChange(t *testing.T) {
	svc, _, productRepo, supplierRepo, _ := buildPurchaseSvc()
	supplier := seedSupplier(supplierRepo, "MediSupply Ltd")
	p := seedProduct(productRepo, "Aspirin 100mg", "6666666666666", 0, 15, 12)
	other := seedProduct(productRepo, "Vitamin C 1g", "7777777777777", 0, 12, 10)

	resp, err := svc.Create(context.Background(), uuid.New(), dto.CreatePurchaseRequest{
		SupplierID: supplier.ID.String(),
		Items:      []dto.PurchaseLineRequest{purchaseLine(p.ID, 5, "2028-01-01")},
	})
	require.NoError(t, err)

	edited := purchaseLine(other.ID, 5, "2028-01-01")
	_, err = svc.UpdateItem(context.Background(),
		uuid.MustParse(resp.ID), uuid.MustParse(resp.Items[0].ID), edited)
	assert.ErrorContains(t, err, "product cannot change")
}

func TestDeletePurchaseItem_TakesStockBack(t *testing.T) {
	svc, _, productRepo, supplierRepo, movementRepo := buildPurchaseSvc()
	supplier := seedSupplier(supplierRepo, "MediSupply Ltd")
	p := seedProduct(productRepo, "Insulin Pen", "8888888888888", 0, 500, 450)

	resp, err := svc.Create(context.Background(), uuid.New(), dto.CreatePurchaseRequest{
		SupplierID: supplier.ID.String(),
		Items:      []dto.PurchaseLineRequest{purchaseLine(p.ID, 8, "2028-01-01")},
	})
	require.NoError(t, err)
	assert.Equal(t, 8, p.StockUnits)

	deleted, err := svc.DeleteItem(context.Background(),
		uuid.MustParse(resp.ID), uuid.MustParse(resp.Items[0].ID))
	require.NoError(t, err)

	assert.Equal(t, 0, p.StockUnits)
	assert.Empty(t, deleted.Items)
	assert.Equal(t, "0", deleted.TotalAmount.String())

	adj := movementRepo.movements[len(movementRepo.movements)-1]
	assert.Equal(t, "adjustment", adj.Type)
	assert.Equal(t, -8, adj.Quantity)
}

func TestExpiryReport_BucketsBatches(t *testing.T) {
	svc, _, productRepo, supplierRepo, _ := buildPurchaseSvc()
	supplier := seedSupplier(supplierRepo, "MediSupply Ltd")
	p := seedProduct(productRepo, "Cough Syrup", "9999999999999", 0, 30, 25)

	today := time.Now()
	expired := today.AddDate(0, 0, -1).Format("2006-01-02")
	soon := today.AddDate(0, 0, 10).Format("2006-01-02")
	normal := today.AddDate(0, 0, 60).Format("2006-01-02")

	mk := func(batch, expire string) dto.PurchaseLineRequest {
		line := purchaseLine(p.ID, 5, expire)
		line.BatchNo = batch
		line.ManufactureDate = "2024-01-01"
		return line
	}

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreatePurchaseRequest{
		SupplierID: supplier.ID.String(),
		Items: []dto.PurchaseLineRequest{
			mk("B-EXP", expired),
			mk("B-SOON", soon),
			mk("B-OK", normal),
		},
	})
	require.NoError(t, err)

	report, err := svc.ExpiryReport(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Expired, 1)
	require.Len(t, report.ExpiringSoon, 1)
	require.Len(t, report.Normal, 1)
	assert.Equal(t, "B-EXP", report.Expired[0].BatchNo)
	assert.Equal(t, "B-SOON", report.ExpiringSoon[0].BatchNo)
	assert.Equal(t, "B-OK", report.Normal[0].BatchNo)
	assert.Negative(t, report.Expired[0].DaysToExpire)
}

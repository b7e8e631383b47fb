package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sajjadaliuos1/Pharmasys/internal/dto"
	"github.com/sajjadaliuos1/Pharmasys/internal/model"
	"github.com/sajjadaliuos1/Pharmasys/internal/repository"
	"github.com/sajjadaliuos1/Pharmasys/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubProductRepo is an in-memory ProductRepository for testing.
type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) List(_ context.Context, _ bool) ([]model.Product, error) {
	var list []model.Product
	for _, p := range r.products {
		list = append(list, *p)
	}
	return list, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	// Return a snapshot like the real repository, which scans each call into
	// a fresh struct; sharing the stored pointer would let later stock
	// adjustments mutate the caller's "before" copy.
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) FindByBarcode(_ context.Context, barcode string) (*model.Product, error) {
	for _, p := range r.products {
		if p.Barcode == barcode {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) UpdateRatesTx(_ *gorm.DB, id uuid.UUID, purchaseRate, saleRate, minSaleRate decimal.Decimal) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.PurchaseRate = purchaseRate
	p.SaleRate = saleRate
	p.MinSaleRate = minSaleRate
	return nil
}

func (r *stubProductRepo) AdjustStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if p.StockUnits+delta < 0 {
		return errors.New("insufficient stock")
	}
	p.StockUnits += delta
	return nil
}

func (r *stubProductRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Active = false
	return nil
}

func (r *stubProductRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Active = true
	return nil
}

func (r *stubProductRepo) CountActive(_ context.Context) (int64, error)   { return 0, nil }
func (r *stubProductRepo) CountLowStock(_ context.Context) (int64, error) { return 0, nil }
func (r *stubProductRepo) DB() *gorm.DB                                   { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// stubSaleRepo is an in-memory SaleRepository for testing.
type stubSaleRepo struct {
	sales      map[uuid.UUID]*model.Sale
	invoiceSeq int64
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) NextInvoiceNumber(_ context.Context, _ *gorm.DB) (int64, error) {
	r.invoiceSeq++
	return r.invoiceSeq, nil
}

func (r *stubSaleRepo) Create(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	for i := range s.Items {
		if s.Items[i].ID == uuid.Nil {
			s.Items[i].ID = uuid.New()
		}
		s.Items[i].SaleID = s.ID
	}
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) List(_ context.Context, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	var list []model.Sale
	for _, s := range r.sales {
		list = append(list, *s)
	}
	return list, int64(len(list)), nil
}

func (r *stubSaleRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	s, ok := r.sales[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Status = status
	return nil
}

func (r *stubSaleRepo) CountToday(_ context.Context, _ time.Time) (int64, decimal.Decimal, error) {
	return 0, decimal.Zero, nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// stubCustomerRepo is an in-memory CustomerRepository for testing.
type stubCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) List(_ context.Context) ([]model.Customer, error) { return nil, nil }

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) Deactivate(_ context.Context, _ uuid.UUID) error { return nil }
func (r *stubCustomerRepo) CountActive(_ context.Context) (int64, error)    { return 0, nil }

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

// stubInvoiceRepo is an in-memory InvoiceRepository for testing.
type stubInvoiceRepo struct {
	invoices map[uuid.UUID]*model.Invoice // keyed by sale ID
}

func newStubInvoiceRepo() *stubInvoiceRepo {
	return &stubInvoiceRepo{invoices: make(map[uuid.UUID]*model.Invoice)}
}

func (r *stubInvoiceRepo) Create(_ context.Context, inv *model.Invoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	r.invoices[inv.SaleID] = inv
	return nil
}

func (r *stubInvoiceRepo) FindBySaleID(_ context.Context, saleID uuid.UUID) (*model.Invoice, error) {
	inv, ok := r.invoices[saleID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return inv, nil
}

func (r *stubInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Invoice, error) {
	for _, inv := range r.invoices {
		if inv.ID == id {
			return inv, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubInvoiceRepo) Update(_ context.Context, inv *model.Invoice) error {
	r.invoices[inv.SaleID] = inv
	return nil
}

func (r *stubInvoiceRepo) ListPendingRetries(_ context.Context, _ time.Time, _ int) ([]model.Invoice, error) {
	return nil, nil
}

var _ repository.InvoiceRepository = (*stubInvoiceRepo)(nil)

// stubMovementRepo captures stock movements for assertion.
type stubMovementRepo struct {
	movements []model.StockMovement
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) ListByProduct(_ context.Context, _ uuid.UUID, _ int) ([]model.StockMovement, error) {
	return r.movements, nil
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

// stubDispatcher records invoice enqueues.
type stubDispatcher struct {
	enqueued []uuid.UUID
}

func (d *stubDispatcher) EnqueueInvoice(_ context.Context, saleID uuid.UUID, _ *string) error {
	d.enqueued = append(d.enqueued, saleID)
	return nil
}

var _ service.InvoiceDispatcher = (*stubDispatcher)(nil)

// ── Helpers ───────────────────────────────────────────────────────────────────

func seedProduct(repo *stubProductRepo, name, barcode string, stock int, saleRate, minRate float64) *model.Product {
	p := &model.Product{
		ID:          uuid.New(),
		Barcode:     barcode,
		Name:        name,
		SaleRate:    decimal.NewFromFloat(saleRate),
		MinSaleRate: decimal.NewFromFloat(minRate),
		StripSize:   10,
		StockUnits:  stock,
		Active:      true,
	}
	repo.products[p.ID] = p
	return p
}

func buildSaleSvc() (service.SaleService, *stubSaleRepo, *stubProductRepo, *stubInvoiceRepo, *stubMovementRepo, *stubDispatcher) {
	productRepo := newStubProductRepo()
	saleRepo := newStubSaleRepo()
	customerRepo := newStubCustomerRepo()
	invoiceRepo := newStubInvoiceRepo()
	movementRepo := &stubMovementRepo{}
	dispatcher := &stubDispatcher{}

	svc := service.NewSaleService(saleRepo, productRepo, customerRepo, invoiceRepo, movementRepo, dispatcher)
	return svc, saleRepo, productRepo, invoiceRepo, movementRepo, dispatcher
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestCreateSale_HappyPath(t *testing.T) {
	svc, _, productRepo, invoiceRepo, movementRepo, dispatcher := buildSaleSvc()
	p := seedProduct(productRepo, "Paracetamol 500mg", "1010101010101", 50, 50, 40)

	resp, err := svc.Create(context.Background(), uuid.New(), dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: p.ID.String(), Quantity: 2, Discount: decimal.NewFromFloat(10)},
		},
		Paid: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)

	// subtotal = 50×2 = 100, total = 100−10 = 90, change = 10
	assert.Equal(t, "100", resp.Subtotal.String())
	assert.Equal(t, "90", resp.Total.String())
	assert.Equal(t, "10", resp.Change.String())
	assert.Equal(t, "cash", resp.PaymentMethod)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, int64(1), resp.InvoiceNo)

	// stock decremented, with an audit movement
	assert.Equal(t, 48, p.StockUnits)
	require.Len(t, movementRepo.movements, 1)
	assert.Equal(t, "sale", movementRepo.movements[0].Type)
	assert.Equal(t, -2, movementRepo.movements[0].Quantity)
	assert.Equal(t, 50, movementRepo.movements[0].StockBefore)
	assert.Equal(t, 48, movementRepo.movements[0].StockAfter)

	// invoice row created and handed to the async pipeline
	saleID := uuid.MustParse(resp.ID)
	inv, err := invoiceRepo.FindBySaleID(context.Background(), saleID)
	require.NoError(t, err)
	assert.Equal(t, "pending", inv.Status)
	assert.Equal(t, []uuid.UUID{saleID}, dispatcher.enqueued)
}

func TestCreateSale_BelowMinRate(t *testing.T) {
	svc, _, productRepo, _, movementRepo, _ := buildSaleSvc()
	// effective unit after discount: (50×2 − 10)/2 = 45 < floor 48
	p := seedProduct(productRepo, "Amoxicillin 250mg", "2020202020202", 30, 50, 48)

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: p.ID.String(), Quantity: 2, Discount: decimal.NewFromFloat(10)},
		},
		Paid: decimal.NewFromFloat(100),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrBelowMinRate)

	// nothing committed
	assert.Equal(t, 30, p.StockUnits)
	assert.Empty(t, movementRepo.movements)
}

func TestCreateSale_InsufficientPayment(t *testing.T) {
	svc, _, productRepo, _, _, _ := buildSaleSvc()
	p := seedProduct(productRepo, "Ibuprofen 400mg", "3030303030303", 20, 25, 20)

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 4}},
		Paid:  decimal.NewFromFloat(99), // total is 100
	})
	assert.ErrorIs(t, err, service.ErrInsufficientPayment)
}

func TestCreateSale_DiscountExceedsLine(t *testing.T) {
	svc, _, productRepo, _, _, _ := buildSaleSvc()
	p := seedProduct(productRepo, "Cetirizine 10mg", "4040404040404", 20, 10, 5)

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: p.ID.String(), Quantity: 1, Discount: decimal.NewFromFloat(15)},
		},
		Paid: decimal.NewFromFloat(100),
	})
	assert.ErrorContains(t, err, "discount exceeds line amount")
}

func TestCreateSale_InactiveProduct(t *testing.T) {
	svc, _, productRepo, _, _, _ := buildSaleSvc()
	p := seedProduct(productRepo, "Withdrawn Syrup", "5050505050505", 20, 30, 25)
	p.Active = false

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
		Paid:  decimal.NewFromFloat(30),
	})
	assert.ErrorContains(t, err, "product is inactive")
}

func TestCreateSale_InsufficientStock(t *testing.T) {
	svc, _, productRepo, _, _, _ := buildSaleSvc()
	p := seedProduct(productRepo, "Insulin Pen", "6060606060606", 2, 500, 450)

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 5}},
		Paid:  decimal.NewFromFloat(3000),
	})
	assert.ErrorContains(t, err, "insufficient stock")
}

func TestVoidSale_RestoresStock(t *testing.T) {
	svc, _, productRepo, _, movementRepo, _ := buildSaleSvc()
	p := seedProduct(productRepo, "Omeprazole 20mg", "7070707070707", 10, 80, 70)

	resp, err := svc.Create(context.Background(), uuid.New(), dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 3}},
		Paid:  decimal.NewFromFloat(240),
	})
	require.NoError(t, err)
	assert.Equal(t, 7, p.StockUnits)

	voided, err := svc.Void(context.Background(), uuid.MustParse(resp.ID), dto.VoidSaleRequest{
		Reason: "customer returned the sale",
	})
	require.NoError(t, err)
	assert.Equal(t, "voided", voided.Status)
	assert.Equal(t, 10, p.StockUnits)

	// one "sale" movement plus one "void_restore"
	require.Len(t, movementRepo.movements, 2)
	restore := movementRepo.movements[1]
	assert.Equal(t, "void_restore", restore.Type)
	assert.Equal(t, 3, restore.Quantity)
	assert.Equal(t, "customer returned the sale", restore.Reason)
}

func TestVoidSale_OnlyCompleted(t *testing.T) {
	svc, _, productRepo, _, _, _ := buildSaleSvc()
	p := seedProduct(productRepo, "Aspirin 100mg", "8080808080808", 10, 15, 12)

	resp, err := svc.Create(context.Background(), uuid.New(), dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
		Paid:  decimal.NewFromFloat(15),
	})
	require.NoError(t, err)

	id := uuid.MustParse(resp.ID)
	_, err = svc.Void(context.Background(), id, dto.VoidSaleRequest{Reason: "first void"})
	require.NoError(t, err)

	_, err = svc.Void(context.Background(), id, dto.VoidSaleRequest{Reason: "second void"})
	assert.ErrorContains(t, err, "only completed sales can be voided")
}

func TestGetInvoice_PendingAfterSale(t *testing.T) {
	svc, _, productRepo, _, _, _ := buildSaleSvc()
	p := seedProduct(productRepo, "Vitamin C 1g", "9090909090909", 40, 12, 10)

	resp, err := svc.Create(context.Background(), uuid.New(), dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 2}},
		Paid:  decimal.NewFromFloat(24),
	})
	require.NoError(t, err)

	inv, err := svc.GetInvoice(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, "pending", inv.Status)
	assert.Equal(t, 0, inv.RetryCount)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sajjadaliuos1/Pharmasys/internal/dto"
	"github.com/sajjadaliuos1/Pharmasys/internal/model"
	"github.com/sajjadaliuos1/Pharmasys/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale rejection outcomes, surfaced to the client as validation failures.
var (
	ErrBelowMinRate        = errors.New("effective unit price below minimum sale rate")
	ErrInsufficientPayment = errors.New("paid amount is less than the sale total")
)

// InvoiceDispatcher hands a finished sale to the async invoice pipeline.
type InvoiceDispatcher interface {
	EnqueueInvoice(ctx context.Context, saleID uuid.UUID, email *string) error
}

type SaleService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
	Void(ctx context.Context, id uuid.UUID, req dto.VoidSaleRequest) (*dto.SaleResponse, error)
	GetInvoice(ctx context.Context, saleID uuid.UUID) (*dto.InvoiceResponse, error)
}

type saleService struct {
	repo         repository.SaleRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	invoiceRepo  repository.InvoiceRepository
	movementRepo repository.StockMovementRepository
	dispatcher   InvoiceDispatcher
}

func NewSaleService(
	repo repository.SaleRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
	movementRepo repository.StockMovementRepository,
	dispatcher InvoiceDispatcher,
) SaleService {
	return &saleService{
		repo:         repo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
		movementRepo: movementRepo,
		dispatcher:   dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// Create completes a counter sale: prices every line at the product's current
// sale rate, enforces the per-unit floor price, decrements stock atomically
// and hands the sale to the async invoice pipeline after commit.
func (s *saleService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	var customerID *uuid.UUID
	if req.CustomerID != nil {
		id, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, errors.New("invalid customer id")
		}
		if _, err := s.customerRepo.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.New("customer not found")
			}
			return nil, err
		}
		customerID = &id
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cash"
	}

	var saleID uuid.UUID
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		invoiceNo, err := s.repo.NextInvoiceNumber(ctx, tx)
		if err != nil {
			return err
		}

		sale := &model.Sale{
			InvoiceNo:     invoiceNo,
			CustomerID:    customerID,
			UserID:        userID,
			PaymentMethod: paymentMethod,
			Status:        "completed",
		}

		subtotal := decimal.Zero
		discountTotal := decimal.Zero
		for i, line := range req.Items {
			item, err := s.buildSaleItem(tx, line)
			if err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
			sale.Items = append(sale.Items, *item)
			subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
			discountTotal = discountTotal.Add(item.Discount)
		}

		sale.Subtotal = subtotal.Round(2)
		sale.DiscountTotal = discountTotal.Round(2)
		sale.Total = sale.Subtotal.Sub(sale.DiscountTotal)
		sale.Paid = req.Paid
		if req.Paid.LessThan(sale.Total) {
			return ErrInsufficientPayment
		}

		if err := s.repo.Create(ctx, tx, sale); err != nil {
			return err
		}
		saleID = sale.ID

		for i := range sale.Items {
			item := &sale.Items[i]
			if err := s.deductStock(tx, item, sale.ID); err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// The invoice pipeline runs outside the sale transaction: a PDF or mail
	// hiccup must never undo a completed sale.
	inv := &model.Invoice{SaleID: saleID, Status: "pending"}
	if err := s.invoiceRepo.Create(ctx, inv); err == nil && s.dispatcher != nil {
		_ = s.dispatcher.EnqueueInvoice(ctx, saleID, req.CustomerEmail)
	}

	return s.GetByID(ctx, saleID)
}

// buildSaleItem prices one line at the product's current sale rate and
// enforces the floor: the effective per-unit price after line discount may not
// drop below the product's minimum sale rate.
func (s *saleService) buildSaleItem(tx *gorm.DB, line dto.SaleItemRequest) (*model.SaleItem, error) {
	productID, err := uuid.Parse(line.ProductID)
	if err != nil {
		return nil, errors.New("invalid product id")
	}
	product, err := s.productRepo.FindByIDTx(tx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, err
	}
	if !product.Active {
		return nil, errors.New("product is inactive")
	}

	qty := decimal.NewFromInt(int64(line.Quantity))
	gross := product.SaleRate.Mul(qty)
	if line.Discount.GreaterThan(gross) {
		return nil, errors.New("discount exceeds line amount")
	}
	lineSubtotal := gross.Sub(line.Discount).Round(2)
	effectiveUnit := lineSubtotal.Div(qty).Round(2)
	if effectiveUnit.LessThan(product.MinSaleRate) {
		return nil, ErrBelowMinRate
	}

	return &model.SaleItem{
		ProductID: productID,
		Quantity:  line.Quantity,
		UnitPrice: product.SaleRate,
		Discount:  line.Discount.Round(2),
		Subtotal:  lineSubtotal,
	}, nil
}

func (s *saleService) deductStock(tx *gorm.DB, item *model.SaleItem, saleID uuid.UUID) error {
	before, err := s.productRepo.FindByIDTx(tx, item.ProductID)
	if err != nil {
		return err
	}
	if err := s.productRepo.AdjustStockTx(tx, item.ProductID, -item.Quantity); err != nil {
		return err
	}
	ref := saleID
	return s.movementRepo.CreateTx(tx, &model.StockMovement{
		ProductID:   item.ProductID,
		Type:        "sale",
		Quantity:    -item.Quantity,
		StockBefore: before.StockUnits,
		StockAfter:  before.StockUnits - item.Quantity,
		ReferenceID: &ref,
	})
}

func (s *saleService) GetByID(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("sale not found")
		}
		return nil, err
	}
	resp := mapSale(*sale)
	return &resp, nil
}

func (s *saleService) List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SaleResponse, 0, len(list))
	for _, sale := range list {
		data = append(data, mapSale(sale))
	}
	return &dto.SaleListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// Void cancels a completed sale, restoring every line's quantity to stock.
func (s *saleService) Void(ctx context.Context, id uuid.UUID, req dto.VoidSaleRequest) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("sale not found")
		}
		return nil, err
	}
	if sale.Status != "completed" {
		return nil, errors.New("only completed sales can be voided")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, item := range sale.Items {
			before, err := s.productRepo.FindByIDTx(tx, item.ProductID)
			if err != nil {
				return err
			}
			if err := s.productRepo.AdjustStockTx(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
			ref := sale.ID
			mov := &model.StockMovement{
				ProductID:   item.ProductID,
				Type:        "void_restore",
				Quantity:    item.Quantity,
				StockBefore: before.StockUnits,
				StockAfter:  before.StockUnits + item.Quantity,
				Reason:      req.Reason,
				ReferenceID: &ref,
			}
			if err := s.movementRepo.CreateTx(tx, mov); err != nil {
				return err
			}
		}
		return s.repo.UpdateStatusTx(tx, id, "voided")
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.GetByID(ctx, id)
}

func (s *saleService) GetInvoice(ctx context.Context, saleID uuid.UUID) (*dto.InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindBySaleID(ctx, saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invoice not found")
		}
		return nil, err
	}
	return &dto.InvoiceResponse{
		ID:         inv.ID.String(),
		SaleID:     inv.SaleID.String(),
		Status:     inv.Status,
		PDFPath:    inv.PDFPath,
		RetryCount: inv.RetryCount,
		LastError:  inv.LastError,
	}, nil
}

func mapSale(s model.Sale) dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, item := range s.Items {
		line := dto.SaleItemResponse{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
			Subtotal:  item.Subtotal,
		}
		if item.Product != nil {
			line.Product = item.Product.Name
		}
		items = append(items, line)
	}

	resp := dto.SaleResponse{
		ID:            s.ID.String(),
		InvoiceNo:     s.InvoiceNo,
		Items:         items,
		Subtotal:      s.Subtotal,
		DiscountTotal: s.DiscountTotal,
		Total:         s.Total,
		Paid:          s.Paid,
		Change:        s.Paid.Sub(s.Total),
		PaymentMethod: s.PaymentMethod,
		Status:        s.Status,
		CreatedAt:     s.CreatedAt.Format(time.RFC3339),
	}
	if s.CustomerID != nil {
		id := s.CustomerID.String()
		resp.CustomerID = &id
	}
	if s.Customer != nil {
		resp.Customer = s.Customer.Name
	}
	return resp
}

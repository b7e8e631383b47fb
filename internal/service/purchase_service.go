package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sajjadaliuos1/Pharmasys/internal/dto"
	"github.com/sajjadaliuos1/Pharmasys/internal/model"
	"github.com/sajjadaliuos1/Pharmasys/internal/pricing"
	"github.com/sajjadaliuos1/Pharmasys/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type PurchaseService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error)
	List(ctx context.Context, filter repository.PurchaseFilter) (*dto.PurchaseListResponse, error)
	UpdateItem(ctx context.Context, purchaseID, itemID uuid.UUID, req dto.PurchaseLineRequest) (*dto.PurchaseResponse, error)
	DeleteItem(ctx context.Context, purchaseID, itemID uuid.UUID) (*dto.PurchaseResponse, error)
	ExpiryReport(ctx context.Context) (*dto.ExpiryReportResponse, error)
}

type purchaseService struct {
	repo         repository.PurchaseRepository
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	movementRepo repository.StockMovementRepository
	rdb          *redis.Client
}

func NewPurchaseService(
	repo repository.PurchaseRepository,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	movementRepo repository.StockMovementRepository,
	rdb *redis.Client,
) PurchaseService {
	return &purchaseService{
		repo:         repo,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		movementRepo: movementRepo,
		rdb:          rdb,
	}
}

// Create receives a supplier delivery. Every line runs through the pricing
// derivation; a single rejected line fails the whole request and nothing is
// persisted. On success stock goes up, a movement row is recorded per line,
// and each product's rate columns are refreshed from its latest batch.
func (s *purchaseService) Create(ctx context.Context, userID uuid.UUID, req dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, errors.New("invalid supplier id")
	}
	if _, err := s.supplierRepo.FindByID(ctx, supplierID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("supplier not found")
		}
		return nil, err
	}

	today := time.Now()
	var purchaseID uuid.UUID
	var barcodes []string

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		invoiceNo, err := s.repo.NextInvoiceNumber(ctx, tx)
		if err != nil {
			return err
		}

		purchase := &model.Purchase{
			InvoiceNo:  invoiceNo,
			SupplierID: supplierID,
			UserID:     userID,
			Note:       req.Note,
		}

		total := decimal.Zero
		for i, line := range req.Items {
			item, product, err := s.buildItem(tx, line, today)
			if err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
			purchase.Items = append(purchase.Items, *item)
			total = total.Add(item.TotalAmount)
			barcodes = append(barcodes, product.Barcode)
		}
		purchase.TotalAmount = total

		if err := s.repo.Create(ctx, tx, purchase); err != nil {
			return err
		}
		purchaseID = purchase.ID

		// Stock, movement trail and product rates per line, inside the same
		// transaction as the purchase rows.
		for i := range purchase.Items {
			item := &purchase.Items[i]
			if err := s.receiveStock(tx, item, purchase.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	for _, bc := range barcodes {
		s.invalidatePrice(ctx, bc)
	}
	return s.GetByID(ctx, purchaseID)
}

// buildItem derives one purchase line. Pricing rejections come back unwrapped
// so callers can match them with errors.Is.
func (s *purchaseService) buildItem(tx *gorm.DB, line dto.PurchaseLineRequest, today time.Time) (*model.PurchaseItem, *model.Product, error) {
	productID, err := uuid.Parse(line.ProductID)
	if err != nil {
		return nil, nil, errors.New("invalid product id")
	}
	product, err := s.productRepo.FindByIDTx(tx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errors.New("product not found")
		}
		return nil, nil, err
	}

	manufacture, err := time.Parse(dateLayout, line.ManufactureDate)
	if err != nil {
		return nil, nil, errors.New("invalid manufacture date")
	}
	expire, err := time.Parse(dateLayout, line.ExpireDate)
	if err != nil {
		return nil, nil, errors.New("invalid expire date")
	}

	in := pricing.LineInput{
		ProductName:         product.Name,
		BatchNo:             line.BatchNo,
		Barcode:             product.Barcode,
		Quantity:            line.Quantity,
		PurchaseRate:        line.PurchaseRate,
		PurchaseDiscountPct: line.PurchaseDiscountPct,
		SaleRate:            line.SaleRate,
		SaleDiscountPct:     line.SaleDiscountPct,
		MinSaleRate:         line.MinSaleRate,
		StripSize:           line.StripSize,
		ManufactureDate:     manufacture,
		ExpireDate:          expire,
	}
	derived, err := pricing.Derive(in, today)
	if err != nil {
		return nil, nil, err
	}

	stripSize := line.StripSize
	if stripSize == 0 {
		stripSize = pricing.DefaultStripSize
	}

	return &model.PurchaseItem{
		ProductID:           productID,
		BatchNo:             line.BatchNo,
		Quantity:            line.Quantity,
		PurchaseRate:        line.PurchaseRate,
		PurchaseDiscountPct: line.PurchaseDiscountPct,
		SaleRate:            line.SaleRate,
		SaleDiscountPct:     line.SaleDiscountPct,
		MinSaleRate:         line.MinSaleRate,
		StripSize:           stripSize,
		FinalPurchaseRate:   derived.FinalPurchaseRate,
		FinalSaleRate:       derived.FinalSaleRate,
		PerStripRate:        derived.PerStripRate,
		MinStripSaleRate:    derived.MinStripSaleRate,
		TotalAmount:         derived.TotalAmount,
		ExpiryStatus:        string(derived.ExpiryStatus),
		ManufactureDate:     manufacture,
		ExpireDate:          expire,
	}, product, nil
}

// receiveStock increments product stock for a received line, records the
// movement, and refreshes the product's rates from the derived values.
func (s *purchaseService) receiveStock(tx *gorm.DB, item *model.PurchaseItem, purchaseID uuid.UUID) error {
	before, err := s.productRepo.FindByIDTx(tx, item.ProductID)
	if err != nil {
		return err
	}
	if err := s.productRepo.AdjustStockTx(tx, item.ProductID, item.Quantity); err != nil {
		return err
	}
	ref := purchaseID
	mov := &model.StockMovement{
		ProductID:   item.ProductID,
		Type:        "purchase",
		Quantity:    item.Quantity,
		StockBefore: before.StockUnits,
		StockAfter:  before.StockUnits + item.Quantity,
		Reason:      fmt.Sprintf("purchase batch %s", item.BatchNo),
		ReferenceID: &ref,
	}
	if err := s.movementRepo.CreateTx(tx, mov); err != nil {
		return err
	}
	return s.productRepo.UpdateRatesTx(tx, item.ProductID,
		item.FinalPurchaseRate, item.FinalSaleRate, item.MinSaleRate)
}

func (s *purchaseService) GetByID(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("purchase not found")
		}
		return nil, err
	}
	resp := mapPurchase(*p)
	return &resp, nil
}

func (s *purchaseService) List(ctx context.Context, filter repository.PurchaseFilter) (*dto.PurchaseListResponse, error) {
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
	data := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		data = append(data, mapPurchase(p))
	}
	return &dto.PurchaseListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// UpdateItem re-enters one line. The line keeps its identity; the derived
// fields are recomputed, the stock delta between old and new quantity is
// applied, and the header total is rebuilt from the lines.
func (s *purchaseService) UpdateItem(ctx context.Context, purchaseID, itemID uuid.UUID, req dto.PurchaseLineRequest) (*dto.PurchaseResponse, error) {
	existing, err := s.repo.FindItem(ctx, purchaseID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("purchase line not found")
		}
		return nil, err
	}

	today := time.Now()
	var barcode string

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		item, product, err := s.buildItem(tx, req, today)
		if err != nil {
			return err
		}
		if item.ProductID != existing.ProductID {
			return errors.New("purchase line product cannot change")
		}
		barcode = product.Barcode

		item.ID = existing.ID
		item.PurchaseID = existing.PurchaseID
		item.CreatedAt = existing.CreatedAt
		if err := s.repo.SaveItemTx(tx, item); err != nil {
			return err
		}

		if delta := item.Quantity - existing.Quantity; delta != 0 {
			before, err := s.productRepo.FindByIDTx(tx, item.ProductID)
			if err != nil {
				return err
			}
			if err := s.productRepo.AdjustStockTx(tx, item.ProductID, delta); err != nil {
				return err
			}
			ref := purchaseID
			mov := &model.StockMovement{
				ProductID:   item.ProductID,
				Type:        "adjustment",
				Quantity:    delta,
				StockBefore: before.StockUnits,
				StockAfter:  before.StockUnits + delta,
				Reason:      fmt.Sprintf("purchase line edit, batch %s", item.BatchNo),
				ReferenceID: &ref,
			}
			if err := s.movementRepo.CreateTx(tx, mov); err != nil {
				return err
			}
		}

		if err := s.productRepo.UpdateRatesTx(tx, item.ProductID,
			item.FinalPurchaseRate, item.FinalSaleRate, item.MinSaleRate); err != nil {
			return err
		}
		return s.repo.UpdateTotalTx(tx, purchaseID)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.invalidatePrice(ctx, barcode)
	return s.GetByID(ctx, purchaseID)
}

// DeleteItem removes a line and takes its quantity back out of stock.
func (s *purchaseService) DeleteItem(ctx context.Context, purchaseID, itemID uuid.UUID) (*dto.PurchaseResponse, error) {
	existing, err := s.repo.FindItem(ctx, purchaseID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("purchase line not found")
		}
		return nil, err
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		before, err := s.productRepo.FindByIDTx(tx, existing.ProductID)
		if err != nil {
			return err
		}
		if err := s.productRepo.AdjustStockTx(tx, existing.ProductID, -existing.Quantity); err != nil {
			return err
		}
		ref := purchaseID
		mov := &model.StockMovement{
			ProductID:   existing.ProductID,
			Type:        "adjustment",
			Quantity:    -existing.Quantity,
			StockBefore: before.StockUnits,
			StockAfter:  before.StockUnits - existing.Quantity,
			Reason:      fmt.Sprintf("purchase line removed, batch %s", existing.BatchNo),
			ReferenceID: &ref,
		}
		if err := s.movementRepo.CreateTx(tx, mov); err != nil {
			return err
		}
		if err := s.repo.DeleteItemTx(tx, itemID); err != nil {
			return err
		}
		return s.repo.UpdateTotalTx(tx, purchaseID)
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.GetByID(ctx, purchaseID)
}

// ExpiryReport classifies every stocked batch against today's date.
func (s *purchaseService) ExpiryReport(ctx context.Context) (*dto.ExpiryReportResponse, error) {
	items, err := s.repo.ListStockedItems(ctx)
	if err != nil {
		return nil, err
	}

	today := time.Now()
	report := &dto.ExpiryReportResponse{
		Expired:      []dto.ExpiryReportItem{},
		ExpiringSoon: []dto.ExpiryReportItem{},
		Normal:       []dto.ExpiryReportItem{},
	}
	for _, item := range items {
		entry := dto.ExpiryReportItem{
			ProductID:    item.ProductID.String(),
			BatchNo:      item.BatchNo,
			Quantity:     item.Quantity,
			ExpireDate:   item.ExpireDate.Format(dateLayout),
			DaysToExpire: pricing.DaysToExpire(item.ExpireDate, today),
		}
		if item.Product != nil {
			entry.Product = item.Product.Name
		}
		switch pricing.ClassifyExpiry(item.ExpireDate, today) {
		case pricing.ExpiryExpired:
			report.Expired = append(report.Expired, entry)
		case pricing.ExpirySoon:
			report.ExpiringSoon = append(report.ExpiringSoon, entry)
		default:
			report.Normal = append(report.Normal, entry)
		}
	}
	return report, nil
}

func (s *purchaseService) invalidatePrice(ctx context.Context, barcode string) {
	if s.rdb == nil || barcode == "" {
		return
	}
	_ = s.rdb.Del(ctx, fmt.Sprintf("price:%s", barcode)).Err()
}

func mapPurchase(p model.Purchase) dto.PurchaseResponse {
	items := make([]dto.PurchaseLineResponse, 0, len(p.Items))
	for _, item := range p.Items {
		line := dto.PurchaseLineResponse{
			ID:                  item.ID.String(),
			ProductID:           item.ProductID.String(),
			BatchNo:             item.BatchNo,
			Quantity:            item.Quantity,
			PurchaseRate:        item.PurchaseRate,
			PurchaseDiscountPct: item.PurchaseDiscountPct,
			SaleRate:            item.SaleRate,
			SaleDiscountPct:     item.SaleDiscountPct,
			MinSaleRate:         item.MinSaleRate,
			StripSize:           item.StripSize,
			FinalPurchaseRate:   item.FinalPurchaseRate,
			FinalSaleRate:       item.FinalSaleRate,
			PerStripRate:        item.PerStripRate,
			MinStripSaleRate:    item.MinStripSaleRate,
			TotalAmount:         item.TotalAmount,
			ExpiryStatus:        item.ExpiryStatus,
			ManufactureDate:     item.ManufactureDate.Format(dateLayout),
			ExpireDate:          item.ExpireDate.Format(dateLayout),
		}
		if item.Product != nil {
			line.Product = item.Product.Name
		}
		items = append(items, line)
	}

	resp := dto.PurchaseResponse{
		ID:          p.ID.String(),
		InvoiceNo:   p.InvoiceNo,
		SupplierID:  p.SupplierID.String(),
		TotalAmount: p.TotalAmount,
		Note:        p.Note,
		Items:       items,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
	if p.Supplier != nil {
		resp.Supplier = p.Supplier.Name
	}
	return resp
}

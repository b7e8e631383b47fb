package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sajjadaliuos1/Pharmasys/internal/dto"
	"github.com/sajjadaliuos1/Pharmasys/internal/model"
	"github.com/sajjadaliuos1/Pharmasys/internal/pricing"
	"github.com/sajjadaliuos1/Pharmasys/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ProductService defines business operations for the product catalog.
type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	List(ctx context.Context, includeInactive bool) ([]dto.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	AdjustStock(ctx context.Context, id uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo         repository.ProductRepository
	movementRepo repository.StockMovementRepository
	rdb          *redis.Client
}

func NewProductService(repo repository.ProductRepository, movementRepo repository.StockMovementRepository, rdb *redis.Client) ProductService {
	return &productService{repo: repo, movementRepo: movementRepo, rdb: rdb}
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:           p.ID,
		Barcode:      p.Barcode,
		Name:         p.Name,
		Description:  p.Description,
		CategoryID:   p.CategoryID,
		SupplierID:   p.SupplierID,
		PurchaseRate: p.PurchaseRate,
		SaleRate:     p.SaleRate,
		MinSaleRate:  p.MinSaleRate,
		StripSize:    p.StripSize,
		StockUnits:   p.StockUnits,
		ReorderLevel: p.ReorderLevel,
		Active:       p.Active,
	}
	if p.Category != nil {
		resp.Category = p.Category.Name
	}
	if p.Supplier != nil {
		resp.Supplier = p.Supplier.Name
	}
	return resp
}

func parseOptionalUUID(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if req.MinSaleRate.GreaterThan(req.SaleRate) {
		return nil, errors.New("minimum sale rate cannot exceed sale rate")
	}

	categoryID, err := parseOptionalUUID(req.CategoryID)
	if err != nil {
		return nil, errors.New("invalid category_id")
	}
	supplierID, err := parseOptionalUUID(req.SupplierID)
	if err != nil {
		return nil, errors.New("invalid supplier_id")
	}

	stripSize := req.StripSize
	if stripSize == 0 {
		stripSize = pricing.DefaultStripSize
	}
	reorder := req.ReorderLevel
	if reorder == 0 {
		reorder = 10
	}

	p := &model.Product{
		Barcode:      req.Barcode,
		Name:         req.Name,
		Description:  req.Description,
		CategoryID:   categoryID,
		SupplierID:   supplierID,
		PurchaseRate: req.PurchaseRate,
		SaleRate:     req.SaleRate,
		MinSaleRate:  req.MinSaleRate,
		StripSize:    stripSize,
		ReorderLevel: reorder,
		Active:       true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, includeInactive bool) ([]dto.ProductResponse, error) {
	list, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	result := make([]dto.ProductResponse, 0, len(list))
	for i := range list {
		result = append(result, *productToResponse(&list[i]))
	}
	return result, nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("product not found")
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.CategoryID != nil {
		categoryID, err := parseOptionalUUID(req.CategoryID)
		if err != nil {
			return nil, errors.New("invalid category_id")
		}
		p.CategoryID = categoryID
	}
	if req.SupplierID != nil {
		supplierID, err := parseOptionalUUID(req.SupplierID)
		if err != nil {
			return nil, errors.New("invalid supplier_id")
		}
		p.SupplierID = supplierID
	}
	if req.PurchaseRate != nil {
		p.PurchaseRate = *req.PurchaseRate
	}
	if req.SaleRate != nil {
		p.SaleRate = *req.SaleRate
	}
	if req.MinSaleRate != nil {
		p.MinSaleRate = *req.MinSaleRate
	}
	if p.MinSaleRate.GreaterThan(p.SaleRate) {
		return nil, errors.New("minimum sale rate cannot exceed sale rate")
	}
	if req.StripSize != nil {
		p.StripSize = *req.StripSize
	}
	if req.ReorderLevel != nil {
		p.ReorderLevel = *req.ReorderLevel
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidatePriceCache(ctx, p.Barcode)
	return productToResponse(p), nil
}

// AdjustStock applies a manual signed correction and records the movement.
func (s *productService) AdjustStock(ctx context.Context, id uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	var updated *model.Product
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		before, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return errors.New("product not found")
		}
		if err := s.repo.AdjustStockTx(tx, id, req.Delta); err != nil {
			return err
		}
		mov := &model.StockMovement{
			ProductID:   id,
			Type:        "adjustment",
			Quantity:    req.Delta,
			StockBefore: before.StockUnits,
			StockAfter:  before.StockUnits + req.Delta,
			Reason:      req.Reason,
		}
		if err := s.movementRepo.CreateTx(tx, mov); err != nil {
			return err
		}
		before.StockUnits += req.Delta
		updated = before
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return productToResponse(updated), nil
}

func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("product not found")
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.invalidatePriceCache(ctx, p.Barcode)
	return nil
}

func (s *productService) Reactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.Reactivate(ctx, id)
}

// invalidatePriceCache drops the barcode price-check entry. Best effort: a
// stale cache entry expires on its own TTL anyway.
func (s *productService) invalidatePriceCache(ctx context.Context, barcode string) {
	if s.rdb == nil {
		return
	}
	_ = s.rdb.Del(ctx, fmt.Sprintf("price:%s", barcode)).Err()
}

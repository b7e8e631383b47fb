package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sajjadaliuos1/Pharmasys/internal/dto"
	"github.com/sajjadaliuos1/Pharmasys/internal/pricing"
	"github.com/sajjadaliuos1/Pharmasys/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	dashboardCacheKey = "dashboard:summary"
	dashboardCacheTTL = 60 * time.Second
)

type DashboardService interface {
	Summary(ctx context.Context) (*dto.DashboardSummaryResponse, error)
}

type dashboardService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
	customerRepo repository.CustomerRepository
	saleRepo     repository.SaleRepository
	purchaseRepo repository.PurchaseRepository
	rdb          *redis.Client
}

func NewDashboardService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	supplierRepo repository.SupplierRepository,
	customerRepo repository.CustomerRepository,
	saleRepo repository.SaleRepository,
	purchaseRepo repository.PurchaseRepository,
	rdb *redis.Client,
) DashboardService {
	return &dashboardService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
		customerRepo: customerRepo,
		saleRepo:     saleRepo,
		purchaseRepo: purchaseRepo,
		rdb:          rdb,
	}
}

// Summary aggregates the landing-screen counters. The result is cached in
// redis for a minute; the dashboard polls and none of the numbers need to be
// fresher than that.
func (s *dashboardService) Summary(ctx context.Context) (*dto.DashboardSummaryResponse, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	now := time.Now()
	var resp dto.DashboardSummaryResponse
	var err error

	if resp.Products, err = s.productRepo.CountActive(ctx); err != nil {
		return nil, err
	}
	if resp.Categories, err = s.categoryRepo.CountActive(ctx); err != nil {
		return nil, err
	}
	if resp.Suppliers, err = s.supplierRepo.CountActive(ctx); err != nil {
		return nil, err
	}
	if resp.Customers, err = s.customerRepo.CountActive(ctx); err != nil {
		return nil, err
	}
	if resp.SalesToday, resp.RevenueToday, err = s.saleRepo.CountToday(ctx, now); err != nil {
		return nil, err
	}
	if resp.LowStock, err = s.productRepo.CountLowStock(ctx); err != nil {
		return nil, err
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	warningEnd := dayStart.AddDate(0, 0, pricing.ExpiryWarningDays)
	if resp.ExpiringBatch, err = s.purchaseRepo.CountExpiringBatches(ctx, dayStart, warningEnd); err != nil {
		return nil, err
	}

	s.toCache(ctx, &resp)
	return &resp, nil
}

func (s *dashboardService) fromCache(ctx context.Context) *dto.DashboardSummaryResponse {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, dashboardCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var resp dto.DashboardSummaryResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil
	}
	return &resp
}

func (s *dashboardService) toCache(ctx context.Context, resp *dto.DashboardSummaryResponse) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, dashboardCacheKey, raw, dashboardCacheTTL).Err(); err != nil {
		log.Warn().Err(err).Msg("dashboard cache write failed")
	}
}

package dto

import "github.com/shopspring/decimal"

// DashboardSummaryResponse backs the admin landing screen widgets.
type DashboardSummaryResponse struct {
	Products      int64           `json:"products"`
	Categories    int64           `json:"categories"`
	Suppliers     int64           `json:"suppliers"`
	Customers     int64           `json:"customers"`
	SalesToday    int64           `json:"sales_today"`
	RevenueToday  decimal.Decimal `json:"revenue_today"`
	LowStock      int64           `json:"low_stock"`
	ExpiringBatch int64           `json:"expiring_batches"`
}

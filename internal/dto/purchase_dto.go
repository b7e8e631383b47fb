package dto

import (
	"github.com/shopspring/decimal"
)

// ── Request DTOs ──────────────────────────────────────────────────────────────

// PurchaseLineRequest carries the raw entry fields of one purchase line.
// Dates use "2006-01-02". The derived money fields are computed server-side
// and never accepted from the client.
type PurchaseLineRequest struct {
	ProductID           string          `json:"product_id"            validate:"required,uuid"`
	BatchNo             string          `json:"batch_no"              validate:"required,min=1,max=50"`
	Quantity            int             `json:"quantity"              validate:"required,gt=0"`
	PurchaseRate        decimal.Decimal `json:"purchase_rate"         validate:"min=0"`
	PurchaseDiscountPct decimal.Decimal `json:"purchase_discount_pct" validate:"min=0,max=100"`
	SaleRate            decimal.Decimal `json:"sale_rate"             validate:"min=0"`
	SaleDiscountPct     decimal.Decimal `json:"sale_discount_pct"     validate:"min=0,max=100"`
	MinSaleRate         decimal.Decimal `json:"min_sale_rate"         validate:"min=0"`
	StripSize           int             `json:"strip_size"            validate:"omitempty,gt=0"`
	ManufactureDate     string          `json:"manufacture_date"      validate:"required,datetime=2006-01-02"`
	ExpireDate          string          `json:"expire_date"           validate:"required,datetime=2006-01-02"`
}

type CreatePurchaseRequest struct {
	SupplierID string                `json:"supplier_id" validate:"required,uuid"`
	Note       *string               `json:"note"`
	Items      []PurchaseLineRequest `json:"items"       validate:"required,min=1,dive"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type PurchaseLineResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Product   string `json:"product,omitempty"`
	BatchNo   string `json:"batch_no"`
	Quantity  int    `json:"quantity"`

	PurchaseRate        decimal.Decimal `json:"purchase_rate"`
	PurchaseDiscountPct decimal.Decimal `json:"purchase_discount_pct"`
	SaleRate            decimal.Decimal `json:"sale_rate"`
	SaleDiscountPct     decimal.Decimal `json:"sale_discount_pct"`
	MinSaleRate         decimal.Decimal `json:"min_sale_rate"`
	StripSize           int             `json:"strip_size"`

	FinalPurchaseRate decimal.Decimal `json:"final_purchase_rate"`
	FinalSaleRate     decimal.Decimal `json:"final_sale_rate"`
	PerStripRate      decimal.Decimal `json:"per_strip_rate"`
	MinStripSaleRate  decimal.Decimal `json:"min_strip_sale_rate"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	ExpiryStatus      string          `json:"expiry_status"`

	ManufactureDate string `json:"manufacture_date"`
	ExpireDate      string `json:"expire_date"`
}

type PurchaseResponse struct {
	ID          string                 `json:"id"`
	InvoiceNo   int64                  `json:"invoice_no"`
	SupplierID  string                 `json:"supplier_id"`
	Supplier    string                 `json:"supplier,omitempty"`
	TotalAmount decimal.Decimal        `json:"total_amount"`
	Note        *string                `json:"note,omitempty"`
	Items       []PurchaseLineResponse `json:"items"`
	CreatedAt   string                 `json:"created_at"`
}

type PurchaseListResponse struct {
	Data  []PurchaseResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ExpiryReportResponse buckets stocked batches by expiry classification.
type ExpiryReportResponse struct {
	Expired      []ExpiryReportItem `json:"expired"`
	ExpiringSoon []ExpiryReportItem `json:"expiring_soon"`
	Normal       []ExpiryReportItem `json:"normal"`
}

type ExpiryReportItem struct {
	ProductID    string `json:"product_id"`
	Product      string `json:"product"`
	BatchNo      string `json:"batch_no"`
	Quantity     int    `json:"quantity"`
	ExpireDate   string `json:"expire_date"`
	DaysToExpire int    `json:"days_to_expire"`
}

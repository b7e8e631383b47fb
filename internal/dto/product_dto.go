package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Barcode      string          `json:"barcode"       validate:"required,min=3,max=50"`
	Name         string          `json:"name"          validate:"required,min=2,max=200"`
	Description  *string         `json:"description"`
	CategoryID   *string         `json:"category_id"   validate:"omitempty,uuid"`
	SupplierID   *string         `json:"supplier_id"   validate:"omitempty,uuid"`
	PurchaseRate decimal.Decimal `json:"purchase_rate" validate:"min=0"`
	SaleRate     decimal.Decimal `json:"sale_rate"     validate:"min=0"`
	MinSaleRate  decimal.Decimal `json:"min_sale_rate" validate:"min=0"`
	StripSize    int             `json:"strip_size"    validate:"omitempty,gt=0"`
	ReorderLevel int             `json:"reorder_level" validate:"omitempty,gte=0"`
}

type UpdateProductRequest struct {
	Name         *string          `json:"name"          validate:"omitempty,min=2,max=200"`
	Description  *string          `json:"description"`
	CategoryID   *string          `json:"category_id"   validate:"omitempty,uuid"`
	SupplierID   *string          `json:"supplier_id"   validate:"omitempty,uuid"`
	PurchaseRate *decimal.Decimal `json:"purchase_rate" validate:"omitempty,min=0"`
	SaleRate     *decimal.Decimal `json:"sale_rate"     validate:"omitempty,min=0"`
	MinSaleRate  *decimal.Decimal `json:"min_sale_rate" validate:"omitempty,min=0"`
	StripSize    *int             `json:"strip_size"    validate:"omitempty,gt=0"`
	ReorderLevel *int             `json:"reorder_level" validate:"omitempty,gte=0"`
}

type AdjustStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Reason string `json:"reason" validate:"required,min=3,max=200"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type ProductResponse struct {
	ID           uuid.UUID       `json:"id"`
	Barcode      string          `json:"barcode"`
	Name         string          `json:"name"`
	Description  *string         `json:"description,omitempty"`
	CategoryID   *uuid.UUID      `json:"category_id,omitempty"`
	Category     string          `json:"category,omitempty"`
	SupplierID   *uuid.UUID      `json:"supplier_id,omitempty"`
	Supplier     string          `json:"supplier,omitempty"`
	PurchaseRate decimal.Decimal `json:"purchase_rate"`
	SaleRate     decimal.Decimal `json:"sale_rate"`
	MinSaleRate  decimal.Decimal `json:"min_sale_rate"`
	StripSize    int             `json:"strip_size"`
	StockUnits   int             `json:"stock_units"`
	ReorderLevel int             `json:"reorder_level"`
	Active       bool            `json:"active"`
}

// PriceCheckResponse is the public barcode price lookup payload.
type PriceCheckResponse struct {
	Name       string          `json:"name"`
	SaleRate   decimal.Decimal `json:"sale_rate"`
	StockUnits int             `json:"stock_units"`
	Category   string          `json:"category,omitempty"`
}

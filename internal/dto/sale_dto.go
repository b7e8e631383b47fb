package dto

import (
	"github.com/shopspring/decimal"
)

// ── Request DTOs ──────────────────────────────────────────────────────────────

type SaleItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity"   validate:"required,gt=0"`
	Discount  decimal.Decimal `json:"discount"   validate:"min=0"`
}

type CreateSaleRequest struct {
	CustomerID    *string           `json:"customer_id"    validate:"omitempty,uuid"`
	CustomerEmail *string           `json:"customer_email" validate:"omitempty,email"`
	Items         []SaleItemRequest `json:"items"          validate:"required,min=1,dive"`
	Paid          decimal.Decimal   `json:"paid"           validate:"min=0"`
	PaymentMethod string            `json:"payment_method" validate:"omitempty,oneof=cash card mobile"`
}

type VoidSaleRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=200"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ProductID string          `json:"product_id"`
	Product   string          `json:"product,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type SaleResponse struct {
	ID            string             `json:"id"`
	InvoiceNo     int64              `json:"invoice_no"`
	CustomerID    *string            `json:"customer_id,omitempty"`
	Customer      string             `json:"customer,omitempty"`
	Items         []SaleItemResponse `json:"items"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	DiscountTotal decimal.Decimal    `json:"discount_total"`
	Total         decimal.Decimal    `json:"total"`
	Paid          decimal.Decimal    `json:"paid"`
	Change        decimal.Decimal    `json:"change"`
	PaymentMethod string             `json:"payment_method"`
	Status        string             `json:"status"`
	CreatedAt     string             `json:"created_at"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// SaleFilter narrows the sale list query.
type SaleFilter struct {
	From   string
	To     string
	Status string
	Page   int
	Limit  int
}

type InvoiceResponse struct {
	ID         string  `json:"id"`
	SaleID     string  `json:"sale_id"`
	Status     string  `json:"status"`
	PDFPath    *string `json:"pdf_path,omitempty"`
	RetryCount int     `json:"retry_count"`
	LastError  *string `json:"last_error,omitempty"`
}

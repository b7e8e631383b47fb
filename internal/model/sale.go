package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is a completed counter sale (invoice).
// Status: "completed" | "voided"
type Sale struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceNo  int64      `gorm:"uniqueIndex;not null"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null"`

	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Paid          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(20);not null;default:'cash'"`
	Status        string          `gorm:"type:varchar(20);not null;default:'completed'"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Customer *Customer  `gorm:"foreignKey:CustomerID"`
	User     *User      `gorm:"foreignKey:UserID"`
	Items    []SaleItem `gorm:"foreignKey:SaleID"`
}

// SaleItem is one invoice line. UnitPrice is the product's sale rate at the
// time of sale; Discount is an absolute amount off the line.
type SaleItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID    uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null"`

	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Discount  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

// Invoice tracks the async PDF/email pipeline for a sale.
// Status: "pending" | "issued" | "error"
type Invoice struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`

	Status      string `gorm:"type:varchar(20);not null;default:'pending'"`
	PDFPath     *string
	RetryCount  int `gorm:"not null;default:0"`
	NextRetryAt *time.Time
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Sale *Sale `gorm:"foreignKey:SaleID"`
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase is a received supplier delivery. TotalAmount is the sum of its
// line totals and is recomputed whenever a line is edited or removed.
type Purchase struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceNo  int64     `gorm:"uniqueIndex;not null"`
	SupplierID uuid.UUID `gorm:"type:uuid;index;not null"`
	UserID     uuid.UUID `gorm:"type:uuid;not null"`

	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Note        *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Supplier *Supplier      `gorm:"foreignKey:SupplierID"`
	User     *User          `gorm:"foreignKey:UserID"`
	Items    []PurchaseItem `gorm:"foreignKey:PurchaseID"`
}

// PurchaseItem is one line of a purchase: the raw entry fields plus the
// derived money fields produced by the pricing calculator. Derived columns
// are never written from client input.
type PurchaseItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PurchaseID uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductID  uuid.UUID `gorm:"type:uuid;index;not null"`

	BatchNo  string `gorm:"not null"`
	Quantity int    `gorm:"not null"`

	PurchaseRate        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PurchaseDiscountPct decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	SaleRate            decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	SaleDiscountPct     decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	MinSaleRate         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	StripSize           int             `gorm:"not null;default:10"`

	// Derived
	FinalPurchaseRate decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	FinalSaleRate     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PerStripRate      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	MinStripSaleRate  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ExpiryStatus      string          `gorm:"type:varchar(20);not null"`

	ManufactureDate time.Time `gorm:"type:date;not null"`
	ExpireDate      time.Time `gorm:"type:date;index;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

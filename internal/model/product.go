package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a stocked medicine. Rates are per sale unit; StripSize is the
// number of units per strip used to derive bulk pricing. Rate columns are
// refreshed from the latest received purchase line.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Barcode     string    `gorm:"uniqueIndex;not null"`
	Name        string    `gorm:"index;not null"`
	Description *string
	CategoryID  *uuid.UUID `gorm:"type:uuid;index"`
	SupplierID  *uuid.UUID `gorm:"type:uuid;index"`

	PurchaseRate decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	SaleRate     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	// MinSaleRate is the floor price a line may never be sold below.
	MinSaleRate decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	StripSize   int             `gorm:"not null;default:10"`

	StockUnits   int  `gorm:"not null;default:0"`
	ReorderLevel int  `gorm:"not null;default:10"`
	Active       bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}

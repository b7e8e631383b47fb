package model

import (
	"time"

	"github.com/google/uuid"
)

// StockMovement is the audit trail for every stock change.
// Type: "purchase" | "sale" | "void_restore" | "adjustment"
type StockMovement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Type        string    `gorm:"type:varchar(20);not null"`
	Quantity    int       `gorm:"not null"` // signed: negative for outgoing
	StockBefore int       `gorm:"not null"`
	StockAfter  int       `gorm:"not null"`
	Reason      string
	ReferenceID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt   time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies products (e.g. Analgesic, Antibiotic).
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"uniqueIndex;not null"`
	Description *string
	Active      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Subcategories []Subcategory `gorm:"foreignKey:CategoryID"`
}

// Subcategory is a second classification level under a Category.
type Subcategory struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CategoryID  uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_subcategory_name"`
	Name        string    `gorm:"not null;uniqueIndex:idx_subcategory_name"`
	Description *string
	Active      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
}

func (Subcategory) TableName() string { return "subcategories" }

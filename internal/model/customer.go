package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a walk-in or registered pharmacy customer.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"index;not null"`
	Phone     *string   `gorm:"uniqueIndex"`
	Email     *string
	Address   *string
	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

package dto

import "github.com/google/uuid"

type CreateSupplierRequest struct {
	Name    string  `json:"name"    validate:"required,min=2,max=200"`
	Contact *string `json:"contact"`
	Phone   *string `json:"phone"   validate:"omitempty,min=5,max=30"`
	Email   *string `json:"email"   validate:"omitempty,email"`
	Address *string `json:"address"`
}

type UpdateSupplierRequest struct {
	Name    *string `json:"name"    validate:"omitempty,min=2,max=200"`
	Contact *string `json:"contact"`
	Phone   *string `json:"phone"   validate:"omitempty,min=5,max=30"`
	Email   *string `json:"email"   validate:"omitempty,email"`
	Address *string `json:"address"`
	Active  *bool   `json:"active"`
}

type SupplierResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Contact *string   `json:"contact,omitempty"`
	Phone   *string   `json:"phone,omitempty"`
	Email   *string   `json:"email,omitempty"`
	Address *string   `json:"address,omitempty"`
	Active  bool      `json:"active"`
}

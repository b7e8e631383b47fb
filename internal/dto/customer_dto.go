package dto

import "github.com/google/uuid"

type CreateCustomerRequest struct {
	Name    string  `json:"name"    validate:"required,min=2,max=200"`
	Phone   *string `json:"phone"   validate:"omitempty,min=5,max=30"`
	Email   *string `json:"email"   validate:"omitempty,email"`
	Address *string `json:"address"`
}

type UpdateCustomerRequest struct {
	Name    *string `json:"name"    validate:"omitempty,min=2,max=200"`
	Phone   *string `json:"phone"   validate:"omitempty,min=5,max=30"`
	Email   *string `json:"email"   validate:"omitempty,email"`
	Address *string `json:"address"`
	Active  *bool   `json:"active"`
}

type CustomerResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Phone   *string   `json:"phone,omitempty"`
	Email   *string   `json:"email,omitempty"`
	Address *string   `json:"address,omitempty"`
	Active  bool      `json:"active"`
}

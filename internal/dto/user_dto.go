package dto

type CreateUserRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=100"`
	Name     string  `json:"name"     validate:"required,min=2,max=100"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Role     string  `json:"role"     validate:"required,oneof=admin manager staff"`
}

type UpdateUserRequest struct {
	Name     string  `json:"name"     validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password string  `json:"password" validate:"omitempty,min=6"`
	Role     string  `json:"role"     validate:"omitempty,oneof=admin manager staff"`
}

package types

import "github.com/shopspring/decimal"

// APIError is the failure body returned by the storefront API.
type APIError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the success body of POST /auth/login.
type LoginResponse struct {
	Success  bool            `json:"success"`
	Token    string          `json:"token" validate:"required"`
	Username string          `json:"username" validate:"required"`
	Balance  decimal.Decimal `json:"balance" validate:"gte=0"`
}

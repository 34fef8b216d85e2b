// Package domain holds DTOs for auth http and service contracts
package domain

// RegisterInput is the registration payload
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=64"  example:"alice"`
	Email    string `json:"email"    validate:"required,email,max=254" example:"alice@example.com"`
	Password string `json:"password" validate:"required,min=8,max=128" example:"p@ss1234"`
}

// LoginInput carries the form-encoded login credentials
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// User is the public user representation
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	IsActive    bool   `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// Token is the login response body
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

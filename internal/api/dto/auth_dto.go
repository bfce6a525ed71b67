package dto

import (
	"time"

	"github.com/spec-kit/case-portal/internal/domain"
)

// RegisterRequest payload.
type RegisterRequest struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PromoteRequest payload.
type PromoteRequest struct {
	Identifier string `json:"identifier"`
}

// UserResponse is the account projection returned after auth operations.
type UserResponse struct {
	ID        string      `json:"id"`
	FullName  string      `json:"full_name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

package dto

// ── auth DTOs ──

// LoginRequest email/password login
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

package dto

// ── user DTOs ──

// UserListRequest user list query
type UserListRequest struct {
	PaginationRequest
	Role string `form:"role" binding:"omitempty,role"`
}

// CreateUserRequest admin-created account
type CreateUserRequest struct {
	Name     string `json:"name"     binding:"required,min=2,max=100"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role"     binding:"required,role"`
}

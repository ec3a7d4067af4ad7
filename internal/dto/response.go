package dto

import "github.com/Noah-Bakr/Teach-Team-sub001/internal/model"

// ── auth responses ──

// TokenResponse issued access token
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int          `json:"expires_in"` // seconds
	User        UserResponse `json:"user"`
}

// ── user responses ──

// UserResponse user without credentials
type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UserDetailResponse GET /auth/me and /users/:id
type UserDetailResponse struct {
	UserResponse
	CreatedAt string `json:"created_at"`
}

// ── course responses ──

// CourseResponse course
type CourseResponse struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// ── applicant responses ──

// ApplicantResponse one table row with resolved display names
type ApplicantResponse struct {
	ID                  int64              `json:"id"`
	UserID              int64              `json:"user_id"`
	UserName            string             `json:"user_name"`
	CourseID            int64              `json:"course_id"`
	CourseCode          string             `json:"course_code"`
	Availability        string             `json:"availability"`
	Skills              []string           `json:"skills"`
	AcademicCredentials []model.Credential `json:"academic_credentials"`
	Selected            bool               `json:"selected"`
	Rank                *int               `json:"rank,omitempty"`
	Comment             *string            `json:"comment,omitempty"`
}

// SelectedCardResponse selected applicant with inline field errors
type SelectedCardResponse struct {
	ApplicantResponse
	Errors map[string]string `json:"errors"`
}

// ── lookup responses ──

// LookupResponse resolved display name
type LookupResponse struct {
	Kind string `json:"kind"`
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// LookupRefreshResponse per-kind refresh outcome
type LookupRefreshResponse struct {
	Users   bool `json:"users"`
	Courses bool `json:"courses"`
}

// ── pagination ──

// PaginationRequest common paging parameters
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage page number with default
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize page size with default
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset row offset
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

package dto

// ── course DTOs ──

// CreateCourseRequest new course
type CreateCourseRequest struct {
	Code string `json:"code" binding:"required,min=2,max=20"`
	Name string `json:"name" binding:"required,min=2,max=150"`
}

// UpdateCourseRequest partial course update
type UpdateCourseRequest struct {
	Code *string `json:"code" binding:"omitempty,min=2,max=20"`
	Name *string `json:"name" binding:"omitempty,min=2,max=150"`
}

package dto

// ── applicant DTOs ──

// CredentialRequest one academic credential
type CredentialRequest struct {
	Qualification string `json:"qualification" binding:"required,max=100"`
	Institution   string `json:"institution"   binding:"required,max=100"`
	Year          int    `json:"year"          binding:"required,min=1950,max=2100"`
}

// ApplyRequest candidate application for a course
type ApplyRequest struct {
	CourseID            int64               `json:"course_id"            binding:"required,min=1"`
	Availability        string              `json:"availability"         binding:"required,availability"`
	Skills              []string            `json:"skills"               binding:"omitempty,max=20,dive,min=1,max=50"`
	AcademicCredentials []CredentialRequest `json:"academic_credentials" binding:"omitempty,max=10,dive"`
}

// ApplicantListRequest table query
type ApplicantListRequest struct {
	Query string `form:"q"    binding:"omitempty,max=100"`
	Sort  string `form:"sort" binding:"omitempty,max=20"`
}

// SetRankRequest raw rank as typed by the reviewer. It is validated by the
// review workflow, not by binding, so rejected input is recorded.
type SetRankRequest struct {
	Rank string `json:"rank"`
}

// SetCommentRequest raw comment text
type SetCommentRequest struct {
	Comment string `json:"comment"`
}

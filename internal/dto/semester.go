package dto

// ── 学期模块 DTO ──

// UpsertSemesterRequest 新增或覆盖学期请求（学年、学期取自路径）
type UpsertSemesterRequest struct {
	StartDate string `json:"start_date" binding:"required"` // "2025-09-01"
	EndDate   string `json:"end_date"   binding:"required"` // "2026-01-31"
}

// SemesterResponse 学期信息响应
type SemesterResponse struct {
	Label          string `json:"label"` // 114-1
	AcademicYear   int    `json:"academic_year"`
	SemesterNumber int    `json:"semester_number"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	Source         string `json:"source"`
}

// SemesterURI 路径中的学年与学期：/semesters/:year/:term
type SemesterURI struct {
	Year int `uri:"year" binding:"required,min=1"`
	Term int `uri:"term" binding:"required,oneof=1 2"`
}

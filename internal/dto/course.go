package dto

import "github.com/chinkunlim/Project-Synapse/internal/schedule"

// ── 课程模块 DTO ──

// CourseListRequest 课程列表查询参数
type CourseListRequest struct {
	Year *int `form:"year" binding:"omitempty,min=1"`
	Term *int `form:"term" binding:"omitempty,oneof=1 2"`
	PaginationRequest
}

// ImportCoursesForm 课程导入表单（multipart，file 字段单独读取）
type ImportCoursesForm struct {
	SemesterStart string `form:"semester_start"`
	SemesterEnd   string `form:"semester_end"`
	ExcludeDates  string `form:"exclude_dates"` // 逗号分隔的 YYYY-MM-DD
	// 均分课程的归属学期，可选
	Year int `form:"year" binding:"omitempty,min=1"`
	Term int `form:"term" binding:"omitempty,oneof=1 2"`
}

// ExportQuery 导出范围：?year=114&term=1 或 ?batch_id=<uuid>
type ExportQuery struct {
	Year    int    `form:"year" binding:"omitempty,min=1"`
	Term    int    `form:"term" binding:"omitempty,oneof=1 2"`
	BatchID string `form:"batch_id" binding:"omitempty,uuid"`
}

// CourseResponse 课程信息
type CourseResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Code        string  `json:"code,omitempty"`
	Instructor  string  `json:"instructor,omitempty"`
	Hours       *int    `json:"hours,omitempty"`
	Credits     *int    `json:"credits,omitempty"`
	Mode        string  `json:"mode"`
	Semester    string  `json:"semester,omitempty"` // 114-1
	Notation    string  `json:"notation,omitempty"`
	Display     string  `json:"display"`
	ParseStatus string  `json:"parse_status"`
	BatchID     *string `json:"batch_id,omitempty"`
	BlockCount  int     `json:"block_count,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// CourseBlocksResponse 课程的教学块
type CourseBlocksResponse struct {
	Course CourseResponse       `json:"course"`
	Blocks []schedule.BlockView `json:"blocks"`
}

// ImportResultResponse 导入结果
type ImportResultResponse struct {
	BatchID       string   `json:"batch_id"`
	TotalRows     int      `json:"total_rows"`
	Imported      int      `json:"imported"`
	Failed        int      `json:"failed"`
	BlocksCreated int      `json:"blocks_created"`
	Errors        []string `json:"errors"`
}

package dto

import "github.com/chinkunlim/Project-Synapse/internal/schedule"

// ── 节次解析 DTO ──

// PreviewScheduleRequest 节次记法预览请求
type PreviewScheduleRequest struct {
	Notation     string   `json:"notation"      binding:"required,max=200"`
	Year         int      `json:"year"          binding:"required,min=1"`
	Semester     int      `json:"semester"      binding:"required,oneof=1 2"`
	ExcludeDates []string `json:"exclude_dates"`
}

// SessionResponse 单个上课时段
type SessionResponse struct {
	Weekday     string `json:"weekday"`
	StartPeriod int    `json:"start_period"`
	EndPeriod   int    `json:"end_period"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

// PreviewScheduleResponse 预览结果：解析 + 展开，不落库
type PreviewScheduleResponse struct {
	Display  string               `json:"display"`
	Status   string               `json:"status"`
	Sessions []SessionResponse    `json:"sessions"`
	Issues   []schedule.Issue     `json:"issues,omitempty"`
	Blocks   []schedule.BlockView `json:"blocks"`
}

// PeriodResponse 节次时间表中的一项
type PeriodResponse struct {
	Period int    `json:"period"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

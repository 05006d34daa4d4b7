package dto

// ── 日历同步 DTO ──

// CalendarSyncRequest 日历同步请求；url 为空时使用配置中的 ical_url
type CalendarSyncRequest struct {
	URL string `json:"url" binding:"omitempty,url"`
}

// CalendarSyncResponse 日历同步结果
type CalendarSyncResponse struct {
	Applied []SemesterResponse `json:"applied"`
	Skipped int                `json:"skipped"`
	SyncedAt string            `json:"synced_at"`
}

// CalendarSyncStatusResponse 最近同步状态
type CalendarSyncStatusResponse struct {
	LastSyncedAt *string `json:"last_synced_at"`
	Available    bool    `json:"available"` // Redis 不可用时为 false
}

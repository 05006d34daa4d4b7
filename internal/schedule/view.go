package schedule

import "time"

// BlockView 教学块的对外输出形式（供持久化/导出使用）
type BlockView struct {
	Date      string `json:"date"`            // 无时刻：2006-01-02；有时刻：RFC3339（+08:00）
	Start     string `json:"start,omitempty"` // HH:MM
	End       string `json:"end,omitempty"`
	WeekIndex int    `json:"week"`
	Weekday   string `json:"weekday"` // Mon..Sun
	Semester  string `json:"semester,omitempty"`
}

// View 生成单个教学块的输出视图
func (b TeachingBlock) View(semesterLabel string) BlockView {
	v := BlockView{
		WeekIndex: b.WeekIndex,
		Weekday:   WeekdayLabel(b.Weekday()),
		Semester:  semesterLabel,
	}
	if b.HasTime {
		v.Date = b.StartAt().Format(time.RFC3339)
		v.Start = b.StartTime.String()
		v.End = b.EndTime.String()
	} else {
		v.Date = b.Date.Format(DateLayout)
	}
	return v
}

// Views 批量生成输出视图
func Views(blocks []TeachingBlock, semesterLabel string) []BlockView {
	out := make([]BlockView, len(blocks))
	for i, b := range blocks {
		out[i] = b.View(semesterLabel)
	}
	return out
}

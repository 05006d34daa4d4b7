package schedule

import (
	"sort"
	"time"
)

// MaxWeeks 周次上限，超出的教学块被丢弃
const MaxWeeks = 18

// TeachingBlock 同一天所有 Occurrence 合并后的教学块
type TeachingBlock struct {
	Date      time.Time
	StartTime TimeOfDay
	EndTime   TimeOfDay
	HasTime   bool // 旧版均分模式生成的块不带时刻
	WeekIndex int
}

// Weekday 教学块所在星期（0=星期一）
func (b TeachingBlock) Weekday() int {
	return WeekdayOf(b.Date)
}

// StartAt 开始时刻（UTC+8）；无时刻时返回当日零点
func (b TeachingBlock) StartAt() time.Time {
	if !b.HasTime {
		return b.Date
	}
	return b.Date.Add(time.Duration(b.StartTime.Minutes()) * time.Minute)
}

// EndAt 结束时刻（UTC+8）；无时刻时返回次日零点
func (b TeachingBlock) EndAt() time.Time {
	if !b.HasTime {
		return b.Date.AddDate(0, 0, 1)
	}
	return b.Date.Add(time.Duration(b.EndTime.Minutes()) * time.Minute)
}

// MergeOccurrences 按日期合并并计算周次。
//
// 假设一门课每天只上一段连续的课：同一天的多段会被合并为一个跨度，
// 即使中间并不连续。
// 周次以第一个教学块的日期为锚点（而不是学期登记的开学日），
// 超过 MaxWeeks 的块被丢弃，剩余块不重新编号。
func MergeOccurrences(occurrences []Occurrence) []TeachingBlock {
	if len(occurrences) == 0 {
		return nil
	}

	sorted := make([]Occurrence, len(occurrences))
	copy(sorted, occurrences)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := CivilDate(sorted[i].Date), CivilDate(sorted[j].Date)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	var blocks []TeachingBlock
	for _, occ := range sorted {
		day := CivilDate(occ.Date)
		if n := len(blocks); n > 0 && blocks[n-1].Date.Equal(day) {
			blocks[n-1].EndTime = occ.EndTime
			continue
		}
		blocks = append(blocks, TeachingBlock{
			Date:      day,
			StartTime: occ.StartTime,
			EndTime:   occ.EndTime,
			HasTime:   true,
		})
	}

	anchor := blocks[0].Date
	kept := blocks[:0]
	for _, b := range blocks {
		b.WeekIndex = weekIndex(anchor, b.Date)
		if b.WeekIndex > MaxWeeks {
			continue
		}
		kept = append(kept, b)
	}
	return kept
}

// weekIndex 1-based 周次；date 不早于 anchor
func weekIndex(anchor, date time.Time) int {
	days := int(date.Sub(anchor).Hours() / 24)
	return days/7 + 1
}

package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay 一天内的时刻（无日期、无时区）
type TimeOfDay struct {
	Hour   int
	Minute int
}

// String 格式化为 HH:MM
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Minutes 自零点起的分钟数，用于排序比较
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Before 判断是否早于 o
func (t TimeOfDay) Before(o TimeOfDay) bool {
	return t.Minutes() < o.Minutes()
}

// ParseTimeOfDay 解析 HH:MM
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return TimeOfDay{}, fmt.Errorf("时刻格式无效: %q", s)
	}
	h, errH := strconv.Atoi(hh)
	m, errM := strconv.Atoi(mm)
	if errH != nil || errM != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return TimeOfDay{}, fmt.Errorf("时刻格式无效: %q", s)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

// PeriodSpan 单个节次的起止时刻
type PeriodSpan struct {
	Start TimeOfDay
	End   TimeOfDay
}

const (
	// MinPeriod 第一节
	MinPeriod = 1
	// MaxPeriod 最后一节
	MaxPeriod = 14
)

// ── 节次时间表 ──
//
// 节次之间并不连续（午休、晚餐时段）。

var periodTable = map[int]PeriodSpan{
	1:  {TimeOfDay{6, 10}, TimeOfDay{7, 0}},
	2:  {TimeOfDay{7, 10}, TimeOfDay{8, 0}},
	3:  {TimeOfDay{8, 10}, TimeOfDay{9, 0}},
	4:  {TimeOfDay{9, 10}, TimeOfDay{10, 0}},
	5:  {TimeOfDay{10, 20}, TimeOfDay{11, 10}},
	6:  {TimeOfDay{11, 20}, TimeOfDay{12, 10}},
	7:  {TimeOfDay{12, 10}, TimeOfDay{13, 0}},
	8:  {TimeOfDay{13, 10}, TimeOfDay{14, 0}},
	9:  {TimeOfDay{14, 10}, TimeOfDay{15, 0}},
	10: {TimeOfDay{15, 10}, TimeOfDay{16, 0}},
	11: {TimeOfDay{16, 20}, TimeOfDay{17, 10}},
	12: {TimeOfDay{17, 20}, TimeOfDay{18, 10}},
	13: {TimeOfDay{18, 30}, TimeOfDay{19, 20}},
	14: {TimeOfDay{19, 30}, TimeOfDay{20, 20}},
}

// PeriodTime 查询节次的起止时刻；节次不在 1..14 时 ok=false
func PeriodTime(period int) (PeriodSpan, bool) {
	span, ok := periodTable[period]
	return span, ok
}

// Periods 按节次顺序返回完整节次表
func Periods() []PeriodSpan {
	out := make([]PeriodSpan, 0, MaxPeriod)
	for p := MinPeriod; p <= MaxPeriod; p++ {
		out = append(out, periodTable[p])
	}
	return out
}

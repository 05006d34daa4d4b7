package model

import (
	"database/sql/driver"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ── 上课星期集合 ──

// WeekdaySet 课程的上课星期（0=星期一 … 6=星期日），存为 PostgreSQL INT[]。
type WeekdaySet []int

// NewWeekdaySet 去重并升序
func NewWeekdaySet(days ...int) WeekdaySet {
	seen := make(map[int]bool, len(days))
	set := WeekdaySet{}
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			set = append(set, d)
		}
	}
	sort.Ints(set)
	return set
}

// Has 是否包含某个星期
func (w WeekdaySet) Has(day int) bool {
	for _, d := range w {
		if d == day {
			return true
		}
	}
	return false
}

// Scan 解析 PostgreSQL 返回的 {0,2,4} 文本。
func (w *WeekdaySet) Scan(src interface{}) error {
	if src == nil {
		*w = nil
		return nil
	}
	var s string
	switch v := src.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("WeekdaySet.Scan: unsupported type %T", src)
	}
	s = strings.Trim(s, "{}")
	if s == "" {
		*w = WeekdaySet{}
		return nil
	}
	parts := strings.Split(s, ",")
	days := make(WeekdaySet, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return fmt.Errorf("WeekdaySet.Scan: invalid element %q: %w", p, err)
		}
		if n < 0 || n > 6 {
			return fmt.Errorf("WeekdaySet.Scan: weekday %d out of range", n)
		}
		days = append(days, n)
	}
	*w = days
	return nil
}

// Value 序列化为 {0,2,4}，写入前去重排序。
func (w WeekdaySet) Value() (driver.Value, error) {
	if w == nil {
		return nil, nil
	}
	norm := NewWeekdaySet(w...)
	parts := make([]string, len(norm))
	for i, d := range norm {
		if d < 0 || d > 6 {
			return nil, fmt.Errorf("WeekdaySet.Value: weekday %d out of range", d)
		}
		parts[i] = strconv.Itoa(d)
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

// BaseModel 审计字段；*_by 记录管理员用户名
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:varchar(64)"                   json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:varchar(64)"                   json:"updated_by,omitempty"`
}

// SoftDeleteModel 支持软删除的审计字段
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index"           json:"deleted_at,omitempty"`
	DeletedBy *string        `gorm:"type:varchar(64)" json:"deleted_by,omitempty"`
}

package schedule

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Location 固定 UTC+8 时区；引擎内所有日期均为该时区零点
var Location = time.FixedZone("UTC+8", 8*60*60)

// Date 构造 UTC+8 的民用日期
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, Location)
}

// CivilDate 将任意时刻截断为 UTC+8 的日期零点
func CivilDate(t time.Time) time.Time {
	t = t.In(Location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Location)
}

// Semester 学年学期及其起止日期（闭区间）
type Semester struct {
	Year      int       `json:"year"`   // 学年（民国纪年，如 114）
	Number    int       `json:"number"` // 1 | 2
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// Label 例：114-1
func (s Semester) Label() string {
	return SemesterLabel(s.Year, s.Number)
}

// String 例：学年 114 第 1 学期 (2025-09-01 到 2026-01-31)
func (s Semester) String() string {
	return fmt.Sprintf("学年 %d 第 %d 学期 (%s 到 %s)",
		s.Year, s.Number, s.StartDate.Format("2006-01-02"), s.EndDate.Format("2006-01-02"))
}

// Contains 判断日期是否落在学期区间内
func (s Semester) Contains(d time.Time) bool {
	d = CivilDate(d)
	return !d.Before(CivilDate(s.StartDate)) && !d.After(CivilDate(s.EndDate))
}

// SemesterLabel 学期标签 "<year>-<number>"
func SemesterLabel(year, number int) string {
	return fmt.Sprintf("%d-%d", year, number)
}

type semesterKey struct {
	year   int
	number int
}

// SemesterStore 学期仓库：按 (学年, 学期) 读写
type SemesterStore interface {
	Get(year, number int) (Semester, bool)
	Upsert(s Semester)
	All() []Semester
}

// Calendar 进程内学期仓库
//
// 并发语义：单键写入后写者胜出；多个 Upsert 之间没有事务，
// 读者可能看到部分更新的表。需要整体替换时使用 UpsertBatch。
type Calendar struct {
	mu        sync.RWMutex
	semesters map[semesterKey]Semester
}

// NewCalendar 以给定学期创建仓库
func NewCalendar(seed ...Semester) *Calendar {
	c := &Calendar{semesters: make(map[semesterKey]Semester, len(seed))}
	for _, s := range seed {
		c.semesters[semesterKey{s.Year, s.Number}] = normalizeSemester(s)
	}
	return c
}

// NewDefaultCalendar 以默认学期表创建仓库
func NewDefaultCalendar() *Calendar {
	return NewCalendar(DefaultSemesters()...)
}

// DefaultSemesters 预置的学期表，可被日历同步覆盖
func DefaultSemesters() []Semester {
	return []Semester{
		{Year: 113, Number: 1, StartDate: Date(2024, 9, 1), EndDate: Date(2025, 1, 31)},
		{Year: 113, Number: 2, StartDate: Date(2025, 2, 1), EndDate: Date(2025, 6, 30)},
		{Year: 114, Number: 1, StartDate: Date(2025, 9, 1), EndDate: Date(2026, 1, 31)},
		{Year: 114, Number: 2, StartDate: Date(2026, 2, 23), EndDate: Date(2026, 6, 30)},
		{Year: 115, Number: 1, StartDate: Date(2026, 9, 1), EndDate: Date(2027, 1, 31)},
		{Year: 115, Number: 2, StartDate: Date(2027, 2, 1), EndDate: Date(2027, 6, 30)},
	}
}

// Get 查询学期
func (c *Calendar) Get(year, number int) (Semester, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.semesters[semesterKey{year, number}]
	return s, ok
}

// Upsert 新增或覆盖学期（幂等）
func (c *Calendar) Upsert(s Semester) {
	c.mu.Lock()
	c.semesters[semesterKey{s.Year, s.Number}] = normalizeSemester(s)
	c.mu.Unlock()
}

// UpsertBatch 在同一把锁内写入多个学期，读者不会看到中间状态
func (c *Calendar) UpsertBatch(semesters []Semester) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range semesters {
		c.semesters[semesterKey{s.Year, s.Number}] = normalizeSemester(s)
	}
}

// All 按 (学年, 学期) 升序返回全部学期的副本
func (c *Calendar) All() []Semester {
	c.mu.RLock()
	out := make([]Semester, 0, len(c.semesters))
	for _, s := range c.semesters {
		out = append(out, s)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Number < out[j].Number
	})
	return out
}

func normalizeSemester(s Semester) Semester {
	s.StartDate = CivilDate(s.StartDate)
	s.EndDate = CivilDate(s.EndDate)
	return s
}

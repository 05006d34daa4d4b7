package schedule

import (
	"strconv"
	"strings"
	"time"
)

// ── 课程行解析 ──────────────────────────────────────────────
//
// 一行表格数据（列名有多种写法）→ CourseRecord。
// 排课数据有两种来源，用 ScheduleInput 区分：
//   - Precise:     行内带学年、学期与节次记法，走 解析→展开→合并 流水线
//   - Approximate: 行内没有排课数据，由调用方提供全局学期起止日期，走旧版均分
// 行缺少课程名称、或两种来源都不可用时返回“无记录”，不会 panic。
// ─────────────────────────────────────────────────────────────

// Row 单行原始数据：列名 → 值
type Row map[string]string

// 逻辑字段与可接受列名，按优先级排列
var (
	nameAliases       = []string{"课程名称", "課程名稱", "Name", "name", "Title"}
	instructorAliases = []string{"教师", "教師", "Instructor", "instructor"}
	codeAliases       = []string{"课程代码", "課程代碼", "Code", "code"}
	yearAliases       = []string{"学年", "學年", "Year", "year"}
	semesterAliases   = []string{"学期", "學期", "Semester", "semester"}
	notationAliases   = []string{"上课时间", "上課時間", "Schedule", "schedule", "Time"}
	creditsAliases    = []string{"上课时数/学分", "上課時數/學分", "Credits", "credits"}
	hoursAliases      = []string{"Hours", "hours"}
)

// ScheduleInput 排课数据来源（Precise | Approximate）
type ScheduleInput interface {
	scheduleInput()
}

// Precise 精确排课：学年、学期与节次记法
type Precise struct {
	Year     int
	Semester int
	Notation string
}

// Approximate 旧版均分：调用方提供的全局学期起止日期
type Approximate struct {
	GlobalStart time.Time
	GlobalEnd   time.Time
}

func (Precise) scheduleInput()     {}
func (Approximate) scheduleInput() {}

// CourseRecord 解析后的课程
type CourseRecord struct {
	Name       string
	Instructor string
	Code       string
	Hours      *int
	Credits    *int
	Input      ScheduleInput
	Sessions   []ClassSession // 仅 Precise
	Display    string
}

// SemesterLabel Precise 返回 "114-1"，Approximate 返回空串
func (r CourseRecord) SemesterLabel() string {
	if p, ok := r.Input.(Precise); ok {
		return SemesterLabel(p.Year, p.Semester)
	}
	return ""
}

// RowOutcome 行解析结果；Record 为 nil 表示“无记录”
type RowOutcome struct {
	Record *CourseRecord
	Issues []Issue
}

// OK 是否产出记录
func (o RowOutcome) OK() bool { return o.Record != nil }

// InterpretRow 解析单行。fallback 为 nil 时不启用旧版均分。
func InterpretRow(row Row, fallback *Approximate) RowOutcome {
	name := strings.Trim(lookup(row, nameAliases), "/ ")
	if name == "" {
		return RowOutcome{Issues: []Issue{{Kind: IssueMalformedRow, Detail: "缺少课程名称"}}}
	}

	rec := &CourseRecord{
		Name:       name,
		Instructor: strings.Trim(lookup(row, instructorAliases), "/ "),
		Code:       lookup(row, codeAliases),
	}
	rec.Hours, rec.Credits = parseHoursCredits(lookup(row, creditsAliases))
	if h := lookup(row, hoursAliases); h != "" {
		if v, err := strconv.Atoi(h); err == nil {
			rec.Hours = &v
		}
	}

	yearStr := lookup(row, yearAliases)
	semStr := lookup(row, semesterAliases)
	notation := lookup(row, notationAliases)

	// "114-1" 形式的学期列：按第一个连字符拆分
	if y, s, ok := strings.Cut(semStr, "-"); ok {
		if yearStr == "" {
			yearStr = strings.TrimSpace(y)
		}
		semStr = strings.TrimSpace(s)
	}

	if yearStr == "" && semStr == "" && notation == "" {
		if fallback == nil {
			return RowOutcome{Issues: []Issue{{Kind: IssueMalformedRow, Input: name, Detail: "缺少排课数据且未提供全局学期日期"}}}
		}
		rec.Input = *fallback
		rec.Display = "无上课时间"
		return RowOutcome{Record: rec}
	}

	if yearStr == "" || semStr == "" || notation == "" {
		return RowOutcome{Issues: []Issue{{Kind: IssueMalformedRow, Input: name, Detail: "学年、学期与上课时间必须同时提供"}}}
	}

	year, errY := strconv.Atoi(yearStr)
	sem, errS := strconv.Atoi(semStr)
	if errY != nil || errS != nil {
		return RowOutcome{Issues: []Issue{{Kind: IssueMalformedRow, Input: yearStr + "-" + semStr, Detail: "无法解析学年或学期"}}}
	}

	parsed := Parse(notation)
	if parsed.Status == ParseEmpty {
		return RowOutcome{Issues: parsed.Issues}
	}

	rec.Input = Precise{Year: year, Semester: sem, Notation: notation}
	rec.Sessions = parsed.Sessions
	rec.Display = FormatScheduleDisplay(parsed.Sessions)
	return RowOutcome{Record: rec, Issues: parsed.Issues}
}

// Resolve 将课程记录解算为教学块
func Resolve(store SemesterStore, rec CourseRecord, exclude []time.Time) ([]TeachingBlock, []Issue) {
	switch in := rec.Input.(type) {
	case Precise:
		if _, ok := store.Get(in.Year, in.Semester); !ok {
			return nil, []Issue{{Kind: IssueSemesterNotFound, Input: SemesterLabel(in.Year, in.Semester), Detail: "学期不存在"}}
		}
		occ := GetClassDates(store, rec.Sessions, in.Year, in.Semester, exclude)
		return MergeOccurrences(occ), nil
	case Approximate:
		return LegacyBlocks(in.GlobalStart, in.GlobalEnd), nil
	default:
		return nil, []Issue{{Kind: IssueMalformedRow, Input: rec.Name, Detail: "缺少排课数据"}}
	}
}

// lookup 依次查找别名列，返回第一个非空值（已去除首尾空白）
func lookup(row Row, aliases []string) string {
	for _, key := range aliases {
		if v := strings.TrimSpace(row[key]); v != "" {
			return v
		}
	}
	return ""
}

// parseHoursCredits 解析 "3/3"（时数/学分）；单独的 "3" 只是时数
func parseHoursCredits(s string) (hours, credits *int) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, "/")
	if v, err := strconv.Atoi(strings.TrimSpace(parts[0])); err == nil {
		hours = &v
	}
	if len(parts) < 2 {
		return hours, nil
	}
	if v, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
		credits = &v
	}
	return hours, credits
}

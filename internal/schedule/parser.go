package schedule

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// ── 课程节次记法解析 ──────────────────────────────────────
//
// 文法：
//   schedule := group (',' group)*
//   group    := token+          （组内可用 '/' 分隔，也可直接相连）
//   token    := weekday period
//
// 每组产生至多一个 ClassSession：星期取组内第一个记号，节次取 min..max。
// 解析是全函数：任何输入都不会 panic，错误输入只会得到更少的 session。
// 全角数字、字母与标点（９、Ｍｏｎ、，、／）先转为半角再匹配。
// ─────────────────────────────────────────────────────────────

var tokenPattern = regexp.MustCompile(`([一二三四五六日a-zA-Z]+)(\d+)`)

// ClassSession 一周内的一次上课时段（由解析器生成，不持久化）
type ClassSession struct {
	Weekday     int       `json:"weekday"` // 0=星期一
	StartPeriod int       `json:"start_period"`
	EndPeriod   int       `json:"end_period"`
	StartTime   TimeOfDay `json:"-"`
	EndTime     TimeOfDay `json:"-"`
}

func newClassSession(weekday, startPeriod, endPeriod int) (ClassSession, bool) {
	if startPeriod > endPeriod {
		return ClassSession{}, false
	}
	first, ok := PeriodTime(startPeriod)
	if !ok {
		return ClassSession{}, false
	}
	last, ok := PeriodTime(endPeriod)
	if !ok {
		return ClassSession{}, false
	}
	return ClassSession{
		Weekday:     weekday,
		StartPeriod: startPeriod,
		EndPeriod:   endPeriod,
		StartTime:   first.Start,
		EndTime:     last.End,
	}, true
}

// String 例：星期三 第9-11节 (14:10-17:10)
func (s ClassSession) String() string {
	return fmt.Sprintf("%s 第%d-%d节 (%s-%s)",
		WeekdayCNLabel(s.Weekday), s.StartPeriod, s.EndPeriod, s.StartTime, s.EndTime)
}

// ParseStatus 整体解析结果状态
type ParseStatus string

const (
	ParseComplete ParseStatus = "complete" // 所有组均产出 session 且无告警
	ParsePartial  ParseStatus = "partial"  // 至少一个 session，但有组被丢弃或有告警
	ParseEmpty    ParseStatus = "empty"    // 没有任何 session
)

// ParseResult 带诊断信息的解析结果
type ParseResult struct {
	Sessions []ClassSession `json:"sessions"`
	Status   ParseStatus    `json:"status"`
	Issues   []Issue        `json:"issues,omitempty"`
}

// ParseSchedule 解析节次记法，返回按 (星期, 开始节次) 排序的 session 列表
func ParseSchedule(notation string) []ClassSession {
	return Parse(notation).Sessions
}

// Parse 与 ParseSchedule 相同，但同时返回状态与逐组问题
func Parse(notation string) ParseResult {
	var (
		sessions []ClassSession
		issues   []Issue
	)

	normalized := width.Narrow.String(notation)
	for _, group := range strings.Split(normalized, ",") {
		group = strings.TrimSpace(group)
		sess, groupIssues := parseGroup(group)
		issues = append(issues, groupIssues...)
		if sess != nil {
			sessions = append(sessions, *sess)
		}
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		if sessions[i].Weekday != sessions[j].Weekday {
			return sessions[i].Weekday < sessions[j].Weekday
		}
		return sessions[i].StartPeriod < sessions[j].StartPeriod
	})

	res := ParseResult{Sessions: sessions, Issues: issues}
	switch {
	case len(sessions) == 0:
		res.Status = ParseEmpty
		if len(issues) == 0 {
			res.Issues = []Issue{{Kind: IssueEmptyNotation, Input: notation, Detail: "未找到任何星期+节次记号"}}
		}
	case len(issues) > 0:
		res.Status = ParsePartial
	default:
		res.Status = ParseComplete
	}
	return res
}

// parseGroup 解析单个逗号分组
func parseGroup(group string) (*ClassSession, []Issue) {
	matches := tokenPattern.FindAllStringSubmatch(group, -1)
	if len(matches) == 0 {
		if group == "" {
			return nil, nil
		}
		return nil, []Issue{{Kind: IssueEmptyNotation, Input: group, Detail: "分组中没有记号"}}
	}

	weekday, ok := ResolveWeekday(matches[0][1])
	if !ok {
		return nil, []Issue{{Kind: IssueUnresolvableToken, Input: matches[0][1], Detail: "无法识别的星期"}}
	}

	var issues []Issue
	minP, maxP := 0, 0
	for i, m := range matches {
		if i > 0 && m[1] != matches[0][1] {
			if other, ok := ResolveWeekday(m[1]); !ok || other != weekday {
				issues = append(issues, Issue{Kind: IssueMixedWeekday, Input: m[0], Detail: "组内星期不一致，按第一个星期处理"})
			}
		}
		p, err := strconv.Atoi(m[2])
		if err != nil {
			// 超长数字串，视为越界节次
			p = -1
		}
		if i == 0 || p < minP {
			minP = p
		}
		if i == 0 || p > maxP {
			maxP = p
		}
	}

	sess, ok := newClassSession(weekday, minP, maxP)
	if !ok {
		issues = append(issues, Issue{
			Kind:   IssueUnresolvableToken,
			Input:  group,
			Detail: fmt.Sprintf("节次 %d-%d 超出 %d-%d", minP, maxP, MinPeriod, MaxPeriod),
		})
		return nil, issues
	}
	return &sess, issues
}

// FormatScheduleDisplay 将 session 列表格式化为展示字符串
func FormatScheduleDisplay(sessions []ClassSession) string {
	if len(sessions) == 0 {
		return "无上课时间"
	}
	parts := make([]string, len(sessions))
	for i, s := range sessions {
		parts[i] = s.String()
	}
	return strings.Join(parts, " | ")
}

package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/chinkunlim/Project-Synapse/internal/schedule"
)

// ── 学期日历 ICS 解析 ──────────────────────────────────────
//
// 从学校公开日历的 VEVENT 标题中识别学期起止事件：
//   A: "114-1-开始" / "114-1-结束" / "114-1-start" / "114-1-end"（不区分大小写）
//   B: "108學年度第一學期開始"（学年与学期取自标题，视为开始）
//   C: "第1學期結束"（无学年，按事件日期推算民国学年，视为结束）
// 只取 DTSTART 的日期部分（YYYYMMDD），忽略时刻与时区。
// ─────────────────────────────────────────────────────────────

const (
	icsMaxFileSize  = 5 * 1024 * 1024 // 5MB
	icsFetchTimeout = 30 * time.Second
)

var (
	patternRangeEvent = regexp.MustCompile(`(?i)^(\d+)-([12])-(开始|開始|结束|結束|start|end)`)
	patternYearStart  = regexp.MustCompile(`^(\d{3})[學学]年度第?([一二12])[學学]期`)
	patternTermEnd    = regexp.MustCompile(`(?i)^第?([一二12])[學学]期(結束|结束|終止|终止|end)`)
	patternDateDigits = regexp.MustCompile(`(\d{8})`)
)

// semesterKey 学年 + 学期
type semesterKey struct {
	Year   int
	Number int
}

// semesterBounds 日历中收集到的学期边界，缺失时为 nil
type semesterBounds struct {
	Start *time.Time
	End   *time.Time
}

// FetchICSContent 从 URL 获取 ICS 内容
func FetchICSContent(ctx context.Context, rawURL string, timeout time.Duration) (io.ReadCloser, error) {
	// webcal:// → https://
	u := rawURL
	if strings.HasPrefix(u, "webcal://") {
		u = "https://" + strings.TrimPrefix(u, "webcal://")
	}
	if timeout <= 0 {
		timeout = icsFetchTimeout
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("构造 ICS 请求失败: %w", err)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("获取 ICS 失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("获取 ICS 失败: HTTP %d", resp.StatusCode)
	}
	// 限制响应体大小，防止恶意 URL 返回超大内容导致 OOM
	return struct {
		io.Reader
		io.Closer
	}{
		Reader: io.LimitReader(resp.Body, icsMaxFileSize),
		Closer: resp.Body,
	}, nil
}

// ExtractSemesterBounds 解析 ICS 内容，按学期收集起止日期
func ExtractSemesterBounds(reader io.Reader) (map[semesterKey]*semesterBounds, error) {
	cal, err := ics.ParseCalendar(reader)
	if err != nil {
		return nil, fmt.Errorf("ICS 格式解析失败: %w", err)
	}

	bounds := make(map[semesterKey]*semesterBounds)
	for _, evt := range cal.Events() {
		summary := evt.GetProperty(ics.ComponentPropertySummary)
		if summary == nil {
			continue
		}
		date, ok := eventDate(evt)
		if !ok {
			continue
		}
		classifySemesterEvent(strings.TrimSpace(summary.Value), date, bounds)
	}
	return bounds, nil
}

// classifySemesterEvent 识别单个事件标题，命中时写入 bounds
func classifySemesterEvent(summary string, date time.Time, bounds map[semesterKey]*semesterBounds) bool {
	if m := patternRangeEvent.FindStringSubmatch(summary); m != nil {
		year, _ := strconv.Atoi(m[1])
		number, _ := strconv.Atoi(m[2])
		kind := strings.ToLower(m[3])
		isStart := kind == "开始" || kind == "開始" || kind == "start"
		storeBound(bounds, semesterKey{year, number}, date, isStart)
		return true
	}

	if m := patternYearStart.FindStringSubmatch(summary); m != nil {
		year, _ := strconv.Atoi(m[1])
		storeBound(bounds, semesterKey{year, termNumber(m[2])}, date, true)
		return true
	}

	if m := patternTermEnd.FindStringSubmatch(summary); m != nil {
		number := termNumber(m[1])
		storeBound(bounds, semesterKey{inferROCYear(date, number), number}, date, false)
		return true
	}

	return false
}

// ValidSemesters 过滤出起止齐全且开始早于结束的学期，按 (学年, 学期) 排序
func ValidSemesters(bounds map[semesterKey]*semesterBounds) (valid []schedule.Semester, skipped int) {
	for key, b := range bounds {
		if b.Start == nil || b.End == nil || !b.Start.Before(*b.End) {
			skipped++
			continue
		}
		valid = append(valid, schedule.Semester{
			Year:      key.Year,
			Number:    key.Number,
			StartDate: *b.Start,
			EndDate:   *b.End,
		})
	}
	sort.Slice(valid, func(i, j int) bool {
		if valid[i].Year != valid[j].Year {
			return valid[i].Year < valid[j].Year
		}
		return valid[i].Number < valid[j].Number
	})
	return valid, skipped
}

// ── 辅助函数 ──

func storeBound(bounds map[semesterKey]*semesterBounds, key semesterKey, date time.Time, isStart bool) {
	b, ok := bounds[key]
	if !ok {
		b = &semesterBounds{}
		bounds[key] = b
	}
	d := date
	if isStart {
		b.Start = &d
	} else {
		b.End = &d
	}
}

func termNumber(token string) int {
	if token == "一" || token == "1" {
		return 1
	}
	return 2
}

// inferROCYear 由公历日期推算民国学年：
// 第 1 学期 8 月及以后属于当年学年，否则属于上一学年；第 2 学期总是上一学年。
func inferROCYear(date time.Time, number int) int {
	if number == 1 && date.Month() >= time.August {
		return date.Year() - 1911
	}
	return date.Year() - 1912
}

// eventDate 取 DTSTART 中的 YYYYMMDD 作为 UTC+8 日期
func eventDate(evt *ics.VEvent) (time.Time, bool) {
	prop := evt.GetProperty(ics.ComponentPropertyDtStart)
	if prop == nil {
		return time.Time{}, false
	}
	m := patternDateDigits.FindString(prop.Value)
	if m == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation("20060102", m, schedule.Location)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

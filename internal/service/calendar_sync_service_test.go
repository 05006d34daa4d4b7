package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chinkunlim/Project-Synapse/config"
	"github.com/chinkunlim/Project-Synapse/internal/model"
	"github.com/chinkunlim/Project-Synapse/internal/schedule"
	apperrors "github.com/chinkunlim/Project-Synapse/pkg/errors"
)

// ── 测试辅助 ──

func icsEvent(uid, date, summary string) string {
	return strings.Join([]string{
		"BEGIN:VEVENT",
		"UID:" + uid,
		"DTSTAMP:20250101T000000Z",
		"DTSTART;VALUE=DATE:" + date,
		"SUMMARY:" + summary,
		"END:VEVENT",
	}, "\r\n")
}

func icsCalendar(events ...string) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//School//Calendar//ZH",
	}
	lines = append(lines, events...)
	lines = append(lines, "END:VCALENDAR", "")
	return strings.Join(lines, "\r\n")
}

// schoolCalendar 含两个有效学期、一个起止颠倒的学期、一个缺少结束的学期
var schoolCalendar = icsCalendar(
	icsEvent("e1", "20250908", "114-1-开始"),
	icsEvent("e2", "20260116", "114-1-結束"),
	icsEvent("e3", "20260907", "115學年度第一學期開始"),
	icsEvent("e4", "20270115", "第1學期結束"),
	icsEvent("e5", "20260620", "114-2-start"),
	icsEvent("e6", "20260223", "114-2-END"),
	icsEvent("e7", "20270901", "116-1-start"),
	icsEvent("e8", "20251111", "校慶"),
)

func newICSServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/calendar")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setupTestCalendarSync(store SyncStore, url string) (CalendarSyncService, *testDeps) {
	d := newTestDeps()
	semSvc := NewSemesterService(d.repo, d.calendar, d.logger)
	cfg := &config.CalendarConfig{ICalURL: url, LockTTL: time.Minute, FetchTimeout: 5 * time.Second}
	return NewCalendarSyncService(cfg, semSvc, store, d.logger), d
}

// ── Sync ──

func TestCalendarSync_AppliesValidSemesters(t *testing.T) {
	srv := newICSServer(t, schoolCalendar, http.StatusOK)
	store := newMockSyncStore()
	svc, d := setupTestCalendarSync(store, srv.URL)

	resp, err := svc.Sync(context.Background(), "")
	if err != nil {
		t.Fatalf("Sync 应成功: %v", err)
	}
	if len(resp.Applied) != 2 {
		t.Fatalf("期望写入 2 个学期，实际 %d", len(resp.Applied))
	}
	if resp.Skipped != 2 {
		t.Errorf("期望跳过 2 个学期，实际 %d", resp.Skipped)
	}
	if resp.Applied[0].Label != "114-1" || resp.Applied[1].Label != "115-1" {
		t.Errorf("写入顺序不符: %s, %s", resp.Applied[0].Label, resp.Applied[1].Label)
	}

	sem, _ := d.calendar.Get(114, 1)
	if !sem.StartDate.Equal(schedule.Date(2025, 9, 8)) || !sem.EndDate.Equal(schedule.Date(2026, 1, 16)) {
		t.Errorf("114-1 日期不符: %s", sem)
	}
	sem, _ = d.calendar.Get(115, 1)
	if !sem.EndDate.Equal(schedule.Date(2027, 1, 15)) {
		t.Errorf("115-1 结束日期不符: %s", sem)
	}

	// 起止颠倒的学期保持默认值
	sem, _ = d.calendar.Get(114, 2)
	if !sem.StartDate.Equal(schedule.Date(2026, 2, 23)) {
		t.Errorf("114-2 不应被覆盖: %s", sem)
	}

	stored, err := d.semesters.Get(context.Background(), 115, 1)
	if err != nil || stored.Source != model.SemesterSourceICal {
		t.Errorf("115-1 应以 ical 来源持久化, err=%v", err)
	}

	if store.locks != 1 {
		t.Errorf("期望加锁 1 次，实际 %d", store.locks)
	}
	status, _ := svc.Status(context.Background())
	if !status.Available || status.LastSyncedAt == nil {
		t.Error("同步后应记录最近同步时间")
	}
}

func TestCalendarSync_ExplicitURLOverridesConfig(t *testing.T) {
	srv := newICSServer(t, schoolCalendar, http.StatusOK)
	svc, _ := setupTestCalendarSync(nil, "http://127.0.0.1:1/unused.ics")

	resp, err := svc.Sync(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Sync 应成功: %v", err)
	}
	if len(resp.Applied) != 2 {
		t.Errorf("期望写入 2 个学期，实际 %d", len(resp.Applied))
	}
}

func TestCalendarSync_URLMissing(t *testing.T) {
	svc, _ := setupTestCalendarSync(nil, "")
	_, err := svc.Sync(context.Background(), "")
	if !errors.Is(err, ErrCalendarURLMissing) {
		t.Errorf("期望 ErrCalendarURLMissing，实际 %v", err)
	}
}

func TestCalendarSync_FetchFailed(t *testing.T) {
	srv := newICSServer(t, "not found", http.StatusNotFound)
	svc, d := setupTestCalendarSync(nil, srv.URL)

	_, err := svc.Sync(context.Background(), "")
	if !errors.Is(err, ErrCalendarFetchFailed) {
		t.Errorf("期望 ErrCalendarFetchFailed，实际 %v", err)
	}
	if len(d.calendar.All()) != len(schedule.DefaultSemesters()) {
		t.Error("获取失败时学期表不应变化")
	}
}

func TestCalendarSync_NoMatchingEvents(t *testing.T) {
	srv := newICSServer(t, icsCalendar(icsEvent("x", "20251010", "國慶日")), http.StatusOK)
	svc, _ := setupTestCalendarSync(nil, srv.URL)

	resp, err := svc.Sync(context.Background(), "")
	if err != nil {
		t.Fatalf("Sync 应成功: %v", err)
	}
	if len(resp.Applied) != 0 || resp.Skipped != 0 {
		t.Errorf("期望无写入无跳过，实际 applied=%d skipped=%d", len(resp.Applied), resp.Skipped)
	}
}

func TestCalendarSync_LockHeld(t *testing.T) {
	srv := newICSServer(t, schoolCalendar, http.StatusOK)
	store := newMockSyncStore()
	store.held = true
	svc, d := setupTestCalendarSync(store, srv.URL)

	_, err := svc.Sync(context.Background(), "")
	if !errors.Is(err, apperrors.ErrLockNotAcquired) {
		t.Errorf("期望 ErrLockNotAcquired，实际 %v", err)
	}
	sem, _ := d.calendar.Get(114, 1)
	if !sem.StartDate.Equal(schedule.Date(2025, 9, 1)) {
		t.Error("未获得锁时不应写入学期")
	}
}

func TestCalendarSync_StatusWithoutStore(t *testing.T) {
	svc, _ := setupTestCalendarSync(nil, "")
	status, err := svc.Status(context.Background())
	if err != nil {
		t.Fatalf("Status 应成功: %v", err)
	}
	if status.Available {
		t.Error("未配置 Redis 时 Available 应为 false")
	}
}

// ── ICS 解析 ──

func TestClassifySemesterEvent(t *testing.T) {
	tests := []struct {
		summary string
		date    time.Time
		want    semesterKey
		isStart bool
		matched bool
	}{
		{"114-1-开始", schedule.Date(2025, 9, 1), semesterKey{114, 1}, true, true},
		{"114-2-結束", schedule.Date(2026, 6, 30), semesterKey{114, 2}, false, true},
		{"113-1-Start 开学", schedule.Date(2024, 9, 2), semesterKey{113, 1}, true, true},
		{"108學年度第一學期開始", schedule.Date(2019, 9, 9), semesterKey{108, 1}, true, true},
		{"108学年度第2学期", schedule.Date(2020, 2, 17), semesterKey{108, 2}, true, true},
		{"第一學期結束", schedule.Date(2020, 1, 17), semesterKey{108, 1}, false, true},
		{"第2學期終止", schedule.Date(2020, 6, 30), semesterKey{108, 2}, false, true},
		{"校慶", schedule.Date(2019, 11, 11), semesterKey{}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.summary, func(t *testing.T) {
			bounds := make(map[semesterKey]*semesterBounds)
			matched := classifySemesterEvent(tt.summary, tt.date, bounds)
			if matched != tt.matched {
				t.Fatalf("期望 matched=%v，实际 %v", tt.matched, matched)
			}
			if !matched {
				return
			}
			b, ok := bounds[tt.want]
			if !ok {
				t.Fatalf("期望写入 %v，实际 %v", tt.want, bounds)
			}
			if tt.isStart && (b.Start == nil || b.End != nil) {
				t.Error("期望写入开始日期")
			}
			if !tt.isStart && (b.End == nil || b.Start != nil) {
				t.Error("期望写入结束日期")
			}
		})
	}
}

func TestInferROCYear(t *testing.T) {
	tests := []struct {
		date   time.Time
		number int
		want   int
	}{
		{schedule.Date(2025, 9, 1), 1, 114},
		{schedule.Date(2025, 8, 1), 1, 114},
		{schedule.Date(2026, 1, 16), 1, 114},
		{schedule.Date(2026, 6, 30), 2, 114},
		{schedule.Date(2026, 2, 1), 2, 114},
	}
	for _, tt := range tests {
		if got := inferROCYear(tt.date, tt.number); got != tt.want {
			t.Errorf("%s 第 %d 学期: 期望 %d，实际 %d", tt.date.Format(schedule.DateLayout), tt.number, tt.want, got)
		}
	}
}

func TestExtractSemesterBounds_DateTimeStart(t *testing.T) {
	cal := icsCalendar(
		strings.Join([]string{
			"BEGIN:VEVENT",
			"UID:t1",
			"DTSTAMP:20250101T000000Z",
			"DTSTART;TZID=Asia/Taipei:20250908T080000",
			"SUMMARY:114-1-start",
			"END:VEVENT",
		}, "\r\n"),
		icsEvent("t2", "20260116", "114-1-end"),
	)
	bounds, err := ExtractSemesterBounds(strings.NewReader(cal))
	if err != nil {
		t.Fatalf("解析应成功: %v", err)
	}
	valid, skipped := ValidSemesters(bounds)
	if len(valid) != 1 || skipped != 0 {
		t.Fatalf("期望 1 个有效学期，实际 valid=%d skipped=%d", len(valid), skipped)
	}
	if !valid[0].StartDate.Equal(schedule.Date(2025, 9, 8)) {
		t.Errorf("期望开始日期 2025-09-08，实际 %s", valid[0].StartDate.Format(schedule.DateLayout))
	}
}

func TestFetchICSContent_Webcal(t *testing.T) {
	// webcal:// 被改写为 https://，对明文测试服务器会连接失败
	_, err := FetchICSContent(context.Background(), "webcal://127.0.0.1:1/cal.ics", time.Second)
	if err == nil {
		t.Error("期望连接失败")
	}
}

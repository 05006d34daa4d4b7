package schedule

import "time"

// 星期索引：0=星期一 … 6=星期日
var weekdayTokens = map[string]int{
	"一": 0, "二": 1, "三": 2, "四": 3, "五": 4, "六": 5, "日": 6,
	"Mon": 0, "Monday": 0,
	"Tue": 1, "Tuesday": 1,
	"Wed": 2, "Wednesday": 2,
	"Thu": 3, "Thursday": 3,
	"Fri": 4, "Friday": 4,
	"Sat": 5, "Saturday": 5,
	"Sun": 6, "Sunday": 6,
}

var (
	weekdayLabels   = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	weekdayCNLabels = [7]string{"星期一", "星期二", "星期三", "星期四", "星期五", "星期六", "星期日"}
)

// ResolveWeekday 将星期记号解析为 0..6；无法识别时 ok=false（精确匹配，区分大小写）
func ResolveWeekday(token string) (int, bool) {
	idx, ok := weekdayTokens[token]
	return idx, ok
}

// WeekdayLabel 三字母英文星期名，越界返回空串
func WeekdayLabel(idx int) string {
	if idx < 0 || idx > 6 {
		return ""
	}
	return weekdayLabels[idx]
}

// WeekdayCNLabel 中文星期名
func WeekdayCNLabel(idx int) string {
	if idx < 0 || idx > 6 {
		return ""
	}
	return weekdayCNLabels[idx]
}

// WeekdayOf 将 time.Weekday（0=Sunday）转为本包的星期索引（0=Monday）
func WeekdayOf(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

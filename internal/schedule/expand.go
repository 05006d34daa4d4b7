package schedule

import "time"

// DateLayout 日期文本格式
const DateLayout = "2006-01-02"

// ParseDate 以 UTC+8 解析 YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, Location)
}

// Occurrence 某个 ClassSession 在学期内的一次具体上课
type Occurrence struct {
	Date        time.Time
	Weekday     int
	StartTime   TimeOfDay
	EndTime     TimeOfDay
	StartPeriod int
	EndPeriod   int
}

// GetClassDates 将 session 展开到学期区间内的每一个匹配日期。
//
// 学期不存在时返回空。输出按日期为主、session 为辅的顺序排列；
// exclude 中的日期（按民用日期比较）被跳过。
func GetClassDates(store SemesterStore, sessions []ClassSession, year, number int, exclude []time.Time) []Occurrence {
	sem, ok := store.Get(year, number)
	if !ok {
		return nil
	}
	return expandRange(sessions, sem.StartDate, sem.EndDate, exclude)
}

func expandRange(sessions []ClassSession, start, end time.Time, exclude []time.Time) []Occurrence {
	if len(sessions) == 0 {
		return nil
	}

	skip := make(map[string]struct{}, len(exclude))
	for _, d := range exclude {
		skip[CivilDate(d).Format(DateLayout)] = struct{}{}
	}

	var out []Occurrence
	last := CivilDate(end)
	for day := CivilDate(start); !day.After(last); day = day.AddDate(0, 0, 1) {
		wd := WeekdayOf(day)
		for _, s := range sessions {
			if s.Weekday != wd {
				continue
			}
			if _, excluded := skip[day.Format(DateLayout)]; excluded {
				continue
			}
			out = append(out, Occurrence{
				Date:        day,
				Weekday:     wd,
				StartTime:   s.StartTime,
				EndTime:     s.EndTime,
				StartPeriod: s.StartPeriod,
				EndPeriod:   s.EndPeriod,
			})
		}
	}
	return out
}

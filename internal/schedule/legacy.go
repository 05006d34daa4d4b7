package schedule

import "time"

// LegacySessionCount 旧版均分模式固定生成的堂数
const LegacySessionCount = 18

// LegacyBlocks 旧版均分模式：没有精确节次数据时，
// 在全局学期区间内按 floor(总周数/18) 周（至少 1 周）的间隔生成 18 个无时刻教学块，
// 超出结束日期的块钳制到结束日期。结束日期早于开始日期时返回空。
func LegacyBlocks(start, end time.Time) []TeachingBlock {
	start, end = CivilDate(start), CivilDate(end)
	if end.Before(start) {
		return nil
	}

	totalWeeks := end.Sub(start).Hours() / 24 / 7
	step := int(totalWeeks / LegacySessionCount)
	if step < 1 {
		step = 1
	}

	blocks := make([]TeachingBlock, 0, LegacySessionCount)
	for n := 1; n <= LegacySessionCount; n++ {
		date := start.AddDate(0, 0, (n-1)*step*7)
		if date.After(end) {
			date = end
		}
		blocks = append(blocks, TeachingBlock{Date: date, WeekIndex: n})
	}
	return blocks
}

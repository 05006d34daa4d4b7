package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/chinkunlim/Project-Synapse/internal/model"
	"github.com/chinkunlim/Project-Synapse/internal/repository"
	"github.com/chinkunlim/Project-Synapse/internal/schedule"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoCourses    = errors.New("该范围内暂无课程")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
	ErrExportScopeInvalid = errors.New("导出范围无效：需提供完整的学年与学期，或导入批次")
)

// ExportScope 导出范围：学年+学期，或一次导入的批次，二者可叠加
//
// 未指定学期的均分课程只能按批次导出。
type ExportScope struct {
	Year    int
	Number  int
	BatchID string
}

// Validate 至少给出完整学期或批次之一
func (s ExportScope) Validate() error {
	if s.Year == 0 && s.Number == 0 {
		if s.BatchID == "" {
			return ErrExportScopeInvalid
		}
		return nil
	}
	if s.Year < 1 || (s.Number != 1 && s.Number != 2) {
		return ErrExportScopeInvalid
	}
	return nil
}

func (s ExportScope) filter() repository.CourseFilter {
	var f repository.CourseFilter
	if s.Year > 0 {
		year, number := s.Year, s.Number
		f.AcademicYear = &year
		f.SemesterNumber = &number
	}
	if s.BatchID != "" {
		batchID := s.BatchID
		f.BatchID = &batchID
	}
	return f
}

// Label 用于文件名与标题：114-1、batch-1a2b3c4d 或二者拼接
func (s ExportScope) Label() string {
	var parts []string
	if s.Year > 0 {
		parts = append(parts, schedule.SemesterLabel(s.Year, s.Number))
	}
	if s.BatchID != "" {
		short := s.BatchID
		if len(short) > 8 {
			short = short[:8]
		}
		parts = append(parts, "batch-"+short)
	}
	return strings.Join(parts, "_")
}

// ExportService 导出业务接口
//
// 导出以内存缓冲返回，由 Handler 层设置 HTTP 响应头后写入 Response。
type ExportService interface {
	// ExportXLSX 每个教学块一行
	ExportXLSX(ctx context.Context, scope ExportScope) (*bytes.Buffer, string, error)
	// ExportICS 每个教学块一个 VEVENT；均分模式的块为全天事件
	ExportICS(ctx context.Context, scope ExportScope) ([]byte, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) loadCourses(ctx context.Context, scope ExportScope) ([]model.Course, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	courses, err := s.repo.Course.ListWithBlocks(ctx, scope.filter())
	if err != nil {
		s.logger.Error("查询课程失败", zap.String("scope", scope.Label()), zap.Error(err))
		return nil, err
	}
	if len(courses) == 0 {
		return nil, ErrExportNoCourses
	}
	return courses, nil
}

// ═══════════════════════════════════════════════════════════
// ExportXLSX
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 第 1 行：标题（导出范围）
//   - 第 2 行：表头
//   - 之后每个教学块一行，按课程名、日期排序

var xlsxHeaders = []string{"课程", "课程代码", "教师", "学期", "周次", "星期", "日期", "开始", "结束"}

func (s *exportService) ExportXLSX(ctx context.Context, scope ExportScope) (*bytes.Buffer, string, error) {
	courses, err := s.loadCourses(ctx, scope)
	if err != nil {
		return nil, "", err
	}
	label := scope.Label()

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "教学块"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	// 设置列宽
	f.SetColWidth(sheetName, "A", "A", 28)
	f.SetColWidth(sheetName, "B", "C", 14)
	f.SetColWidth(sheetName, "D", "F", 8)
	f.SetColWidth(sheetName, "G", "G", 12)
	f.SetColWidth(sheetName, "H", "I", 8)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s 教学块", label))
	f.MergeCell(sheetName, "A1", cell(colName(len(xlsxHeaders)-1), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	for i, h := range xlsxHeaders {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheetName, "A2", cell(colName(len(xlsxHeaders)-1), 2), headerStyle)

	// 数据行
	row := 3
	for _, c := range courses {
		semester := courseSemesterLabel(&c)
		for _, b := range c.Blocks {
			tb := toTeachingBlock(b)
			start, end := "", ""
			if tb.HasTime {
				start, end = tb.StartTime.String(), tb.EndTime.String()
			}
			values := []interface{}{
				c.Name, c.Code, c.Instructor, semester, tb.WeekIndex,
				schedule.WeekdayCNLabel(tb.Weekday()), tb.Date.Format(schedule.DateLayout), start, end,
			}
			for i, v := range values {
				f.SetCellValue(sheetName, cell(colName(i), row), v)
			}
			row++
		}
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("课程教学块_%s.xlsx", label)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportICS
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportICS(ctx context.Context, scope ExportScope) ([]byte, string, error) {
	courses, err := s.loadCourses(ctx, scope)
	if err != nil {
		return nil, "", err
	}
	label := scope.Label()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Synapse//Course Blocks//ZH")
	cal.SetName(fmt.Sprintf("%s 课程", label))
	cal.SetXWRCalName(fmt.Sprintf("%s 课程", label))
	cal.SetXWRTimezone("Asia/Taipei")

	now := time.Now()
	for _, c := range courses {
		description := courseDescription(&c)
		for _, b := range c.Blocks {
			tb := toTeachingBlock(b)

			evt := cal.AddEvent(blockUID(b))
			evt.SetDtStampTime(now)
			evt.SetSummary(fmt.Sprintf("%s（第%d周）", c.Name, tb.WeekIndex))
			if description != "" {
				evt.SetDescription(description)
			}
			if tb.HasTime {
				evt.SetStartAt(tb.StartAt())
				evt.SetEndAt(tb.EndAt())
			} else {
				evt.SetAllDayStartAt(tb.Date)
				evt.SetAllDayEndAt(tb.Date.AddDate(0, 0, 1))
			}
		}
	}

	filename := fmt.Sprintf("courses_%s.ics", label)
	return []byte(cal.Serialize()), filename, nil
}

// ── 辅助函数 ──

// blockUID 由教学块 ID 派生稳定的事件 UID，重复导出时日历客户端可去重
func blockUID(b model.CourseBlock) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("synapse:block:"+b.BlockID)).String() + "@synapse"
}

func courseDescription(c *model.Course) string {
	var parts []string
	if c.Code != "" {
		parts = append(parts, "课程代码: "+c.Code)
	}
	if c.Instructor != "" {
		parts = append(parts, "教师: "+c.Instructor)
	}
	if c.Display != "" {
		parts = append(parts, "上课时间: "+c.Display)
	}
	return strings.Join(parts, "\n")
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chinkunlim/Project-Synapse/internal/dto"
	"github.com/chinkunlim/Project-Synapse/internal/model"
	"github.com/chinkunlim/Project-Synapse/internal/repository"
	"github.com/chinkunlim/Project-Synapse/internal/schedule"
)

// ── 课程模块业务错误 ──

var (
	ErrCourseNotFound     = errors.New("课程不存在")
	ErrExcludeDateInvalid = errors.New("排除日期格式无效，应为 YYYY-MM-DD")
)

// CourseService 课程查询与节次预览接口
type CourseService interface {
	// Preview 解析记法并展开为教学块，不落库
	Preview(ctx context.Context, req *dto.PreviewScheduleRequest) (*dto.PreviewScheduleResponse, error)
	Periods() []dto.PeriodResponse
	Get(ctx context.Context, id string) (*dto.CourseResponse, error)
	List(ctx context.Context, req *dto.CourseListRequest) ([]dto.CourseResponse, int64, error)
	Blocks(ctx context.Context, id string) (*dto.CourseBlocksResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type courseService struct {
	repo     *repository.Repository
	calendar schedule.SemesterStore
	logger   *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, cal schedule.SemesterStore, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, calendar: cal, logger: logger}
}

// ────────────────────── Preview ──────────────────────

func (s *courseService) Preview(_ context.Context, req *dto.PreviewScheduleRequest) (*dto.PreviewScheduleResponse, error) {
	exclude, err := parseDateList(req.ExcludeDates)
	if err != nil {
		return nil, err
	}

	parsed := schedule.Parse(req.Notation)
	resp := &dto.PreviewScheduleResponse{
		Display:  schedule.FormatScheduleDisplay(parsed.Sessions),
		Status:   string(parsed.Status),
		Sessions: toSessionResponses(parsed.Sessions),
		Issues:   parsed.Issues,
		Blocks:   []schedule.BlockView{},
	}
	if parsed.Status == schedule.ParseEmpty {
		return resp, nil
	}

	rec := schedule.CourseRecord{
		Input:    schedule.Precise{Year: req.Year, Semester: req.Semester, Notation: req.Notation},
		Sessions: parsed.Sessions,
	}
	blocks, issues := schedule.Resolve(s.calendar, rec, exclude)
	resp.Issues = append(resp.Issues, issues...)
	resp.Blocks = schedule.Views(blocks, schedule.SemesterLabel(req.Year, req.Semester))
	return resp, nil
}

// ────────────────────── Periods ──────────────────────

func (s *courseService) Periods() []dto.PeriodResponse {
	spans := schedule.Periods()
	result := make([]dto.PeriodResponse, len(spans))
	for i, span := range spans {
		result[i] = dto.PeriodResponse{
			Period: schedule.MinPeriod + i,
			Start:  span.Start.String(),
			End:    span.End.String(),
		}
	}
	return result
}

// ────────────────────── Get / List ──────────────────────

func (s *courseService) Get(ctx context.Context, id string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := toCourseResponse(course)
	return &resp, nil
}

func (s *courseService) List(ctx context.Context, req *dto.CourseListRequest) ([]dto.CourseResponse, int64, error) {
	filter := repository.CourseFilter{AcademicYear: req.Year, SemesterNumber: req.Term}
	courses, total, err := s.repo.Course.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询课程列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		result = append(result, toCourseResponse(&courses[i]))
	}
	return result, total, nil
}

// ────────────────────── Blocks ──────────────────────

func (s *courseService) Blocks(ctx context.Context, id string) (*dto.CourseBlocksResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	blocks, err := s.repo.Course.ListBlocks(ctx, id)
	if err != nil {
		s.logger.Error("查询教学块失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	label := courseSemesterLabel(course)
	views := make([]schedule.BlockView, 0, len(blocks))
	for _, b := range blocks {
		views = append(views, toTeachingBlock(b).View(label))
	}

	course.Blocks = blocks
	return &dto.CourseBlocksResponse{Course: toCourseResponse(course), Blocks: views}, nil
}

// ────────────────────── Delete ──────────────────────

func (s *courseService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Course.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if err := s.repo.Course.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除课程失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 辅助函数 ──

// parseDateList 解析 YYYY-MM-DD 列表，忽略空白项
func parseDateList(items []string) ([]time.Time, error) {
	var dates []time.Time
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		d, err := schedule.ParseDate(item)
		if err != nil {
			return nil, ErrExcludeDateInvalid
		}
		dates = append(dates, d)
	}
	return dates, nil
}

func toSessionResponses(sessions []schedule.ClassSession) []dto.SessionResponse {
	result := make([]dto.SessionResponse, len(sessions))
	for i, s := range sessions {
		result[i] = dto.SessionResponse{
			Weekday:     schedule.WeekdayLabel(s.Weekday),
			StartPeriod: s.StartPeriod,
			EndPeriod:   s.EndPeriod,
			StartTime:   s.StartTime.String(),
			EndTime:     s.EndTime.String(),
		}
	}
	return result
}

func courseSemesterLabel(c *model.Course) string {
	if c.AcademicYear == nil || c.SemesterNumber == nil {
		return ""
	}
	return schedule.SemesterLabel(*c.AcademicYear, *c.SemesterNumber)
}

func toCourseResponse(c *model.Course) dto.CourseResponse {
	return dto.CourseResponse{
		ID:          c.CourseID,
		Name:        c.Name,
		Code:        c.Code,
		Instructor:  c.Instructor,
		Hours:       c.Hours,
		Credits:     c.Credits,
		Mode:        c.Mode,
		Semester:    courseSemesterLabel(c),
		Notation:    c.Notation,
		Display:     c.Display,
		ParseStatus: c.ParseStatus,
		BatchID:     c.BatchID,
		BlockCount:  len(c.Blocks),
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
	}
}

// toTeachingBlock 将持久化的教学块还原为引擎类型
func toTeachingBlock(b model.CourseBlock) schedule.TeachingBlock {
	tb := schedule.TeachingBlock{Date: fromDBDate(b.Date), WeekIndex: b.WeekIndex}
	if b.StartTime == nil || b.EndTime == nil {
		return tb
	}
	start, errS := schedule.ParseTimeOfDay(*b.StartTime)
	end, errE := schedule.ParseTimeOfDay(*b.EndTime)
	if errS == nil && errE == nil {
		tb.StartTime, tb.EndTime, tb.HasTime = start, end, true
	}
	return tb
}

// fromTeachingBlock 将引擎教学块转为持久化模型
func fromTeachingBlock(b schedule.TeachingBlock) model.CourseBlock {
	cb := model.CourseBlock{
		Date:      toDBDate(b.Date),
		WeekIndex: b.WeekIndex,
		Weekday:   b.Weekday(),
	}
	if b.HasTime {
		start, end := b.StartTime.String(), b.EndTime.String()
		cb.StartTime, cb.EndTime = &start, &end
	}
	return cb
}

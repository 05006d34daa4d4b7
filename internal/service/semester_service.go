package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chinkunlim/Project-Synapse/internal/dto"
	"github.com/chinkunlim/Project-Synapse/internal/model"
	"github.com/chinkunlim/Project-Synapse/internal/repository"
	"github.com/chinkunlim/Project-Synapse/internal/schedule"
)

// ── 学期模块业务错误 ──

var (
	ErrSemesterNotFound      = errors.New("学期不存在")
	ErrSemesterDateInvalid   = errors.New("学期结束日期必须晚于开始日期")
	ErrSemesterNumberInvalid = errors.New("学年必须为正整数，学期只能为 1 或 2")
)

// SemesterService 学期业务接口
//
// 内存中的 Calendar 是引擎读取的唯一来源；数据库只负责持久化，
// 启动时通过 LoadPersisted 覆盖默认学期表。
type SemesterService interface {
	List(ctx context.Context) ([]dto.SemesterResponse, error)
	Get(ctx context.Context, year, number int) (*dto.SemesterResponse, error)
	Upsert(ctx context.Context, year, number int, req *dto.UpsertSemesterRequest, callerID string) (*dto.SemesterResponse, error)
	// Apply 写入已校验的学期（日历同步使用）
	Apply(ctx context.Context, sem schedule.Semester, source string) error
	LoadPersisted(ctx context.Context) (int, error)
}

type semesterService struct {
	repo     *repository.Repository
	calendar *schedule.Calendar
	logger   *zap.Logger
}

// NewSemesterService 创建 SemesterService 实例
func NewSemesterService(repo *repository.Repository, cal *schedule.Calendar, logger *zap.Logger) SemesterService {
	return &semesterService{repo: repo, calendar: cal, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *semesterService) List(ctx context.Context) ([]dto.SemesterResponse, error) {
	persisted, err := s.repo.Semester.List(ctx)
	if err != nil {
		s.logger.Error("查询学期列表失败", zap.Error(err))
		return nil, err
	}
	sources := make(map[string]string, len(persisted))
	for _, p := range persisted {
		sources[schedule.SemesterLabel(p.AcademicYear, p.SemesterNumber)] = p.Source
	}

	all := s.calendar.All()
	result := make([]dto.SemesterResponse, 0, len(all))
	for _, sem := range all {
		source, ok := sources[sem.Label()]
		if !ok {
			source = model.SemesterSourceSeed
		}
		result = append(result, toSemesterResponse(sem, source))
	}
	return result, nil
}

// ────────────────────── Get ──────────────────────

func (s *semesterService) Get(ctx context.Context, year, number int) (*dto.SemesterResponse, error) {
	sem, ok := s.calendar.Get(year, number)
	if !ok {
		return nil, ErrSemesterNotFound
	}

	source := model.SemesterSourceSeed
	persisted, err := s.repo.Semester.Get(ctx, year, number)
	switch {
	case err == nil:
		source = persisted.Source
	case !errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Error("查询学期失败", zap.Int("year", year), zap.Int("number", number), zap.Error(err))
		return nil, err
	}

	resp := toSemesterResponse(sem, source)
	return &resp, nil
}

// ────────────────────── Upsert ──────────────────────

func (s *semesterService) Upsert(ctx context.Context, year, number int, req *dto.UpsertSemesterRequest, callerID string) (*dto.SemesterResponse, error) {
	start, err := schedule.ParseDate(req.StartDate)
	if err != nil {
		return nil, ErrSemesterDateInvalid
	}
	end, err := schedule.ParseDate(req.EndDate)
	if err != nil {
		return nil, ErrSemesterDateInvalid
	}

	sem := schedule.Semester{Year: year, Number: number, StartDate: start, EndDate: end}
	if err := s.save(ctx, sem, model.SemesterSourceManual, &callerID); err != nil {
		return nil, err
	}

	resp := toSemesterResponse(sem, model.SemesterSourceManual)
	return &resp, nil
}

// ────────────────────── Apply ──────────────────────

func (s *semesterService) Apply(ctx context.Context, sem schedule.Semester, source string) error {
	return s.save(ctx, sem, source, nil)
}

func (s *semesterService) save(ctx context.Context, sem schedule.Semester, source string, callerID *string) error {
	if sem.Year <= 0 || (sem.Number != 1 && sem.Number != 2) {
		return ErrSemesterNumberInvalid
	}
	if !sem.StartDate.Before(sem.EndDate) {
		return ErrSemesterDateInvalid
	}

	record := &model.Semester{
		AcademicYear:   sem.Year,
		SemesterNumber: sem.Number,
		StartDate:      toDBDate(sem.StartDate),
		EndDate:        toDBDate(sem.EndDate),
		Source:         source,
	}
	record.CreatedBy = callerID
	record.UpdatedBy = callerID

	if err := s.repo.Semester.Upsert(ctx, record); err != nil {
		s.logger.Error("保存学期失败", zap.String("semester", sem.Label()), zap.Error(err))
		return err
	}

	// 持久化成功后再更新内存表
	s.calendar.Upsert(sem)
	s.logger.Info("学期已更新",
		zap.String("semester", sem.Label()),
		zap.String("start", sem.StartDate.Format(schedule.DateLayout)),
		zap.String("end", sem.EndDate.Format(schedule.DateLayout)),
		zap.String("source", source),
	)
	return nil
}

// ────────────────────── LoadPersisted ──────────────────────

func (s *semesterService) LoadPersisted(ctx context.Context) (int, error) {
	persisted, err := s.repo.Semester.List(ctx)
	if err != nil {
		s.logger.Error("加载已保存学期失败", zap.Error(err))
		return 0, err
	}

	semesters := make([]schedule.Semester, 0, len(persisted))
	for _, p := range persisted {
		semesters = append(semesters, schedule.Semester{
			Year:      p.AcademicYear,
			Number:    p.SemesterNumber,
			StartDate: fromDBDate(p.StartDate),
			EndDate:   fromDBDate(p.EndDate),
		})
	}
	s.calendar.UpsertBatch(semesters)
	return len(semesters), nil
}

// ── 辅助函数 ──

func toSemesterResponse(sem schedule.Semester, source string) dto.SemesterResponse {
	return dto.SemesterResponse{
		Label:          sem.Label(),
		AcademicYear:   sem.Year,
		SemesterNumber: sem.Number,
		StartDate:      sem.StartDate.Format(schedule.DateLayout),
		EndDate:        sem.EndDate.Format(schedule.DateLayout),
		Source:         source,
	}
}

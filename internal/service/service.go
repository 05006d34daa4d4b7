package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/chinkunlim/Project-Synapse/config"
	"github.com/chinkunlim/Project-Synapse/internal/repository"
	"github.com/chinkunlim/Project-Synapse/internal/schedule"
	"github.com/chinkunlim/Project-Synapse/pkg/jwt"
)

// SyncStore 日历同步依赖的 Redis 能力；为 nil 时同步不加锁、不记录时间
type SyncStore interface {
	WithLock(ctx context.Context, name string, ttl time.Duration, fn func(ctx context.Context) error) error
	SetLastSync(ctx context.Context, name string, at time.Time) error
	LastSync(ctx context.Context, name string) (time.Time, bool, error)
}

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	Semester     SemesterService
	CalendarSync CalendarSyncService
	Course       CourseService
	Import       CourseImportService
	Export       ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	cal *schedule.Calendar,
	store SyncStore,
	jwtMgr *jwt.Manager,
	logger *zap.Logger,
) *Service {
	semesterSvc := NewSemesterService(repo, cal, logger)
	return &Service{
		Auth:         NewAuthService(&cfg.Auth, jwtMgr, logger),
		Semester:     semesterSvc,
		CalendarSync: NewCalendarSyncService(&cfg.Calendar, semesterSvc, store, logger),
		Course:       NewCourseService(repo, cal, logger),
		Import:       NewCourseImportService(&cfg.Import, repo, cal, logger),
		Export:       NewExportService(repo, logger),
	}
}

// ── 日期辅助 ──

// toDBDate 写库前转为 UTC 零点，避免驱动按时区偏移日期
func toDBDate(t time.Time) time.Time {
	t = schedule.CivilDate(t)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// fromDBDate 将数据库 date 列读出的时间还原为 UTC+8 民用日期
func fromDBDate(t time.Time) time.Time {
	return schedule.Date(t.Year(), t.Month(), t.Day())
}

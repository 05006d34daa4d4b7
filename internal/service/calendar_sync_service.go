package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chinkunlim/Project-Synapse/config"
	"github.com/chinkunlim/Project-Synapse/internal/dto"
	"github.com/chinkunlim/Project-Synapse/internal/model"
)

// ── 日历同步业务错误 ──

var (
	ErrCalendarURLMissing  = errors.New("未配置日历地址")
	ErrCalendarFetchFailed = errors.New("获取日历失败")
	ErrCalendarParseFailed = errors.New("日历格式无效")
)

const calendarSyncTask = "calendar_sync"

// CalendarSyncService 学期日历同步接口
type CalendarSyncService interface {
	// Sync 拉取 iCal 并逐个写入识别到的学期；url 为空时使用配置地址
	Sync(ctx context.Context, url string) (*dto.CalendarSyncResponse, error)
	Status(ctx context.Context) (*dto.CalendarSyncStatusResponse, error)
}

type calendarSyncService struct {
	cfg      *config.CalendarConfig
	semester SemesterService
	store    SyncStore
	logger   *zap.Logger
}

// NewCalendarSyncService 创建 CalendarSyncService 实例；store 可为 nil
func NewCalendarSyncService(cfg *config.CalendarConfig, semester SemesterService, store SyncStore, logger *zap.Logger) CalendarSyncService {
	return &calendarSyncService{cfg: cfg, semester: semester, store: store, logger: logger}
}

// ────────────────────── Sync ──────────────────────

func (s *calendarSyncService) Sync(ctx context.Context, url string) (*dto.CalendarSyncResponse, error) {
	if url == "" {
		url = s.cfg.ICalURL
	}
	if url == "" {
		return nil, ErrCalendarURLMissing
	}

	var result *dto.CalendarSyncResponse
	run := func(ctx context.Context) error {
		var err error
		result, err = s.sync(ctx, url)
		return err
	}

	var err error
	if s.store != nil {
		err = s.store.WithLock(ctx, calendarSyncTask, s.cfg.LockTTL, run)
	} else {
		err = run(ctx)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *calendarSyncService) sync(ctx context.Context, url string) (*dto.CalendarSyncResponse, error) {
	body, err := FetchICSContent(ctx, url, s.cfg.FetchTimeout)
	if err != nil {
		s.logger.Warn("获取日历失败", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrCalendarFetchFailed, err)
	}
	defer body.Close()

	bounds, err := ExtractSemesterBounds(body)
	if err != nil {
		s.logger.Warn("解析日历失败", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrCalendarParseFailed, err)
	}

	valid, skipped := ValidSemesters(bounds)

	// 逐个写入：中途失败时已写入的学期保留
	resp := &dto.CalendarSyncResponse{Applied: make([]dto.SemesterResponse, 0, len(valid)), Skipped: skipped}
	for _, sem := range valid {
		if err := s.semester.Apply(ctx, sem, model.SemesterSourceICal); err != nil {
			return nil, err
		}
		resp.Applied = append(resp.Applied, toSemesterResponse(sem, model.SemesterSourceICal))
	}

	now := time.Now()
	resp.SyncedAt = now.Format(time.RFC3339)
	if s.store != nil {
		if err := s.store.SetLastSync(ctx, calendarSyncTask, now); err != nil {
			s.logger.Warn("记录同步时间失败", zap.Error(err))
		}
	}

	s.logger.Info("日历同步完成",
		zap.Int("applied", len(resp.Applied)),
		zap.Int("skipped", skipped),
	)
	return resp, nil
}

// ────────────────────── Status ──────────────────────

func (s *calendarSyncService) Status(ctx context.Context) (*dto.CalendarSyncStatusResponse, error) {
	if s.store == nil {
		return &dto.CalendarSyncStatusResponse{Available: false}, nil
	}
	at, ok, err := s.store.LastSync(ctx, calendarSyncTask)
	if err != nil {
		s.logger.Warn("读取同步时间失败", zap.Error(err))
		return &dto.CalendarSyncStatusResponse{Available: false}, nil
	}
	resp := &dto.CalendarSyncStatusResponse{Available: true}
	if ok {
		str := at.Format(time.RFC3339)
		resp.LastSyncedAt = &str
	}
	return resp, nil
}

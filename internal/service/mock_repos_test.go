package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chinkunlim/Project-Synapse/config"
	"github.com/chinkunlim/Project-Synapse/internal/model"
	"github.com/chinkunlim/Project-Synapse/internal/repository"
	"github.com/chinkunlim/Project-Synapse/internal/schedule"
	apperrors "github.com/chinkunlim/Project-Synapse/pkg/errors"
)

var errMockDB = errors.New("mock db error")

// ── Mock SemesterRepository ──

type mockSemesterRepo struct {
	mu        sync.Mutex
	semesters map[string]*model.Semester
	failWrite bool
}

func newMockSemesterRepo() *mockSemesterRepo {
	return &mockSemesterRepo{semesters: make(map[string]*model.Semester)}
}

func (m *mockSemesterRepo) Upsert(_ context.Context, semester *model.Semester) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return errMockDB
	}
	key := schedule.SemesterLabel(semester.AcademicYear, semester.SemesterNumber)
	if existing, ok := m.semesters[key]; ok {
		semester.SemesterID = existing.SemesterID
	} else if semester.SemesterID == "" {
		semester.SemesterID = "sem-" + key
	}
	cp := *semester
	m.semesters[key] = &cp
	return nil
}

func (m *mockSemesterRepo) Get(_ context.Context, year, number int) (*model.Semester, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.semesters[schedule.SemesterLabel(year, number)]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSemesterRepo) List(_ context.Context) ([]model.Semester, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]model.Semester, 0, len(m.semesters))
	for _, s := range m.semesters {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].AcademicYear != result[j].AcademicYear {
			return result[i].AcademicYear < result[j].AcademicYear
		}
		return result[i].SemesterNumber < result[j].SemesterNumber
	})
	return result, nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	mu        sync.Mutex
	courses   map[string]*model.Course
	order     []string
	seq       int
	failOnce  string // 名称匹配时 Create 返回错误
	createdAt time.Time
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{
		courses:   make(map[string]*model.Course),
		createdAt: time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC),
	}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOnce != "" && course.Name == m.failOnce {
		return errMockDB
	}
	m.seq++
	if course.CourseID == "" {
		course.CourseID = fmt.Sprintf("course-%03d", m.seq)
	}
	course.CreatedAt = m.createdAt
	for i := range course.Blocks {
		course.Blocks[i].CourseID = course.CourseID
		if course.Blocks[i].BlockID == "" {
			course.Blocks[i].BlockID = fmt.Sprintf("%s-block-%02d", course.CourseID, i+1)
		}
	}
	cp := *course
	cp.Blocks = append([]model.CourseBlock(nil), course.Blocks...)
	m.courses[course.CourseID] = &cp
	m.order = append(m.order, course.CourseID)
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.courses[id]; ok {
		cp := *c
		cp.Blocks = nil
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) match(c *model.Course, f repository.CourseFilter) bool {
	if f.AcademicYear != nil && (c.AcademicYear == nil || *c.AcademicYear != *f.AcademicYear) {
		return false
	}
	if f.SemesterNumber != nil && (c.SemesterNumber == nil || *c.SemesterNumber != *f.SemesterNumber) {
		return false
	}
	if f.BatchID != nil && (c.BatchID == nil || *c.BatchID != *f.BatchID) {
		return false
	}
	return true
}

func (m *mockCourseRepo) filtered(f repository.CourseFilter) []model.Course {
	var result []model.Course
	for _, id := range m.order {
		c, ok := m.courses[id]
		if !ok || !m.match(c, f) {
			continue
		}
		result = append(result, *c)
	}
	return result
}

func (m *mockCourseRepo) List(_ context.Context, f repository.CourseFilter, offset, limit int) ([]model.Course, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.filtered(f)
	total := int64(len(all))
	if offset >= len(all) {
		return []model.Course{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	page := all[offset:end]
	for i := range page {
		page[i].Blocks = nil
	}
	return page, total, nil
}

func (m *mockCourseRepo) ListWithBlocks(_ context.Context, f repository.CourseFilter) ([]model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filtered(f), nil
}

func (m *mockCourseRepo) ListBlocks(_ context.Context, courseID string) ([]model.CourseBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courses[courseID]
	if !ok {
		return []model.CourseBlock{}, nil
	}
	return append([]model.CourseBlock(nil), c.Blocks...), nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.courses, id)
	return nil
}

// ── Mock ImportBatchRepository ──

type mockImportBatchRepo struct {
	mu      sync.Mutex
	batches map[string]*model.ImportBatch
}

func newMockImportBatchRepo() *mockImportBatchRepo {
	return &mockImportBatchRepo{batches: make(map[string]*model.ImportBatch)}
}

func (m *mockImportBatchRepo) Create(_ context.Context, batch *model.ImportBatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *batch
	m.batches[batch.BatchID] = &cp
	return nil
}

func (m *mockImportBatchRepo) Update(_ context.Context, batch *model.ImportBatch) error {
	return m.Create(context.Background(), batch)
}

func (m *mockImportBatchRepo) GetByID(_ context.Context, id string) (*model.ImportBatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.batches[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock SyncStore ──

type mockSyncStore struct {
	mu       sync.Mutex
	held     bool
	lastSync map[string]time.Time
	locks    int
}

func newMockSyncStore() *mockSyncStore {
	return &mockSyncStore{lastSync: make(map[string]time.Time)}
}

func (m *mockSyncStore) WithLock(ctx context.Context, _ string, _ time.Duration, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	if m.held {
		m.mu.Unlock()
		return apperrors.ErrLockNotAcquired
	}
	m.held = true
	m.locks++
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.held = false
		m.mu.Unlock()
	}()
	return fn(ctx)
}

func (m *mockSyncStore) SetLastSync(_ context.Context, name string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSync[name] = at
	return nil
}

func (m *mockSyncStore) LastSync(_ context.Context, name string) (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	at, ok := m.lastSync[name]
	return at, ok, nil
}

// ── 测试装配 ──

type testDeps struct {
	repo      *repository.Repository
	semesters *mockSemesterRepo
	courses   *mockCourseRepo
	batches   *mockImportBatchRepo
	calendar  *schedule.Calendar
	logger    *zap.Logger
}

func newTestDeps() *testDeps {
	d := &testDeps{
		semesters: newMockSemesterRepo(),
		courses:   newMockCourseRepo(),
		batches:   newMockImportBatchRepo(),
		calendar:  schedule.NewDefaultCalendar(),
		logger:    zap.NewNop(),
	}
	d.repo = &repository.Repository{
		Semester:    d.semesters,
		Course:      d.courses,
		ImportBatch: d.batches,
	}
	return d
}

func testImportConfig() *config.ImportConfig {
	return &config.ImportConfig{Workers: 4, MaxErrors: 10}
}

func intPtr(v int) *int { return &v }

func emptyFilter() repository.CourseFilter { return repository.CourseFilter{} }

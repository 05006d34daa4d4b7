package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/chinkunlim/Project-Synapse/internal/model"
)

// CourseFilter 课程列表过滤条件；字段为 nil 表示不过滤
type CourseFilter struct {
	AcademicYear   *int
	SemesterNumber *int
	BatchID        *string
}

// CourseRepository 课程与教学块数据访问接口
type CourseRepository interface {
	// Create 创建课程，course.Blocks 随之一并写入
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id string) (*model.Course, error)
	// List 分页查询，返回当前页与总数
	List(ctx context.Context, filter CourseFilter, offset, limit int) ([]model.Course, int64, error)
	// ListWithBlocks 同 List，并预加载按日期排序的教学块
	ListWithBlocks(ctx context.Context, filter CourseFilter) ([]model.Course, error)
	ListBlocks(ctx context.Context, courseID string) ([]model.CourseBlock, error)
	Delete(ctx context.Context, id string, deletedBy string) error
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Where("course_id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) List(ctx context.Context, filter CourseFilter, offset, limit int) ([]model.Course, int64, error) {
	var (
		courses []model.Course
		total   int64
	)
	query := r.applyFilter(r.db.WithContext(ctx).Model(&model.Course{}), filter).Session(&gorm.Session{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.
		Order("name ASC, created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&courses).Error
	return courses, total, err
}

func (r *courseRepo) ListWithBlocks(ctx context.Context, filter CourseFilter) ([]model.Course, error) {
	var courses []model.Course
	err := r.applyFilter(r.db.WithContext(ctx), filter).
		Preload("Blocks", func(db *gorm.DB) *gorm.DB {
			return db.Order("date ASC")
		}).
		Order("name ASC, created_at ASC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) ListBlocks(ctx context.Context, courseID string) ([]model.CourseBlock, error) {
	var blocks []model.CourseBlock
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("date ASC").
		Find(&blocks).Error
	return blocks, err
}

func (r *courseRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Course{}).
		Where("course_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *courseRepo) applyFilter(db *gorm.DB, f CourseFilter) *gorm.DB {
	if f.AcademicYear != nil {
		db = db.Where("academic_year = ?", *f.AcademicYear)
	}
	if f.SemesterNumber != nil {
		db = db.Where("semester_number = ?", *f.SemesterNumber)
	}
	if f.BatchID != nil {
		db = db.Where("batch_id = ?", *f.BatchID)
	}
	return db
}

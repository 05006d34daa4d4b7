package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chinkunlim/Project-Synapse/internal/model"
)

// SemesterRepository 学期数据访问接口
type SemesterRepository interface {
	// Upsert 按 (academic_year, semester_number) 新增或覆盖
	Upsert(ctx context.Context, semester *model.Semester) error
	Get(ctx context.Context, year, number int) (*model.Semester, error)
	List(ctx context.Context) ([]model.Semester, error)
}

type semesterRepo struct {
	db *gorm.DB
}

// NewSemesterRepo 创建 SemesterRepository 实例
func NewSemesterRepo(db *gorm.DB) SemesterRepository {
	return &semesterRepo{db: db}
}

func (r *semesterRepo) Upsert(ctx context.Context, semester *model.Semester) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "academic_year"}, {Name: "semester_number"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"start_date": semester.StartDate,
				"end_date":   semester.EndDate,
				"source":     semester.Source,
				"updated_by": semester.UpdatedBy,
				"updated_at": gorm.Expr("NOW()"),
			}),
		}, clause.Returning{}).
		Create(semester).Error
}

func (r *semesterRepo) Get(ctx context.Context, year, number int) (*model.Semester, error) {
	var semester model.Semester
	err := r.db.WithContext(ctx).
		Where("academic_year = ? AND semester_number = ?", year, number).
		First(&semester).Error
	if err != nil {
		return nil, err
	}
	return &semester, nil
}

func (r *semesterRepo) List(ctx context.Context) ([]model.Semester, error) {
	var semesters []model.Semester
	err := r.db.WithContext(ctx).
		Order("academic_year ASC, semester_number ASC").
		Find(&semesters).Error
	return semesters, err
}

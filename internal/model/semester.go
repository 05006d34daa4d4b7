package model

import "time"

// 学期数据来源
const (
	SemesterSourceSeed   = "seed"
	SemesterSourceICal   = "ical"
	SemesterSourceManual = "manual"
)

// Semester 学期表，对应 semesters，(academic_year, semester_number) 唯一
type Semester struct {
	SemesterID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"          json:"semester_id"`
	AcademicYear   int       `gorm:"not null;uniqueIndex:uk_semesters_year_number,priority:1" json:"academic_year"`
	SemesterNumber int       `gorm:"type:smallint;not null;uniqueIndex:uk_semesters_year_number,priority:2" json:"semester_number"`
	StartDate      time.Time `gorm:"type:date;not null"                                      json:"start_date"`
	EndDate        time.Time `gorm:"type:date;not null"                                      json:"end_date"`
	Source         string    `gorm:"type:varchar(20);not null;default:'manual'"              json:"source"` // seed | ical | manual
	BaseModel
}

// TableName 指定表名
func (Semester) TableName() string { return "semesters" }

package model

// 排课模式
const (
	CourseModePrecise     = "precise"     // 学年 + 学期 + 节次记法
	CourseModeApproximate = "approximate" // 全局学期区间均分 18 堂
)

// Course 课程表，对应 courses
type Course struct {
	CourseID       string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	BatchID        *string  `gorm:"type:uuid;index"                                json:"batch_id,omitempty"`
	Name           string   `gorm:"type:varchar(200);not null"                     json:"name"`
	Code           string   `gorm:"type:varchar(50);not null;default:''"           json:"code"`
	Instructor     string   `gorm:"type:varchar(100);not null;default:''"          json:"instructor"`
	Hours          *int     `gorm:"type:smallint"                                  json:"hours,omitempty"`
	Credits        *int     `gorm:"type:smallint"                                  json:"credits,omitempty"`
	Mode           string   `gorm:"type:varchar(20);not null"                      json:"mode"`
	AcademicYear   *int     `gorm:"index:idx_courses_semester,priority:1"          json:"academic_year,omitempty"`
	SemesterNumber *int     `gorm:"type:smallint;index:idx_courses_semester,priority:2" json:"semester_number,omitempty"`
	Notation       string   `gorm:"type:varchar(200);not null;default:''"          json:"notation"`
	Display        string   `gorm:"type:text;not null;default:''"                  json:"display"`
	Weekdays       WeekdaySet `gorm:"type:int[]"                                     json:"weekdays"` // 0=星期一
	ParseStatus    string   `gorm:"type:varchar(20);not null;default:'complete'"   json:"parse_status"`
	SoftDeleteModel

	// 关联
	Blocks []CourseBlock `gorm:"foreignKey:CourseID;references:CourseID" json:"blocks,omitempty"`
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

package model

import "time"

// CourseBlock 教学块表，对应 course_blocks；有时刻的块每门课每天至多一条
type CourseBlock struct {
	BlockID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"block_id"`
	CourseID  string    `gorm:"type:uuid;not null;index"                       json:"course_id"`
	Date      time.Time `gorm:"type:date;not null"                             json:"date"`
	StartTime *string   `gorm:"type:varchar(5)"                                json:"start_time,omitempty"` // HH:MM；均分模式为空
	EndTime   *string   `gorm:"type:varchar(5)"                                json:"end_time,omitempty"`
	WeekIndex int       `gorm:"type:smallint;not null"                         json:"week_index"`
	Weekday   int       `gorm:"type:smallint;not null"                         json:"weekday"` // 0=星期一
	BaseModel
}

// TableName 指定表名
func (CourseBlock) TableName() string { return "course_blocks" }

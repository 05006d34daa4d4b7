package handler

import "github.com/chinkunlim/Project-Synapse/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth     *AuthHandler
	Semester *SemesterHandler
	Calendar *CalendarHandler
	Course   *CourseHandler
	Import   *ImportHandler
	Export   *ExportHandler
}

// NewHandler 创建 Handler 聚合；maxUploadBytes 为导入文件大小上限
func NewHandler(svc *service.Service, maxUploadBytes int64) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(svc.Auth),
		Semester: NewSemesterHandler(svc.Semester),
		Calendar: NewCalendarHandler(svc.CalendarSync),
		Course:   NewCourseHandler(svc.Course),
		Import:   NewImportHandler(svc.Import, maxUploadBytes),
		Export:   NewExportHandler(svc.Export),
	}
}

package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/chinkunlim/Project-Synapse/internal/dto"
	"github.com/chinkunlim/Project-Synapse/internal/service"
	"github.com/chinkunlim/Project-Synapse/pkg/response"
)

// ImportHandler 课程导入 HTTP 处理器
type ImportHandler struct {
	importSvc service.CourseImportService
	maxBytes  int64
}

// NewImportHandler 创建 ImportHandler
func NewImportHandler(importSvc service.CourseImportService, maxBytes int64) *ImportHandler {
	return &ImportHandler{importSvc: importSvc, maxBytes: maxBytes}
}

// ImportCourses 上传 CSV / XLSX 批量导入课程
// POST /api/v1/courses/import (multipart: file, semester_start, semester_end, exclude_dates, year, term)
func (h *ImportHandler) ImportCourses(c *gin.Context) {
	var form dto.ImportCoursesForm
	if err := c.ShouldBind(&form); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.PayloadTooLarge(c, "上传文件过大")
			return
		}
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 19000, "请上传 CSV 或 XLSX 文件")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		response.BadRequest(c, 19000, "读取上传文件失败")
		return
	}
	if int64(len(content)) > h.maxBytes {
		response.PayloadTooLarge(c, "上传文件过大")
		return
	}

	callerID, ok := MustGetUsername(c)
	if !ok {
		return
	}

	result, err := h.importSvc.Import(c.Request.Context(), &service.ImportRequest{
		FileName:      header.Filename,
		Content:       content,
		SemesterStart: form.SemesterStart,
		SemesterEnd:   form.SemesterEnd,
		Year:          form.Year,
		Semester:      form.Term,
		ExcludeDates:  splitList(form.ExcludeDates),
		CallerID:      callerID,
	})
	if err != nil {
		h.handleImportError(c, err)
		return
	}

	response.Created(c, result)
}

func (h *ImportHandler) handleImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrImportUnsupportedFormat):
		response.BadRequest(c, 19001, "仅支持 .csv 与 .xlsx 文件")
	case errors.Is(err, service.ErrImportEmptyFile):
		response.BadRequest(c, 19002, "文件中没有课程数据")
	case errors.Is(err, service.ErrImportFileInvalid):
		response.UnprocessableEntity(c, 19003, "文件内容无法解析")
	case errors.Is(err, service.ErrImportWindowInvalid):
		response.BadRequest(c, 19004, "全局学期日期无效")
	case errors.Is(err, service.ErrImportSemesterInvalid):
		response.BadRequest(c, 19005, "归属学期无效，year 与 term 需同时提供")
	case errors.Is(err, service.ErrExcludeDateInvalid):
		response.BadRequest(c, 18002, "排除日期格式无效，应为 YYYY-MM-DD")
	default:
		response.InternalError(c)
	}
}

// splitList 拆分逗号分隔的表单值
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

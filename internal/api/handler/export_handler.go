package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/chinkunlim/Project-Synapse/internal/dto"
	"github.com/chinkunlim/Project-Synapse/internal/service"
	"github.com/chinkunlim/Project-Synapse/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportXLSX 导出教学块表格
// GET /api/v1/export/xlsx?year=114&term=1 或 ?batch_id=<uuid>
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	scope, ok := bindExportScope(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportXLSX(c.Request.Context(), scope)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeAttachment(c, filename, contentTypeXLSX, buf.Bytes())
}

// ExportICS 导出教学块日历
// GET /api/v1/export/ics?year=114&term=1 或 ?batch_id=<uuid>
func (h *ExportHandler) ExportICS(c *gin.Context) {
	scope, ok := bindExportScope(c)
	if !ok {
		return
	}

	data, filename, err := h.exportSvc.ExportICS(c.Request.Context(), scope)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeAttachment(c, filename, contentTypeICS, data)
}

// bindExportScope 解析并校验导出范围，失败时已写入 400
func bindExportScope(c *gin.Context) (service.ExportScope, bool) {
	var q dto.ExportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "year、term 或 batch_id 参数无效")
		return service.ExportScope{}, false
	}
	scope := service.ExportScope{Year: q.Year, Number: q.Term, BatchID: q.BatchID}
	if err := scope.Validate(); err != nil {
		response.BadRequest(c, 16102, "请提供 year 与 term，或 batch_id")
		return service.ExportScope{}, false
	}
	return scope, true
}

// writeAttachment 设置下载响应头并写入文件内容
func writeAttachment(c *gin.Context, filename, contentType string, data []byte) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoCourses):
		response.NotFound(c, 16101, "该范围内暂无课程")
	case errors.Is(err, service.ErrExportScopeInvalid):
		response.BadRequest(c, 16102, "请提供 year 与 term，或 batch_id")
	default:
		response.InternalError(c)
	}
}

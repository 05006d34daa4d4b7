package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/chinkunlim/Project-Synapse/internal/dto"
	"github.com/chinkunlim/Project-Synapse/internal/service"
	"github.com/chinkunlim/Project-Synapse/pkg/response"
)

// SemesterHandler 学期模块 HTTP 处理器
type SemesterHandler struct {
	semesterSvc service.SemesterService
}

// NewSemesterHandler 创建 SemesterHandler
func NewSemesterHandler(semesterSvc service.SemesterService) *SemesterHandler {
	return &SemesterHandler{semesterSvc: semesterSvc}
}

// ListSemesters 获取学期列表
// GET /api/v1/semesters
func (h *SemesterHandler) ListSemesters(c *gin.Context) {
	semesters, err := h.semesterSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": semesters})
}

// GetSemester 获取学期详情
// GET /api/v1/semesters/:year/:term
func (h *SemesterHandler) GetSemester(c *gin.Context) {
	var uri dto.SemesterURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, 10001, "学年或学期无效")
		return
	}

	semester, err := h.semesterSvc.Get(c.Request.Context(), uri.Year, uri.Term)
	if err != nil {
		h.handleSemesterError(c, err)
		return
	}

	response.OK(c, semester)
}

// UpsertSemester 新增或覆盖学期起止日期
// PUT /api/v1/semesters/:year/:term
func (h *SemesterHandler) UpsertSemester(c *gin.Context) {
	var uri dto.SemesterURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, 10001, "学年或学期无效")
		return
	}

	var req dto.UpsertSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUsername(c)
	if !ok {
		return
	}

	semester, err := h.semesterSvc.Upsert(c.Request.Context(), uri.Year, uri.Term, &req, callerID)
	if err != nil {
		h.handleSemesterError(c, err)
		return
	}

	response.OK(c, semester)
}

// handleSemesterError 统一处理学期模块业务错误
func (h *SemesterHandler) handleSemesterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSemesterNotFound):
		response.NotFound(c, 14001, "学期不存在")
	case errors.Is(err, service.ErrSemesterDateInvalid):
		response.BadRequest(c, 14002, "学期日期无效")
	case errors.Is(err, service.ErrSemesterNumberInvalid):
		response.BadRequest(c, 14003, "学年或学期无效")
	default:
		response.InternalError(c)
	}
}

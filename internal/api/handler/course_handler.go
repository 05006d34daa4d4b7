package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/chinkunlim/Project-Synapse/internal/dto"
	"github.com/chinkunlim/Project-Synapse/internal/service"
	"github.com/chinkunlim/Project-Synapse/pkg/response"
)

// CourseHandler 课程与节次预览 HTTP 处理器
type CourseHandler struct {
	courseSvc service.CourseService
}

// NewCourseHandler 创建 CourseHandler
func NewCourseHandler(courseSvc service.CourseService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc}
}

// Periods 节次时间表
// GET /api/v1/periods
func (h *CourseHandler) Periods(c *gin.Context) {
	response.OK(c, gin.H{"list": h.courseSvc.Periods()})
}

// Preview 解析节次记法并展开为教学块（不落库）
// POST /api/v1/schedules/preview
func (h *CourseHandler) Preview(c *gin.Context) {
	var req dto.PreviewScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.courseSvc.Preview(c.Request.Context(), &req)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, result)
}

// ListCourses 课程列表
// GET /api/v1/courses?year=&term=&page=&page_size=
func (h *CourseHandler) ListCourses(c *gin.Context) {
	var req dto.CourseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.courseSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetCourse 课程详情
// GET /api/v1/courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	course, err := h.courseSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, course)
}

// GetCourseBlocks 课程的教学块
// GET /api/v1/courses/:id/blocks
func (h *CourseHandler) GetCourseBlocks(c *gin.Context) {
	result, err := h.courseSvc.Blocks(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteCourse 删除课程（软删除）
// DELETE /api/v1/courses/:id
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	callerID, ok := MustGetUsername(c)
	if !ok {
		return
	}

	if err := h.courseSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleCourseError 统一处理课程模块业务错误
func (h *CourseHandler) handleCourseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 18001, "课程不存在")
	case errors.Is(err, service.ErrExcludeDateInvalid):
		response.BadRequest(c, 18002, "排除日期格式无效，应为 YYYY-MM-DD")
	default:
		response.InternalError(c)
	}
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chinkunlim/Project-Synapse/internal/dto"
	"github.com/chinkunlim/Project-Synapse/internal/service"
	apperrors "github.com/chinkunlim/Project-Synapse/pkg/errors"
	"github.com/chinkunlim/Project-Synapse/pkg/response"
)

// CalendarHandler 学期日历同步 HTTP 处理器
type CalendarHandler struct {
	syncSvc service.CalendarSyncService
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(syncSvc service.CalendarSyncService) *CalendarHandler {
	return &CalendarHandler{syncSvc: syncSvc}
}

// Sync 从 iCal 地址同步学期起止日期
// POST /api/v1/calendar/sync
func (h *CalendarHandler) Sync(c *gin.Context) {
	var req dto.CalendarSyncRequest
	// 请求体可为空，此时使用配置中的地址
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 10001, "参数校验失败")
			return
		}
	}

	result, err := h.syncSvc.Sync(c.Request.Context(), req.URL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCalendarURLMissing):
			response.BadRequest(c, 17001, "未配置日历地址")
		case errors.Is(err, service.ErrCalendarFetchFailed):
			response.ErrorWithDetails(c, http.StatusBadGateway, 17002, "获取日历失败", err.Error())
		case errors.Is(err, service.ErrCalendarParseFailed):
			response.ErrorWithDetails(c, http.StatusUnprocessableEntity, 17003, "日历格式无效", err.Error())
		case errors.Is(err, apperrors.ErrLockNotAcquired):
			response.Conflict(c, 17004, "日历同步正在进行中")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// Status 最近一次同步状态
// GET /api/v1/calendar/sync/status
func (h *CalendarHandler) Status(c *gin.Context) {
	result, err := h.syncSvc.Status(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

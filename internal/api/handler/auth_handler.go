package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/chinkunlim/Project-Synapse/internal/dto"
	"github.com/chinkunlim/Project-Synapse/internal/service"
	"github.com/chinkunlim/Project-Synapse/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login 管理员登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Unauthorized(c, 11001, "用户名或密码错误")
		case errors.Is(err, service.ErrAuthDisabled):
			response.Forbidden(c, 11002, "未配置管理员账号")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/chinkunlim/Project-Synapse/internal/api/middleware"
	"github.com/chinkunlim/Project-Synapse/pkg/response"
)

// MustGetUsername 取出 JWT 中间件注入的管理员用户名，作为写操作的 created_by / updated_by。
// 缺失时已写入 401，调用方直接 return。
func MustGetUsername(c *gin.Context) (string, bool) {
	username := c.GetString(middleware.ContextKeyUsername)
	if username == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return username, true
}

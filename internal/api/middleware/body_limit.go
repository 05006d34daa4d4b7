package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chinkunlim/Project-Synapse/pkg/response"
)

// BodyLimit 全局请求体大小限制中间件
// 声明的 Content-Length 超限时直接拒绝；未声明长度的请求由 MaxBytesReader 截断
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.PayloadTooLarge(c, "请求体过大")
			c.Abort()
			return
		}

		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}

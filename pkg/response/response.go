// Package response 统一 JSON 响应封装。
//
// 业务码分段：
//
//	0            成功
//	10001-10005  通用（参数校验、未认证、无权限、限流、请求体过大）
//	11xxx        认证
//	14xxx        学期
//	16xxx        导出
//	17xxx        校历同步
//	18xxx        课程与排课预览
//	19xxx        课程导入
//	50000        未归类的服务端错误
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	codeOK            = 0
	codeTooLarge      = 10005
	codeRateLimited   = 10004
	codeInternalError = 50000
)

// Response 所有接口共用的响应体；Details 只在错误时携带原始原因
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Details string      `json:"details,omitempty"`
}

// Pagination 课程列表的分页信息
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PageData 列表接口的 data 字段
type PageData struct {
	List       interface{} `json:"list"`
	Pagination Pagination  `json:"pagination"`
}

func success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Code: codeOK, Message: "success", Data: data})
}

// OK 200
func OK(c *gin.Context, data interface{}) {
	success(c, http.StatusOK, data)
}

// Created 201，课程导入成功时使用
func Created(c *gin.Context, data interface{}) {
	success(c, http.StatusCreated, data)
}

// OKPage 200，附带分页信息；pageSize 由 dto 层保证为正
func OKPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	success(c, http.StatusOK, PageData{
		List: list,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// Error 按给定 HTTP 状态与业务码返回
func Error(c *gin.Context, httpStatus int, code int, message string) {
	c.JSON(httpStatus, Response{Code: code, Message: message})
}

// ErrorWithDetails 附带上游原因，如校历抓取失败时的远端错误
func ErrorWithDetails(c *gin.Context, httpStatus int, code int, message, details string) {
	c.JSON(httpStatus, Response{Code: code, Message: message, Details: details})
}

// BadRequest 400
func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnauthorized, code, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, code int, message string) {
	Error(c, http.StatusForbidden, code, message)
}

// NotFound 404
func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, message)
}

// Conflict 409，校历同步并发时使用
func Conflict(c *gin.Context, code int, message string) {
	Error(c, http.StatusConflict, code, message)
}

// PayloadTooLarge 413，上传文件与请求体共用 10005
func PayloadTooLarge(c *gin.Context, message string) {
	Error(c, http.StatusRequestEntityTooLarge, codeTooLarge, message)
}

// TooManyRequests 429
func TooManyRequests(c *gin.Context) {
	Error(c, http.StatusTooManyRequests, codeRateLimited, "请求过于频繁，请稍后再试")
}

// UnprocessableEntity 422，文件或日历内容无法解析
func UnprocessableEntity(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnprocessableEntity, code, message)
}

// InternalError 500，不向客户端暴露原因
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, codeInternalError, "服务器内部错误")
}

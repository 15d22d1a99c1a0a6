package api

import (
	"errors"
	"net/http"

	"ollamahub/agent"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 错误响应结构，与现有客户端约定的 {"detail": "..."} 保持一致
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// MessageResponse 简单消息响应
type MessageResponse struct {
	Message string `json:"message"`
}

// Error 错误响应
func Error(c *gin.Context, code int, detail string) {
	c.JSON(code, ErrorResponse{Detail: detail})
}

// BadRequest 400 错误响应
func BadRequest(c *gin.Context, detail string) {
	Error(c, http.StatusBadRequest, detail)
}

// NotFound 404 错误响应
func NotFound(c *gin.Context, detail string) {
	Error(c, http.StatusNotFound, detail)
}

// InternalError 500 错误响应
func InternalError(c *gin.Context, detail string) {
	Error(c, http.StatusInternalServerError, detail)
}

// ErrorFromOutcome 按对话结果的错误类别映射状态码：客户端错误 400，其余 500
func ErrorFromOutcome(c *gin.Context, err error) {
	var e *agent.Error
	if errors.As(err, &e) {
		if e.Kind == agent.KindClient {
			BadRequest(c, e.Message)
			return
		}
		InternalError(c, e.Message)
		return
	}
	InternalError(c, "Chat processing failed: "+err.Error())
}

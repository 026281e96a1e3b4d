package shared

import (
	"strconv"
	"strings"

	"github.com/cumplido-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// 鉴权中间件写入的上下文键
const (
	OperatorIDKey    = "operator_id"
	OperatorNameKey  = "username"
	OperatorRolesKey = "operator_roles"
)

// GetContextUintWithKeys 从上下文读取 uint 值并统一处理错误响应。
func GetContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, typeInvalidKey, nil)
		return 0, false
	}
}

// GetOperatorID 读取当前操作员 ID
func GetOperatorID(c *gin.Context) (uint, bool) {
	return GetContextUintWithKeys(c, OperatorIDKey, "error.unauthorized", "error.internal")
}

// OperatorLabel 返回用于日志与备注作者的操作员标识
func OperatorLabel(c *gin.Context) string {
	if value, ok := c.Get(OperatorNameKey); ok {
		if name, ok := value.(string); ok && strings.TrimSpace(name) != "" {
			return strings.TrimSpace(name)
		}
	}
	if value, ok := c.Get(OperatorIDKey); ok {
		if id, ok := value.(uint); ok && id != 0 {
			return "operator:" + strconv.FormatUint(uint64(id), 10)
		}
	}
	return "anonymous"
}

// ParseIDParam 解析路径中的正整数 ID
func ParseIDParam(c *gin.Context, name, invalidKey string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param(name)), 10, 32)
	if err != nil || id == 0 {
		RespondError(c, response.CodeBadRequest, invalidKey, nil)
		return 0, false
	}
	return uint(id), true
}

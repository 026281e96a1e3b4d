package shared

import (
	"github.com/cumplido-next/internal/http/response"
	"github.com/cumplido-next/internal/i18n"
	"github.com/cumplido-next/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志；4xx 记为告警，其余记为错误。
func RespondError(c *gin.Context, code int, key string, err error) {
	locale := i18n.ResolveLocale(c)
	msg := i18n.T(locale, key)
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		log := RequestLog(c)
		if appErr.Code >= 400 && appErr.Code < 500 {
			log.Warnw("handler_rejected",
				"code", appErr.Code,
				"key", key,
				"error", err,
			)
		} else {
			log.Errorw("handler_error",
				"code", appErr.Code,
				"message", appErr.Message,
				"error", err,
			)
		}
	}
	response.Error(c, appErr.Code, appErr.Message)
}

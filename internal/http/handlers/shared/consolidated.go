package shared

import (
	"github.com/cumplido-next/internal/http/response"
	"github.com/cumplido-next/internal/service"

	"github.com/gin-gonic/gin"
)

// RespondConsolidatedView 解析查询参数并返回汇总视图（操作员与管理端共用）
func RespondConsolidatedView(c *gin.Context, views *service.ConsolidatedViewService) {
	if views == nil {
		RespondError(c, response.CodeInternal, "error.internal", nil)
		return
	}
	filter, err := service.ParseConsolidatedFilter(
		c.Query("business_id"),
		c.Query("date"),
		c.Query("date_from"),
		c.Query("date_to"),
	)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	view, err := views.Build(c.Request.Context(), filter)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	response.Success(c, view)
}

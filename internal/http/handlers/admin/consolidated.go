package admin

import (
	handlershared "github.com/cumplido-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

// GetConsolidated 获取汇总视图
func (h *Handler) GetConsolidated(c *gin.Context) {
	handlershared.RespondConsolidatedView(c, h.ConsolidatedViewService)
}

package operator

import (
	handlershared "github.com/cumplido-next/internal/http/handlers/shared"
	"github.com/cumplido-next/internal/http/response"
	"github.com/cumplido-next/internal/service"

	"github.com/gin-gonic/gin"
)

// SaveScoreSheetRequest 保存评分请求：报到槽位 -> 时间标签 -> 评分
type SaveScoreSheetRequest struct {
	Submitted service.ScoreSubmission `json:"submitted" binding:"dive,keys,startswith=R,endkeys,dive,keys,hhmm,endkeys"`
}

// GetScoreSheet 获取评分表
func (h *Handler) GetScoreSheet(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id", "error.fulfillment_invalid")
	if !ok {
		return
	}
	entries, err := h.ScoreSheetService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"fulfillment_id": id, "entries": entries})
}

// SaveScoreSheet 覆盖保存评分表，仅保留属于本班次的条目
func (h *Handler) SaveScoreSheet(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id", "error.fulfillment_invalid")
	if !ok {
		return
	}
	var req SaveScoreSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.score_sheet_invalid", err)
		return
	}
	if req.Submitted == nil {
		req.Submitted = service.ScoreSubmission{}
	}
	entries, err := h.ScoreSheetService.Save(c.Request.Context(), id, req.Submitted)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"fulfillment_id": id, "entries": entries})
}

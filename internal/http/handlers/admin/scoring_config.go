package admin

import (
	"strconv"
	"strings"

	"github.com/cumplido-next/internal/http/response"
	"github.com/cumplido-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateScoringConfigRequest 新增评分配置请求
type CreateScoringConfigRequest struct {
	BusinessID    uint   `json:"business_id" binding:"required,gt=0"`
	EffectiveFrom string `json:"effective_from" binding:"required"`
	DaySlots      int    `json:"day_slots" binding:"gte=0,lte=48"`
	NightSlots    int    `json:"night_slots" binding:"gte=0,lte=48"`
}

// ListScoringConfigs 获取业务评分配置历史
func (h *Handler) ListScoringConfigs(c *gin.Context) {
	businessID, ok := parseBusinessIDQuery(c)
	if !ok {
		return
	}
	configs, err := h.ScoringConfigService.List(businessID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, configs)
}

// CreateScoringConfig 新增评分配置
func (h *Handler) CreateScoringConfig(c *gin.Context) {
	var req CreateScoringConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.scoring_config_invalid", err)
		return
	}
	config, err := h.ScoringConfigService.Create(service.CreateScoringConfigInput{
		BusinessID:    req.BusinessID,
		EffectiveFrom: req.EffectiveFrom,
		DaySlots:      req.DaySlots,
		NightSlots:    req.NightSlots,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, config)
}

// GetEffectiveScoringConfig 获取指定日期生效的评分配置
func (h *Handler) GetEffectiveScoringConfig(c *gin.Context) {
	businessID, ok := parseBusinessIDQuery(c)
	if !ok {
		return
	}
	day, err := service.ParseDay(c.Query("date"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.scoring_config_invalid", nil)
		return
	}
	config, err := h.ScoringConfigService.ConfigFor(businessID, day)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, config)
}

func parseBusinessIDQuery(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Query("business_id")), 10, 32)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.scoring_config_invalid", nil)
		return 0, false
	}
	return uint(id), true
}

package operator

import (
	handlershared "github.com/cumplido-next/internal/http/handlers/shared"
	"github.com/cumplido-next/internal/http/response"
	"github.com/cumplido-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AssignRequest 排班请求，worker 为 null、缺失或空白表示移除
type AssignRequest struct {
	PositionID service.FlexString     `json:"position_id" binding:"required"`
	Date       service.FlexString     `json:"date" binding:"required"`
	ShiftType  service.FlexString     `json:"shift_type" binding:"required,shift_type"`
	Worker     service.OptionalString `json:"worker"`
}

// AssignShift 分配/更新/移除班次人员
func (h *Handler) AssignShift(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.fulfillment_invalid", err)
		return
	}
	if req.PositionID.Invalid || req.Date.Invalid || req.Worker.Invalid {
		respondError(c, response.CodeBadRequest, "error.fulfillment_invalid", nil)
		return
	}

	result, err := h.AssignmentService.Assign(c.Request.Context(), service.AssignInput{
		PositionID: req.PositionID.Value,
		Date:       req.Date.Value,
		ShiftType:  req.ShiftType.Value,
		Worker:     req.Worker.Pointer(),
		Operator:   handlershared.OperatorLabel(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, result)
}

// GetFulfillment 获取履职记录
func (h *Handler) GetFulfillment(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id", "error.fulfillment_invalid")
	if !ok {
		return
	}
	fulfillment, err := h.AssignmentService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, fulfillment)
}

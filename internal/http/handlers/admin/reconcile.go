package admin

import (
	"bytes"

	handlershared "github.com/cumplido-next/internal/http/handlers/shared"
	"github.com/cumplido-next/internal/http/response"
	"github.com/cumplido-next/internal/service"

	"github.com/gin-gonic/gin"
)

const maxReconcileBodyBytes = 4 << 20

// ReconcileFulfillments 同步批量对账：逐条处理并返回汇总
func (h *Handler) ReconcileFulfillments(c *gin.Context) {
	raw, ok := readReconcileBody(c)
	if !ok {
		return
	}
	items, err := service.DecodeReconcileItems(raw)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.fulfillment_invalid", err)
		return
	}
	summary := h.ReconcileService.Reconcile(c.Request.Context(), items)
	requestLog(c).Infow("admin_reconcile_completed",
		"operator", handlershared.OperatorLabel(c),
		"items", len(items),
		"created", summary.Created,
		"updated", summary.Updated,
		"errors", len(summary.Errors),
	)
	response.Success(c, summary)
}

// EnqueueReconcile 异步批量对账：入队后返回任务 ID
func (h *Handler) EnqueueReconcile(c *gin.Context) {
	raw, ok := readReconcileBody(c)
	if !ok {
		return
	}
	requestID, _ := c.Get("request_id")
	requestIDText, _ := requestID.(string)
	taskID, err := h.ReconcileService.EnqueueReconcile(raw, handlershared.OperatorLabel(c), requestIDText)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"task_id": taskID})
}

func readReconcileBody(c *gin.Context) ([]byte, bool) {
	raw, err := c.GetRawData()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return nil, false
	}
	if len(raw) > maxReconcileBodyBytes {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return nil, false
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		respondError(c, response.CodeBadRequest, "error.fulfillment_invalid", nil)
		return nil, false
	}
	return raw, true
}

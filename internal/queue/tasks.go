package queue

import (
	"encoding/json"

	"github.com/cumplido-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskReconcileBatch 批量对账任务
	TaskReconcileBatch = constants.TaskReconcileBatch
)

// ReconcileBatchPayload 批量对账任务载荷
// Items 保留原始 JSON，以区分显式 null 与缺失字段
type ReconcileBatchPayload struct {
	RequestedBy string          `json:"requested_by"`
	RequestID   string          `json:"request_id"`
	Items       json.RawMessage `json:"items"`
}

// NewReconcileBatchTask 创建批量对账任务
func NewReconcileBatchTask(payload ReconcileBatchPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReconcileBatch, body), nil
}

// ParseReconcileBatchPayload 解析批量对账任务载荷
func ParseReconcileBatchPayload(data []byte) (ReconcileBatchPayload, error) {
	var payload ReconcileBatchPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return payload, err
	}
	return payload, nil
}

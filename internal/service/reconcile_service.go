package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cumplido-next/internal/logger"
	"github.com/cumplido-next/internal/metrics"
	"github.com/cumplido-next/internal/queue"
)

// ReconcileItem 批量对账条目
// worker_name 必须出现：显式 null 表示移除，缺失视为校验错误
type ReconcileItem struct {
	PositionID FlexString     `json:"position_id"`
	Date       FlexString     `json:"date"`
	ShiftType  FlexString     `json:"shift_type"`
	WorkerName OptionalString `json:"worker_name"`
}

// ReconcileError 单条失败信息
type ReconcileError struct {
	PositionID string `json:"position_id"`
	Error      string `json:"error"`
}

// ReconcileSummary 批量对账汇总
type ReconcileSummary struct {
	OK      bool             `json:"ok"`
	Created int              `json:"created"`
	Updated int              `json:"updated"`
	Errors  []ReconcileError `json:"errors"`
}

// ReconcileService 批量对账服务
type ReconcileService struct {
	assignments *ShiftAssignmentService
	queueClient *queue.Client
	metrics     *metrics.Metrics
}

// NewReconcileService 创建批量对账服务
func NewReconcileService(assignments *ShiftAssignmentService, queueClient *queue.Client, m *metrics.Metrics) *ReconcileService {
	return &ReconcileService{
		assignments: assignments,
		queueClient: queueClient,
		metrics:     m,
	}
}

// DecodeReconcileItems 解析批量条目（保留 null 与缺失的区别）
func DecodeReconcileItems(raw []byte) ([]ReconcileItem, error) {
	var items []ReconcileItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFulfillmentInvalid, err)
	}
	return items, nil
}

// Reconcile 逐条处理，单条失败不影响其他条目，已生效的条目不回滚
func (s *ReconcileService) Reconcile(ctx context.Context, items []ReconcileItem) ReconcileSummary {
	summary := ReconcileSummary{OK: true, Errors: []ReconcileError{}}
	for index, item := range items {
		result, err := s.reconcileItem(ctx, item)
		if err != nil {
			summary.Errors = append(summary.Errors, ReconcileError{
				PositionID: item.PositionID.Value,
				Error:      err.Error(),
			})
			s.metrics.IncReconcileItem("failed")
			logger.Warnw("reconcile_item_failed",
				"index", index,
				"position_id", item.PositionID.Value,
				"date", item.Date.Value,
				"shift_type", item.ShiftType.Value,
				"error", err,
			)
			continue
		}
		switch result.Kind {
		case AssignmentCreated:
			summary.Created++
		case AssignmentUpdated, AssignmentCleared:
			summary.Updated++
		}
		s.metrics.IncReconcileItem(string(result.Kind))
	}
	logger.Infow("reconcile_batch_completed",
		"items", len(items),
		"created", summary.Created,
		"updated", summary.Updated,
		"failed", len(summary.Errors),
	)
	return summary
}

func (s *ReconcileService) reconcileItem(ctx context.Context, item ReconcileItem) (*AssignmentResult, error) {
	if err := validateReconcileItem(item); err != nil {
		return nil, err
	}
	slot, err := ParseSlot(item.PositionID.Value, item.Date.Value, item.ShiftType.Value)
	if err != nil {
		return nil, err
	}
	return s.assignments.applyBatch(ctx, slot, item.WorkerName.Pointer())
}

func validateReconcileItem(item ReconcileItem) error {
	if item.PositionID.Invalid {
		return fmt.Errorf("%w: position_id must be a number", ErrFulfillmentInvalid)
	}
	if item.Date.Invalid {
		return fmt.Errorf("%w: date must be a string", ErrFulfillmentInvalid)
	}
	if item.ShiftType.Invalid {
		return fmt.Errorf("%w: shift_type must be a number", ErrFulfillmentInvalid)
	}
	if !item.WorkerName.Set {
		return fmt.Errorf("%w: worker_name is required, send null to remove", ErrFulfillmentInvalid)
	}
	if item.WorkerName.Invalid {
		return fmt.Errorf("%w: worker_name must be a string or null", ErrFulfillmentInvalid)
	}
	return nil
}

// EnqueueReconcile 异步批量对账，返回任务 ID
func (s *ReconcileService) EnqueueReconcile(raw json.RawMessage, requestedBy, requestID string) (string, error) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return "", ErrQueueUnavailable
	}
	items, err := DecodeReconcileItems(raw)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", ErrReconcileItemsEmpty
	}
	taskID, err := s.queueClient.EnqueueReconcileBatch(queue.ReconcileBatchPayload{
		RequestedBy: requestedBy,
		RequestID:   requestID,
		Items:       raw,
	})
	if err != nil {
		if errors.Is(err, queue.ErrQueueDisabled) {
			return "", ErrQueueUnavailable
		}
		return "", err
	}
	logger.Infow("reconcile_batch_enqueued",
		"task_id", taskID,
		"items", len(items),
		"requested_by", requestedBy,
	)
	return taskID, nil
}

package worker

import (
	"context"
	"errors"

	"github.com/cumplido-next/internal/logger"
	"github.com/cumplido-next/internal/provider"
	"github.com/cumplido-next/internal/queue"
	"github.com/cumplido-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskReconcileBatch, c.handleReconcileBatch)
}

func (c *Consumer) handleReconcileBatch(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || task == nil {
		logger.Debugw("worker_reconcile_batch_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseReconcileBatchPayload(task.Payload())
	if err != nil {
		logger.Warnw("worker_reconcile_batch_unmarshal_failed", "error", err)
		return err
	}
	items, err := service.DecodeReconcileItems(payload.Items)
	if err != nil {
		// 载荷已在入队时校验，解码失败重试也无意义
		logger.Warnw("worker_reconcile_batch_decode_failed",
			"request_id", payload.RequestID,
			"error", err,
		)
		return nil
	}
	if len(items) == 0 {
		logger.Debugw("worker_reconcile_batch_skip_empty", "request_id", payload.RequestID)
		return nil
	}
	if c.ReconcileService == nil {
		logger.Warnw("worker_reconcile_batch_skip_service_nil", "request_id", payload.RequestID)
		return errors.New("reconcile service not initialized")
	}

	summary := c.ReconcileService.Reconcile(ctx, items)
	logger.Infow("worker_reconcile_batch_done",
		"request_id", payload.RequestID,
		"requested_by", payload.RequestedBy,
		"items", len(items),
		"ok", summary.OK,
		"created", summary.Created,
		"updated", summary.Updated,
		"errors", len(summary.Errors),
	)
	return nil
}
